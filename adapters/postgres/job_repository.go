package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"docugen/models"
	"docugen/ports"

	"github.com/jmoiron/sqlx"
)

// jobRepository implements the JobRepository interface
type jobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new generation-job repository
func NewJobRepository(db *sqlx.DB) ports.JobRepository {
	return &jobRepository{db: db}
}

// Save inserts one completed batch into the history table
func (r *jobRepository) Save(ctx context.Context, job *models.GenerationJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid generation job: %w", err)
	}

	metadataJSON, err := json.Marshal(job.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `INSERT INTO generation_jobs (
		id, source_file, roster_hash, format, total_rows, generated_count,
		skipped_rows, duration_ms, metadata, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)`

	_, err = r.db.ExecContext(ctx, query,
		job.ID, job.SourceFile, job.RosterHash, job.Format, job.TotalRows,
		job.GeneratedCount, job.SkippedRows, job.DurationMS, metadataJSON, job.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save generation job: %w", err)
	}

	return nil
}

// Recent returns the latest batches, newest first
func (r *jobRepository) Recent(ctx context.Context, limit int) ([]*models.GenerationJob, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT
		id, source_file, COALESCE(roster_hash, '') as roster_hash, format,
		COALESCE(total_rows, 0) as total_rows, COALESCE(generated_count, 0) as generated_count,
		COALESCE(skipped_rows, 0) as skipped_rows, COALESCE(duration_ms, 0) as duration_ms,
		metadata, created_at
	FROM generation_jobs
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.GenerationJob
	for rows.Next() {
		var job models.GenerationJob
		var metadataJSON []byte

		err := rows.Scan(
			&job.ID, &job.SourceFile, &job.RosterHash, &job.Format,
			&job.TotalRows, &job.GeneratedCount, &job.SkippedRows, &job.DurationMS,
			&metadataJSON, &job.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation job: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &job.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		jobs = append(jobs, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation jobs: %w", err)
	}

	return jobs, nil
}

// GetByID retrieves one batch by its ID
func (r *jobRepository) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	query := `SELECT
		id, source_file, COALESCE(roster_hash, '') as roster_hash, format,
		COALESCE(total_rows, 0) as total_rows, COALESCE(generated_count, 0) as generated_count,
		COALESCE(skipped_rows, 0) as skipped_rows, COALESCE(duration_ms, 0) as duration_ms,
		metadata, created_at
	FROM generation_jobs WHERE id = $1`

	var job models.GenerationJob
	var metadataJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.SourceFile, &job.RosterHash, &job.Format,
		&job.TotalRows, &job.GeneratedCount, &job.SkippedRows, &job.DurationMS,
		&metadataJSON, &job.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("generation job not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get generation job: %w", err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &job.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &job, nil
}
