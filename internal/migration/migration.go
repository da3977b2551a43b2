package migration

import (
	"context"

	"docugen/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createGenerationJobsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create generation_jobs table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createGenerationJobsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generation_jobs (
			id UUID PRIMARY KEY,
			source_file VARCHAR(512) NOT NULL,
			roster_hash VARCHAR(64) NOT NULL DEFAULT '',
			format VARCHAR(10) NOT NULL,
			total_rows INTEGER NOT NULL DEFAULT 0,
			generated_count INTEGER NOT NULL DEFAULT 0,
			skipped_rows INTEGER NOT NULL DEFAULT 0,
			duration_ms DECIMAL(12,3) NOT NULL DEFAULT 0,
			metadata JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_generation_jobs_created_at
		ON generation_jobs (created_at DESC)
	`)
	return err
}
