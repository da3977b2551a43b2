package models

import (
	"fmt"
	"time"

	"docugen/domain/core"
)

// GenerationJob records one completed generation batch for history views
type GenerationJob struct {
	ID             core.JobID  `json:"id" db:"id"`
	SourceFile     string      `json:"source_file" db:"source_file"`
	RosterHash     string      `json:"roster_hash" db:"roster_hash"`
	Format         string      `json:"format" db:"format"`
	TotalRows      int         `json:"total_rows" db:"total_rows"`
	GeneratedCount int         `json:"generated_count" db:"generated_count"`
	SkippedRows    int         `json:"skipped_rows" db:"skipped_rows"`
	DurationMS     float64     `json:"duration_ms" db:"duration_ms"`
	Metadata       JobMetadata `json:"metadata"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// JobMetadata is the free-form portion of a job row, stored as JSONB
type JobMetadata struct {
	Companies      map[string]int `json:"companies,omitempty"`
	RowErrors      []string       `json:"row_errors,omitempty"`
	TenureMeanDays float64        `json:"tenure_mean_days,omitempty"`
	LogoAttached   bool           `json:"logo_attached,omitempty"`
}

// NewGenerationJob creates a job row with a fresh ID and timestamp
func NewGenerationJob(sourceFile, format string) *GenerationJob {
	return &GenerationJob{
		ID:         core.JobID(core.NewID()),
		SourceFile: sourceFile,
		Format:     format,
		CreatedAt:  time.Now(),
	}
}

// Validate checks the job row before persistence
func (j *GenerationJob) Validate() error {
	if j.ID.String() == "" {
		return fmt.Errorf("job ID is required")
	}
	if j.SourceFile == "" {
		return fmt.Errorf("source file is required")
	}
	switch j.Format {
	case "both", "pdf", "word":
	default:
		return fmt.Errorf("unknown format %q", j.Format)
	}
	if j.TotalRows < 0 || j.GeneratedCount < 0 || j.SkippedRows < 0 {
		return fmt.Errorf("row counts cannot be negative")
	}
	if j.SkippedRows > j.TotalRows {
		return fmt.Errorf("skipped rows (%d) cannot exceed total rows (%d)", j.SkippedRows, j.TotalRows)
	}
	return nil
}
