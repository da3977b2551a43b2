package ports

import (
	"context"

	"docugen/models"
)

// JobRepository defines the interface for generation-history storage
type JobRepository interface {
	// Save persists one completed batch
	Save(ctx context.Context, job *models.GenerationJob) error

	// Recent returns the latest batches, newest first
	Recent(ctx context.Context, limit int) ([]*models.GenerationJob, error)

	// GetByID retrieves one batch by its ID
	GetByID(ctx context.Context, id string) (*models.GenerationJob, error)
}
