package testkit

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"docugen/domain/roster"
	"docugen/models"

	"github.com/xuri/excelize/v2"
)

// SampleRows returns the demo roster as raw rows, header first
func SampleRows() [][]string {
	return [][]string{
		{"Name", "Email", "Company Name", "Position", "Joining Date"},
		{"John Doe", "john.doe@example.com", "Tech Corp", "Software Engineer", "2024-01-15"},
		{"Jane Smith", "jane.smith@example.com", "Tech Corp", "Product Manager", "2024-02-01"},
		{"Mike Johnson", "mike.j@example.com", "Innovate Inc", "Data Analyst", "2024-01-20"},
	}
}

// WriteRosterXLSX writes raw rows as an Excel workbook at path
func WriteRosterXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	sheet := "Sheet1"
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// WriteLogoPNG writes a solid-color PNG of the given dimensions at path
func WriteLogoPNG(path string, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// RequiredHeader returns a copy of the required roster columns
func RequiredHeader() []string {
	header := make([]string, len(roster.RequiredColumns))
	copy(header, roster.RequiredColumns)
	return header
}

// InMemoryJobRepository implements ports.JobRepository with map storage so
// handlers can be exercised without Postgres
type InMemoryJobRepository struct {
	mu    sync.RWMutex
	jobs  map[string]*models.GenerationJob
	order []string // insertion order, oldest first
}

// NewInMemoryJobRepository creates an empty in-memory job store
func NewInMemoryJobRepository() *InMemoryJobRepository {
	return &InMemoryJobRepository{
		jobs: make(map[string]*models.GenerationJob),
	}
}

// Save stores a validated job row
func (r *InMemoryJobRepository) Save(ctx context.Context, job *models.GenerationJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("job validation failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := job.ID.String()
	copied := *job
	if _, exists := r.jobs[id]; !exists {
		r.order = append(r.order, id)
	}
	r.jobs[id] = &copied
	return nil
}

// Recent returns the newest jobs first, capped at limit
func (r *InMemoryJobRepository) Recent(ctx context.Context, limit int) ([]*models.GenerationJob, error) {
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var jobs []*models.GenerationJob
	for i := len(r.order) - 1; i >= 0 && len(jobs) < limit; i-- {
		job := *r.jobs[r.order[i]]
		jobs = append(jobs, &job)
	}
	return jobs, nil
}

// GetByID returns a stored job by its ID
func (r *InMemoryJobRepository) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[id]
	if !exists {
		return nil, fmt.Errorf("generation job not found: %s", id)
	}
	copied := *job
	return &copied, nil
}

// Len reports how many jobs are stored
func (r *InMemoryJobRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
