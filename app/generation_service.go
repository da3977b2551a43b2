package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"docugen/adapters/spreadsheet"
	"docugen/domain/core"
	"docugen/domain/docs"
	"docugen/domain/roster"
	apperrors "docugen/internal/errors"
	"docugen/internal/insights"
	"docugen/internal/output"
	"docugen/models"
	"docugen/ports"

	"golang.org/x/sync/semaphore"
)

// GenerationService turns an employee roster into per-employee documents.
// Batches run one at a time; concurrent requests queue on the semaphore.
type GenerationService struct {
	renderers map[docs.Kind]ports.DocumentRenderer
	store     *output.Store
	jobs      ports.JobRepository // nil when job history is disabled
	layout    docs.Layout
	sem       *semaphore.Weighted
}

// GenerationRequest defines one document generation batch
type GenerationRequest struct {
	RosterPath string
	SourceName string
	Format     docs.Format
	Logo       *docs.Logo
}

// RowError describes a roster row that could not be processed
type RowError struct {
	Row     int    `json:"row"` // spreadsheet row number, header is row 1
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// GenerationResult contains the complete output of a generation batch
type GenerationResult struct {
	JobID      core.JobID             `json:"job_id,omitempty"`
	Files      []docs.GeneratedFile   `json:"files"`
	RowErrors  []RowError             `json:"row_errors,omitempty"`
	Summary    *insights.BatchSummary `json:"summary,omitempty"`
	TotalRows  int                    `json:"total_rows"`
	DurationMS float64                `json:"duration_ms"`
}

// GeneratedCount reports how many documents the batch produced
func (r *GenerationResult) GeneratedCount() int {
	return len(r.Files)
}

// NewGenerationService creates a generation service from the registered renderers
func NewGenerationService(renderers []ports.DocumentRenderer, store *output.Store, jobs ports.JobRepository, layout docs.Layout) *GenerationService {
	byKind := make(map[docs.Kind]ports.DocumentRenderer, len(renderers))
	for _, r := range renderers {
		byKind[r.Kind()] = r
	}
	return &GenerationService{
		renderers: byKind,
		store:     store,
		jobs:      jobs,
		layout:    layout,
		sem:       semaphore.NewWeighted(1),
	}
}

// Run reads the roster, validates its columns, and renders one document per
// requested format for every valid row. Rows that cannot be processed are
// skipped and reported in the result, never aborting the batch.
func (s *GenerationService) Run(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	startTime := time.Now()
	log.Printf("[GenerationService] Starting batch for %s (format=%s)", req.SourceName, req.Format)

	sheet, err := spreadsheet.NewDataReader(req.RosterPath).Read()
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if missing := roster.MissingColumns(sheet.Headers); len(missing) > 0 {
		return nil, apperrors.ValidationError("Missing required columns: " + strings.Join(missing, ", "))
	}

	kinds := req.Format.Kinds()
	for _, kind := range kinds {
		if _, ok := s.renderers[kind]; !ok {
			return nil, apperrors.InternalError(fmt.Sprintf("no renderer registered for %s documents", kind.Label()))
		}
	}

	result := &GenerationResult{TotalRows: len(sheet.Records)}
	var employees []roster.Employee
	renderedRows := 0

	for i, record := range sheet.Records {
		rowNum := i + 2

		emp, err := roster.FromRecord(record)
		if err != nil {
			log.Printf("[GenerationService] Skipping row %d: %v", rowNum, err)
			result.RowErrors = append(result.RowErrors, RowError{
				Row:     rowNum,
				Name:    record["Name"],
				Message: err.Error(),
			})
			continue
		}
		employees = append(employees, emp)

		base := docs.BaseName(emp.Name, emp.CompanyName)
		rowFiles := 0
		for _, kind := range kinds {
			name, path := s.store.ReservePath(base, kind)
			renderReq := docs.RenderRequest{
				Employee:   emp,
				Logo:       req.Logo,
				Layout:     s.layout,
				OutputPath: path,
			}
			if err := s.renderers[kind].Render(renderReq); err != nil {
				log.Printf("[GenerationService] Row %d: %s render failed: %v", rowNum, kind.Label(), err)
				result.RowErrors = append(result.RowErrors, RowError{
					Row:     rowNum,
					Name:    emp.Name,
					Message: fmt.Sprintf("%s document failed: %v", kind.Label(), err),
				})
				continue
			}

			file, err := s.store.Describe(name, path, kind)
			if err != nil {
				log.Printf("[GenerationService] Row %d: failed to stat %s: %v", rowNum, name, err)
				result.RowErrors = append(result.RowErrors, RowError{
					Row:     rowNum,
					Name:    emp.Name,
					Message: fmt.Sprintf("%s document failed: %v", kind.Label(), err),
				})
				continue
			}
			result.Files = append(result.Files, file)
			rowFiles++
		}
		if rowFiles > 0 {
			renderedRows++
		}
	}

	if len(employees) > 0 {
		result.Summary = insights.Summarize(employees, time.Now())
	}
	result.DurationMS = float64(time.Since(startTime).Nanoseconds()) / 1e6

	s.recordJob(ctx, req, sheet, result, renderedRows)

	log.Printf("[GenerationService] Batch complete: %d documents, %d of %d rows skipped in %.2fms",
		len(result.Files), result.TotalRows-renderedRows, result.TotalRows, result.DurationMS)
	return result, nil
}

// recordJob persists the batch to job history. History is best-effort: a
// storage failure is logged and the batch still succeeds.
func (s *GenerationService) recordJob(ctx context.Context, req GenerationRequest, sheet *roster.Sheet, result *GenerationResult, renderedRows int) {
	if s.jobs == nil {
		return
	}

	job := models.NewGenerationJob(req.SourceName, string(req.Format))
	job.RosterHash = rosterFingerprint(sheet).String()
	job.TotalRows = result.TotalRows
	job.GeneratedCount = len(result.Files)
	job.SkippedRows = result.TotalRows - renderedRows
	job.DurationMS = result.DurationMS
	job.Metadata.LogoAttached = req.Logo != nil

	if result.Summary != nil {
		companies := make(map[string]int, len(result.Summary.Companies))
		for _, c := range result.Summary.Companies {
			companies[c.Company] = c.Count
		}
		job.Metadata.Companies = companies
		job.Metadata.TenureMeanDays = result.Summary.TenureMeanDays
	}
	for _, re := range result.RowErrors {
		job.Metadata.RowErrors = append(job.Metadata.RowErrors, fmt.Sprintf("row %d: %s", re.Row, re.Message))
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		log.Printf("[GenerationService] Failed to record job history: %v", err)
		return
	}
	result.JobID = job.ID
}

// rosterFingerprint hashes the sheet content so identical uploads can be
// spotted in job history
func rosterFingerprint(sheet *roster.Sheet) core.Hash {
	var sb strings.Builder
	sb.WriteString(strings.Join(sheet.Headers, "|"))
	for _, rec := range sheet.Records {
		sb.WriteByte('\n')
		for i, h := range sheet.Headers {
			if i > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(rec[h])
		}
	}
	return core.NewHash([]byte(sb.String()))
}
