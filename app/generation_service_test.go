package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docugen/adapters/pdf"
	"docugen/adapters/spreadsheet"
	"docugen/adapters/word"
	"docugen/domain/docs"
	apperrors "docugen/internal/errors"
	"docugen/internal/output"
	"docugen/models"
	"docugen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Save(ctx context.Context, job *models.GenerationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Recent(ctx context.Context, limit int) ([]*models.GenerationJob, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.GenerationJob), args.Error(1)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.GenerationJob), args.Error(1)
}

func newTestService(t *testing.T, jobs ports.JobRepository) (*GenerationService, *output.Store) {
	t.Helper()
	store, err := output.NewStore(filepath.Join(t.TempDir(), "output"))
	if err != nil {
		t.Fatalf("failed to create output store: %v", err)
	}
	renderers := []ports.DocumentRenderer{pdf.NewRenderer(), word.NewRenderer()}
	return NewGenerationService(renderers, store, jobs, docs.DefaultLayout()), store
}

func writeSampleRoster(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample_data.xlsx")
	if err := spreadsheet.WriteSampleWorkbook(path); err != nil {
		t.Fatalf("failed to write sample workbook: %v", err)
	}
	return path
}

func writeCSVRoster(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write CSV roster: %v", err)
	}
	return path
}

func fileNames(files []docs.GeneratedFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func TestRunGeneratesBothFormatsPerRow(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: writeSampleRoster(t),
		SourceName: "sample_data.xlsx",
		Format:     docs.FormatBoth,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalRows)
	assert.Empty(t, res.RowErrors)
	assert.Len(t, res.Files, 6)

	names := fileNames(res.Files)
	for _, want := range []string{
		"John_Doe_Tech_Corp.pdf",
		"John_Doe_Tech_Corp.docx",
		"Jane_Smith_Tech_Corp.pdf",
		"Jane_Smith_Tech_Corp.docx",
		"Mike_Johnson_Innovate_Inc.pdf",
		"Mike_Johnson_Innovate_Inc.docx",
	} {
		assert.Contains(t, names, want)
	}

	for _, f := range res.Files {
		info, err := os.Stat(f.Path)
		if assert.NoError(t, err, "expected %s on disk", f.Name) {
			assert.Equal(t, info.Size(), f.Size)
			assert.Greater(t, f.Size, int64(0))
		}
	}

	if assert.NotNil(t, res.Summary) {
		assert.Equal(t, 3, res.Summary.TotalEmployees)
	}
	assert.Empty(t, res.JobID)
}

func TestRunPDFOnly(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: writeSampleRoster(t),
		SourceName: "sample_data.xlsx",
		Format:     docs.FormatPDF,
	})
	assert.NoError(t, err)
	assert.Len(t, res.Files, 3)
	for _, f := range res.Files {
		assert.Equal(t, docs.KindPDF, f.Kind)
		assert.True(t, strings.HasSuffix(f.Name, ".pdf"), "unexpected name %s", f.Name)
	}
}

func TestRunWordOnly(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: writeSampleRoster(t),
		SourceName: "sample_data.xlsx",
		Format:     docs.FormatWord,
	})
	assert.NoError(t, err)
	assert.Len(t, res.Files, 3)
	for _, f := range res.Files {
		assert.Equal(t, docs.KindWord, f.Kind)
		assert.True(t, strings.HasSuffix(f.Name, ".docx"), "unexpected name %s", f.Name)
	}
}

func TestRunMissingColumnRejectsBatch(t *testing.T) {
	svc, store := newTestService(t, nil)
	path := writeCSVRoster(t, []string{
		"Name,Company Name,Position,Joining Date",
		"John Doe,Tech Corp,Software Engineer,2024-01-15",
	})

	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: path,
		SourceName: "roster.csv",
		Format:     docs.FormatBoth,
	})
	assert.Nil(t, res)
	assert.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "Missing required columns: Email")

	files, err := store.List()
	assert.NoError(t, err)
	assert.Empty(t, files, "no documents should be produced for an invalid roster")
}

func TestRunReportsAllMissingColumns(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := writeCSVRoster(t, []string{
		"Name,Position",
		"John Doe,Software Engineer",
	})

	_, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: path,
		SourceName: "roster.csv",
		Format:     docs.FormatPDF,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required columns: Email, Company Name, Joining Date")
}

func TestRunSkipsInvalidRows(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := writeCSVRoster(t, []string{
		"Name,Email,Company Name,Position,Joining Date",
		"John Doe,john.doe@example.com,Tech Corp,Software Engineer,2024-01-15",
		",missing.name@example.com,Tech Corp,Analyst,2024-03-01",
		"Jane Smith,jane.smith@example.com,Tech Corp,Product Manager,2024-02-01",
	})

	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: path,
		SourceName: "roster.csv",
		Format:     docs.FormatPDF,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalRows)
	assert.Len(t, res.Files, 2)
	if assert.Len(t, res.RowErrors, 1) {
		assert.Equal(t, 3, res.RowErrors[0].Row)
		assert.NotEmpty(t, res.RowErrors[0].Message)
	}
	if assert.NotNil(t, res.Summary) {
		assert.Equal(t, 2, res.Summary.TotalEmployees)
	}
}

func TestRunDuplicateNamesGetSuffix(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := writeCSVRoster(t, []string{
		"Name,Email,Company Name,Position,Joining Date",
		"John Doe,john.doe@example.com,Tech Corp,Software Engineer,2024-01-15",
		"John Doe,john.doe2@example.com,Tech Corp,Senior Engineer,2023-06-01",
	})

	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: path,
		SourceName: "roster.csv",
		Format:     docs.FormatPDF,
	})
	assert.NoError(t, err)
	if assert.Len(t, res.Files, 2) {
		assert.Equal(t, "John_Doe_Tech_Corp.pdf", res.Files[0].Name)
		assert.Equal(t, "John_Doe_Tech_Corp_2.pdf", res.Files[1].Name)
	}
}

func TestRunRecordsJobHistory(t *testing.T) {
	repo := &MockJobRepository{}
	repo.On("Save", mock.Anything, mock.AnythingOfType("*models.GenerationJob")).Return(nil)

	svc, _ := newTestService(t, repo)
	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: writeSampleRoster(t),
		SourceName: "sample_data.xlsx",
		Format:     docs.FormatBoth,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.JobID)

	repo.AssertNumberOfCalls(t, "Save", 1)
	job := repo.Calls[0].Arguments.Get(1).(*models.GenerationJob)
	assert.Equal(t, "sample_data.xlsx", job.SourceFile)
	assert.Equal(t, "both", job.Format)
	assert.Equal(t, 3, job.TotalRows)
	assert.Equal(t, 6, job.GeneratedCount)
	assert.Equal(t, 0, job.SkippedRows)
	assert.Len(t, job.RosterHash, 64)
	assert.False(t, job.Metadata.LogoAttached)
	assert.Equal(t, 2, job.Metadata.Companies["Tech Corp"])
	assert.Equal(t, 1, job.Metadata.Companies["Innovate Inc"])
}

func TestRunJobHistoryFailureIsNonFatal(t *testing.T) {
	repo := &MockJobRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(fmt.Errorf("connection refused"))

	svc, _ := newTestService(t, repo)
	res, err := svc.Run(context.Background(), GenerationRequest{
		RosterPath: writeSampleRoster(t),
		SourceName: "sample_data.xlsx",
		Format:     docs.FormatPDF,
	})
	assert.NoError(t, err)
	assert.Len(t, res.Files, 3)
	assert.Empty(t, res.JobID)
}

func TestRunIdenticalRostersShareFingerprint(t *testing.T) {
	repo := &MockJobRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc, _ := newTestService(t, repo)
	for i := 0; i < 2; i++ {
		_, err := svc.Run(context.Background(), GenerationRequest{
			RosterPath: writeSampleRoster(t),
			SourceName: "sample_data.xlsx",
			Format:     docs.FormatPDF,
		})
		assert.NoError(t, err)
	}

	repo.AssertNumberOfCalls(t, "Save", 2)
	first := repo.Calls[0].Arguments.Get(1).(*models.GenerationJob)
	second := repo.Calls[1].Arguments.Get(1).(*models.GenerationJob)
	assert.Equal(t, first.RosterHash, second.RosterHash)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRunCancelledContext(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, GenerationRequest{
		RosterPath: writeSampleRoster(t),
		SourceName: "sample_data.xlsx",
		Format:     docs.FormatPDF,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
