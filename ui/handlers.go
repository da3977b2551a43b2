package ui

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docugen/adapters/spreadsheet"
	"docugen/app"
	"docugen/domain/docs"
	apperrors "docugen/internal/errors"
	"docugen/internal/logo"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedRosterExtensions = []string{".xlsx", ".csv"}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", s.indexData(nil, ""))
}

// indexData assembles the data for the main page. result and errMsg are
// both optional; errMsg wins when set.
func (s *Server) indexData(result *app.GenerationResult, errMsg string) gin.H {
	return gin.H{
		"MaxUploadMB":    s.cfg.Uploads.MaxRosterMB,
		"MaxLogoMB":      logo.MaxSizeBytes / (1024 * 1024),
		"HistoryEnabled": s.jobs != nil,
		"Result":         result,
		"Error":          errMsg,
	}
}

func (s *Server) handleGenerate(c *gin.Context) {
	startTime := time.Now()

	file, header, err := c.Request.FormFile("roster")
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "Please choose a roster file to upload")
		return
	}
	defer file.Close()

	if err := s.validateRosterUpload(header.Filename, header.Size); err != nil {
		s.renderError(c, statusFor(err), apperrors.UserMessage(err))
		return
	}

	format, err := docs.ParseFormat(c.PostForm("format"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	rosterPath, err := s.staging.Save(file, header.Filename)
	if err != nil {
		log.Printf("[UI] Failed to stage roster %s: %v", header.Filename, err)
		s.renderError(c, http.StatusInternalServerError, "Failed to store the uploaded roster")
		return
	}
	defer s.staging.Discard(rosterPath)

	batchLogo, err := s.stageLogo(c)
	if err != nil {
		s.renderError(c, statusFor(err), apperrors.UserMessage(err))
		return
	}
	if batchLogo != nil {
		defer logo.Discard(batchLogo)
	}

	result, err := s.service.Run(c.Request.Context(), app.GenerationRequest{
		RosterPath: rosterPath,
		SourceName: filepath.Base(header.Filename),
		Format:     format,
		Logo:       batchLogo,
	})
	if err != nil {
		s.renderError(c, statusFor(err), apperrors.UserMessage(err))
		return
	}

	log.Printf("[UI] Batch for %s finished in %.2fms (%d files)",
		header.Filename, float64(time.Since(startTime).Nanoseconds())/1e6, len(result.Files))

	if isHTMX(c) {
		s.renderPartial(c, "fragments/results.html", gin.H{"Result": result})
		return
	}
	s.renderTemplate(c, "index.html", s.indexData(result, ""))
}

// stageLogo copies the optional logo upload into the staging directory.
// Returns nil with no error when the form carried no logo.
func (s *Server) stageLogo(c *gin.Context) (*docs.Logo, error) {
	logoFile, logoHeader, err := c.Request.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.InvalidInput("The logo upload could not be read")
	}
	defer logoFile.Close()

	// Browsers submit an empty part when the field is left blank
	if logoHeader.Filename == "" {
		return nil, nil
	}

	return logo.Stage(logoFile, logoHeader.Filename, logoHeader.Size, s.staging.Dir())
}

func (s *Server) validateRosterUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, a := range allowedRosterExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.UnsupportedMedia("Only Excel (.xlsx) and CSV (.csv) rosters are allowed")
	}

	if size > s.cfg.Uploads.MaxRosterBytes() {
		return apperrors.FileTooLarge(fmt.Sprintf("Roster size (%.1f MB) exceeds the %dMB limit",
			float64(size)/(1024*1024), s.cfg.Uploads.MaxRosterMB))
	}

	return nil
}

// renderError writes the failure either as an HTMX fragment or as the
// full page with the error banner filled in
func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.Status(status)
	if isHTMX(c) {
		s.renderPartial(c, "fragments/error.html", gin.H{"Error": message})
		return
	}
	s.renderTemplate(c, "index.html", s.indexData(nil, message))
}

func (s *Server) handleDownload(c *gin.Context) {
	name := c.Param("name")
	path, err := s.store.Resolve(name)
	if err != nil {
		c.String(http.StatusNotFound, "document not found")
		return
	}
	c.FileAttachment(path, name)
}

func (s *Server) handleDownloadArchive(c *gin.Context) {
	files, err := s.store.List()
	if err != nil {
		log.Printf("[UI] Failed to list documents: %v", err)
		c.String(http.StatusInternalServerError, "failed to list documents")
		return
	}
	if len(files) == 0 {
		c.String(http.StatusNotFound, "no documents generated yet")
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="employee_documents.zip"`)
	if err := s.store.WriteArchive(c.Writer, files); err != nil {
		// Headers are gone at this point, all we can do is log
		log.Printf("[UI] Failed to stream archive: %v", err)
	}
}

func (s *Server) handleSampleRoster(c *gin.Context) {
	if err := os.MkdirAll(s.staging.Dir(), 0755); err != nil {
		c.String(http.StatusInternalServerError, "failed to prepare sample roster")
		return
	}
	path := filepath.Join(s.staging.Dir(), fmt.Sprintf("sample_%s.xlsx", uuid.New().String()[:8]))
	if err := spreadsheet.WriteSampleWorkbook(path); err != nil {
		log.Printf("[UI] Failed to write sample roster: %v", err)
		c.String(http.StatusInternalServerError, "failed to prepare sample roster")
		return
	}
	defer os.Remove(path)
	c.FileAttachment(path, "sample_data.xlsx")
}

func (s *Server) handleHelp(c *gin.Context) {
	s.renderTemplate(c, "help.html", gin.H{"HelpHTML": s.helpHTML})
}

func (s *Server) handleRecentJobs(c *gin.Context) {
	if s.jobs == nil {
		if isHTMX(c) {
			s.renderPartial(c, "fragments/jobs.html", gin.H{"Disabled": true})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job history is not configured"})
		return
	}

	jobs, err := s.jobs.Recent(c.Request.Context(), 10)
	if err != nil {
		log.Printf("[UI] Failed to load recent jobs: %v", err)
		if isHTMX(c) {
			s.renderPartial(c, "fragments/jobs.html", gin.H{"LoadError": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job history"})
		return
	}

	if isHTMX(c) {
		s.renderPartial(c, "fragments/jobs.html", gin.H{"Jobs": jobs})
		return
	}
	c.JSON(http.StatusOK, jobs)
}
