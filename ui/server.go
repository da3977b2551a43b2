package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"docugen/app"
	"docugen/internal/config"
	apperrors "docugen/internal/errors"
	"docugen/internal/output"
	"docugen/internal/staging"
	"docugen/ports"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// Server represents the document generator web application
type Server struct {
	router        *gin.Engine
	cfg           *config.Config
	service       *app.GenerationService
	store         *output.Store
	staging       *staging.Store
	jobs          ports.JobRepository // nil when history is disabled
	templates     *template.Template
	embeddedFiles fs.FS
	helpHTML      template.HTML
}

// NewServer creates a new web server instance. embeddedFiles holds the
// ui/templates, ui/static and ui/docs trees.
func NewServer(embeddedFiles fs.FS) *Server {
	return &Server{
		router:        gin.Default(),
		embeddedFiles: embeddedFiles,
	}
}

// Initialize sets up the server with all dependencies
func (s *Server) Initialize(cfg *config.Config, service *app.GenerationService, store *output.Store, stagingStore *staging.Store, jobs ports.JobRepository) error {
	s.cfg = cfg
	s.service = service
	s.store = store
	s.staging = stagingStore
	s.jobs = jobs

	funcMap := template.FuncMap{
		"fmtBytes": func(size int64) string {
			switch {
			case size >= 1<<20:
				return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
			case size >= 1<<10:
				return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
			default:
				return fmt.Sprintf("%d B", size)
			}
		},
		"fmtMS": func(ms float64) string {
			if ms < 1000 {
				return fmt.Sprintf("%.0f ms", ms)
			}
			return fmt.Sprintf("%.2f s", ms/1000)
		},
		"fmtDays": func(days float64) string {
			return fmt.Sprintf("%.0f", days)
		},
		"upper": strings.ToUpper,
	}

	templatesFS, err := fs.Sub(s.embeddedFiles, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap)
	patterns := []string{"*.html", "fragments/*.html"}
	for _, pattern := range patterns {
		files, err := fs.Glob(templatesFS, pattern)
		if err != nil {
			return fmt.Errorf("failed to glob templates %s: %w", pattern, err)
		}
		for _, file := range files {
			content, err := fs.ReadFile(templatesFS, file)
			if err != nil {
				return fmt.Errorf("failed to read template %s: %w", file, err)
			}
			if _, err := s.templates.New(file).Parse(string(content)); err != nil {
				return fmt.Errorf("failed to parse template %s: %w", file, err)
			}
		}
	}

	if err := s.renderHelp(); err != nil {
		return err
	}

	s.setupMiddleware()
	s.setupRoutes()

	return nil
}

// renderHelp converts the embedded help document to HTML once at startup
func (s *Server) renderHelp() error {
	md, err := fs.ReadFile(s.embeddedFiles, "ui/docs/help.md")
	if err != nil {
		return fmt.Errorf("failed to read help document: %w", err)
	}
	s.helpHTML = template.HTML(markdown.ToHTML(md, nil, nil))
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.MaxMultipartMemory = 16 << 20

	staticFS, err := fs.Sub(s.embeddedFiles, "ui/static")
	if err != nil {
		log.Printf("[Static] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/generate", s.handleGenerate)
	s.router.GET("/documents/:name", s.handleDownload)
	s.router.GET("/documents.zip", s.handleDownloadArchive)
	s.router.GET("/sample.xlsx", s.handleSampleRoster)
	s.router.GET("/help", s.handleHelp)
	s.router.GET("/api/jobs/recent", s.handleRecentJobs)
}

// Start starts the web server on the given address
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) renderTemplate(c *gin.Context, name string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Printf("[Template] Error rendering %s: %v", name, err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (s *Server) renderPartial(c *gin.Context, name string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Printf("[Template] Error rendering partial %s: %v", name, err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// statusFor maps application error codes onto HTTP status codes
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeValidationError, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
