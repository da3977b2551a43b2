package ops

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"docugen/domain/core"
	"docugen/internal/output"
	"docugen/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the operational sidecar: health, job history, and profiling
// endpoints kept off the public upload server's port.
type Server struct {
	router *chi.Mux
	jobs   ports.JobRepository // nil when job history is disabled
	store  *output.Store
}

// NewServer creates the ops server around the job history and output store
func NewServer(jobs ports.JobRepository, store *output.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		jobs:   jobs,
		store:  store,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/jobs", s.handleRecentJobs)
	s.router.Get("/api/jobs/{id}", s.handleJobByID)
	s.router.Get("/api/documents", s.handleDocuments)
	s.router.Mount("/debug", middleware.Profiler())
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the ops HTTP server
func (s *Server) Start(port string) error {
	addr := ":" + port
	log.Printf("[Ops] Starting ops server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"job_history": s.jobs != nil,
	})
}

func (s *Server) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		s.respondError(w, http.StatusServiceUnavailable, "job history is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	jobs, err := s.jobs.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("[Ops] Failed to list jobs: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		s.respondError(w, http.StatusServiceUnavailable, "job history is not configured")
		return
	}

	id, err := core.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	job, err := s.jobs.GetByID(r.Context(), id.String())
	if err != nil {
		s.respondError(w, http.StatusNotFound, "generation job not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.List()
	if err != nil {
		log.Printf("[Ops] Failed to list documents: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":     len(files),
		"documents": files,
	})
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
