// Package http is the reportd API: the capture endpoint plus the feed,
// alerts, tips, and profile routes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/feed"
)

// maxUploadBytes caps capture uploads at 16 MiB, comfortably above any
// phone camera JPEG.
const maxUploadBytes = 16 << 20

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report service API together with health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	pipeline   *capture.Pipeline
	store      *feed.Store
	logger     *slog.Logger
}

// NewServer creates the reportd HTTP server.
func NewServer(addr string, pipeline *capture.Pipeline, store *feed.Store, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		pipeline: pipeline,
		store:    store,
		logger:   logger,
	}

	mux.HandleFunc("POST /api/capture", s.handleCapture)
	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("POST /api/posts", s.handleSubmitPost)
	mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	mux.HandleFunc("POST /api/posts/{id}/like", s.handleLikePost)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/tips", s.handleTips)
	mux.HandleFunc("GET /api/profile", s.handleProfile)
	mux.HandleFunc("GET /api/hazard-types", s.handleHazardTypes)
	mux.HandleFunc("GET /api/translations", s.handleTranslations)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleCapture accepts a multipart upload under the "image" field and runs
// the full capture pipeline on it. Only an unreadable file is an error; a
// degraded run still returns 200 with state "degraded".
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart upload")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	result, err := s.pipeline.Capture(r.Context(), file)
	if err != nil {
		if errors.Is(err, capture.ErrUnreadableImage) {
			writeError(w, http.StatusBadRequest, "unreadable image file")
			return
		}
		s.logger.Error("capture failed", "error", err)
		writeError(w, http.StatusInternalServerError, "capture failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List(r.URL.Query().Get("filter")))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleSubmitPost(w http.ResponseWriter, r *http.Request) {
	var sub feed.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "malformed submission")
		return
	}

	post, err := s.store.Submit(r.Context(), sub)
	if err != nil {
		if errors.Is(err, feed.ErrUnknownHazard) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.Like(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Alerts())
}

func (s *Server) handleTips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Tips())
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleHazardTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.HazardTypes)
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, feed.Translations(r.URL.Query().Get("lang")))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
