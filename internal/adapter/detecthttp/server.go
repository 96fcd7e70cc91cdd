// Package detecthttp is the flood-detection service API.
package detecthttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coastwatch/hazard-report-service/internal/detect"
)

// Server exposes the detection endpoint with health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	service    *detect.Service
	logger     *slog.Logger
}

// NewServer creates the detectord HTTP server.
func NewServer(addr string, service *detect.Service, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("POST /api/flood-detection", s.handleDetect)
	mux.HandleFunc("GET /api/health", s.handleModelHealth)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
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

// handleDetect scores one image. Missing input is the caller's fault (400);
// an image the analyzer cannot decode comes back as an unsuccessful verdict
// with a 500, matching what detection clients expect from the upstream
// model service.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detect.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Malformed request body",
		})
		return
	}
	if req.Image == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "No image data provided",
		})
		return
	}

	verdict := s.service.Detect(r.Context(), req)
	if !verdict.Success {
		writeJSON(w, http.StatusInternalServerError, verdict)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) handleModelHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"model":  detect.ModelName,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady always reports ready: the analyzer is pure computation with no
// dependencies to wait on.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
