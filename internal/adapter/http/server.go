package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClimateService is the subset of climate.Client the HTTP surface needs.
type ClimateService interface {
	CheckReadiness(ctx context.Context) error
	ListModels(ctx context.Context) []string
	GetNormals(ctx context.Context, period domain.Period, vars []domain.Variable, sites []domain.Site, months []domain.Month) ([]domain.Normals, error)
	GetClimateVariables(ctx context.Context, from, to int, vars []domain.Variable, sites []domain.Site, model string) ([]domain.ClimateSeries, error)
}

// Server exposes the climate API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        ClimateService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the /v1 routes.
func NewServer(addr string, svc ClimateService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Weather generation for large batches can take minutes.
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger.With("component", "http"),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(svc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/models", s.handleModels)
	mux.HandleFunc("GET /v1/normals", s.handleNormals)
	mux.HandleFunc("GET /v1/climate", s.handleClimate)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ClimateService) http.HandlerFunc {
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

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models := s.svc.ListModels(r.Context())
	if models == nil {
		models = []string{}
	}
	writeJSON(w, http.StatusOK, models)
}

func (s *Server) handleNormals(w http.ResponseWriter, r *http.Request) {
	req, err := parseNormalsRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.svc.GetNormals(r.Context(), req.period, req.vars, req.sites, req.months)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClimate(w http.ResponseWriter, r *http.Request) {
	req, err := parseClimateRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.svc.GetClimateVariables(r.Context(), req.from, req.to, req.vars, req.sites, req.model)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// statusFor maps the client's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrServerReply):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrConnectivity):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
