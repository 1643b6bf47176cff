// Package api provides the HTTP server for kudos.
// It exposes the evaluation endpoint, popular-tag administration, and the
// operational health, version and metrics routes.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tutu-network/kudos/internal/app/engagement"
	"github.com/tutu-network/kudos/internal/app/tags"
	"github.com/tutu-network/kudos/internal/health"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server is the kudos HTTP API server.
type Server struct {
	evaluator      *engagement.Evaluator
	tags           *tags.Service
	health         *health.Checker // nil: /health reports ok without checks
	modelVersion   string
	serviceVersion string
	metricsEnabled bool
	timeout        time.Duration
	logger         *zap.Logger
}

// NewServer creates a new API server.
func NewServer(ev *engagement.Evaluator, tagSvc *tags.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		evaluator: ev,
		tags:      tagSvc,
		timeout:   30 * time.Second,
		logger:    logger.Named("api"),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth sets the checker behind /health.
func (s *Server) SetHealth(c *health.Checker) { s.health = c }

// SetVersions sets the values reported by /version.
func (s *Server) SetVersions(model, service string) {
	s.modelVersion, s.serviceVersion = model, service
}

// SetTimeout overrides the per-request timeout.
func (s *Server) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(corsMiddleware)

	r.Post("/generate-social-nudges", s.handleGenerateSocialNudges)

	r.Post("/update-popular-tags", s.handleUpdatePopularTags)
	r.Get("/popular-tags", s.handlePopularTags)
	r.Get("/popular-tags/history", s.handlePopularTagHistory)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorType(w, status, "error", msg)
}

func writeErrorType(w http.ResponseWriter, status int, typ, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    typ,
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
