// Package httptransport assembles the HTTP surface: middleware stack, domain
// handler mounts, health and metrics endpoints. It holds no business logic.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sahaay/internal/platform/metrics"
	"sahaay/internal/platform/middleware"
	"sahaay/pkg/platform/audit"
	"sahaay/pkg/platform/httputil"
	"sahaay/pkg/platform/middleware/metadata"
	"sahaay/pkg/platform/middleware/requesttime"
	"sahaay/pkg/platform/middleware/session"
)

// Registerer is implemented by the per-module handlers.
type Registerer interface {
	Register(r chi.Router)
}

// HealthChecker reports the liveness of one backing dependency.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) error
}

// Config wires the router's dependencies.
type Config struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Sessions *session.TokenService
	Auditor  audit.Emitter

	// Handlers are mounted under /api/v1.
	Handlers []Registerer

	// Checkers back the health endpoint. Unconfigured dependencies are
	// simply absent.
	Checkers []HealthChecker
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(cfg.Checkers))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.Sessions != nil {
			api.Use(session.Middleware(cfg.Sessions, cfg.Auditor, cfg.Logger))
		}
		for _, h := range cfg.Handlers {
			h.Register(api)
		}
	})

	return r
}

// healthStatus is one dependency's state in the health report.
type healthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func healthHandler(checkers []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		deps := make(map[string]healthStatus, len(checkers))
		healthy := true
		for _, checker := range checkers {
			if err := checker.Health(ctx); err != nil {
				deps[checker.Name()] = healthStatus{Status: "down", Error: err.Error()}
				healthy = false
				continue
			}
			deps[checker.Name()] = healthStatus{Status: "up"}
		}

		status := http.StatusOK
		overall := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		httputil.WriteJSON(w, status, map[string]any{
			"status":       overall,
			"dependencies": deps,
		})
	}
}
