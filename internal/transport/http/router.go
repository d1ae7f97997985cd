// Package http assembles the chi router from the platform middleware stack
// and the per-module handlers.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "legacylink/internal/account/handler"
	"legacylink/internal/platform/metrics"
	"legacylink/internal/platform/middleware"
	"legacylink/internal/transport/http/shared"
	verificationhandler "legacylink/internal/verification/handler"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Account      *accounthandler.Handler
	Verification *verificationhandler.Handler
	// Dependencies checked by /healthz, keyed by name.
	Dependencies map[string]HealthChecker
}

// NewRouter builds the service router. Handler sub-routers attach their own
// auth and timeout middleware; only cross-cutting concerns live here.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Latency(cfg.Metrics))
	}

	r.Get("/healthz", healthz(cfg.Dependencies))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cfg.Account.Register(r)
	cfg.Verification.Register(r)

	return r
}

func healthz(deps map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Health(r.Context()); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		shared.WriteJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": checks,
		})
	}
}
