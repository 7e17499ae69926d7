package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sungwon/paubox-connector/internal/auth"
)

// RouterConfig holds the dependencies of the HTTP host.
type RouterConfig struct {
	Executor Executor
	Checker  CredentialChecker
	JWT      *auth.JWTService
	Log      zerolog.Logger
	// ContinueOnFail is used when a request does not set continueOnFail.
	ContinueOnFail bool
}

// NewRouter creates a chi.Mux with all routes, middleware, and handlers configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(RecoverMiddleware(cfg.Log))

	// Health and metrics (no auth required)
	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(cfg.Checker, cfg.Log))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.JWTAuth(cfg.JWT))

		r.Post("/execute", ExecuteHandler(cfg.Executor, cfg.ContinueOnFail, cfg.Log))
	})

	return r
}
