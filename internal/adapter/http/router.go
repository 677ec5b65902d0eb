package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bookledger/internal/adapter/http/handler"
	"github.com/iho/bookledger/internal/adapter/http/middleware"
	"github.com/iho/bookledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	StagingHandler   *handler.StagingHandler
	TrialHandler     *handler.TrialHandler
	JournalHandler   *handler.JournalHandler
	PatternHandler   *handler.PatternHandler
	AuditHandler     *handler.AuditHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Account registry
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Patch("/{code}/status", cfg.AccountHandler.SetStatus)
			r.Get("/{code}/balance", cfg.AccountHandler.Balance)
		})

		// Categorization rules
		r.Route("/rules", func(r chi.Router) {
			r.Post("/", cfg.PatternHandler.Create)
			r.Get("/", cfg.PatternHandler.List)
			r.Delete("/{id}", cfg.PatternHandler.Deactivate)
		})

		// Staged bank transactions
		r.Route("/staging", func(r chi.Router) {
			r.Post("/", cfg.StagingHandler.Import)
			r.Get("/", cfg.StagingHandler.List)
			r.Get("/summary", cfg.StagingHandler.Summary)
			r.Put("/{id}/account", cfg.StagingHandler.Assign)
		})

		// Trial phase
		r.Route("/trial", func(r chi.Router) {
			r.Post("/build", cfg.TrialHandler.Build)
			r.Post("/validate", cfg.TrialHandler.Validate)
			r.Post("/match-transfers", cfg.TrialHandler.MatchTransfers)
			r.Get("/", cfg.TrialHandler.List)
			r.Get("/summary", cfg.TrialHandler.Summary)
		})

		// Journal
		r.Route("/journal", func(r chi.Router) {
			r.Post("/post", cfg.JournalHandler.Post)
			r.Get("/", cfg.JournalHandler.List)
			r.Get("/{id}", cfg.JournalHandler.Get)
			r.Post("/{id}/reverse", cfg.JournalHandler.Reverse)
		})

		// Audit trail
		r.Get("/audit", cfg.AuditHandler.List)
	})

	return r
}
