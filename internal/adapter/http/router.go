package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/handler"
	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/middleware"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/auth"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler           *handler.AuthHandler
	AccountHandler        *handler.AccountHandler
	LedgerHandler         *handler.LedgerHandler
	StatementHandler      *handler.StatementHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	JWTManager            *auth.JWTManager
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	RateLimiter           *middleware.RateLimiter
	Metrics               *middleware.MetricsMiddleware
	Logging               *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", cfg.AuthHandler.Login)

		r.Route("/acc", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/", cfg.AccountHandler.Get)
			r.Post("/", cfg.AccountHandler.Create)

			r.Get("/daily-limit-for", cfg.AccountHandler.GetDailyLimit)
			r.Put("/daily-limit-for", cfg.AccountHandler.SetDailyLimit)

			r.Post("/deposit", cfg.LedgerHandler.Deposit)
			r.Post("/send-money-to", cfg.LedgerHandler.SendMoney)
			r.Post("/spend", cfg.LedgerHandler.Spend)

			r.Get("/transactions", cfg.StatementHandler.Own)
			r.Get("/transactions-for", cfg.StatementHandler.Child)

			r.Get("/reconciliation", cfg.ReconciliationHandler.Reconcile)
		})
	})

	return r
}
