package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router. Idempotency, RateLimiter
// and Metrics are optional.
type RouterConfig struct {
	WalletHandler *handler.WalletHandler
	LedgerHandler *handler.LedgerHandler
	HealthHandler *handler.HealthHandler

	Idempotency *middleware.IdempotencyMiddleware
	RateLimiter *middleware.RateLimiter

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/onlinewallet", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		r.Get("/balance", cfg.WalletHandler.Balance)
		r.Post("/deposit", cfg.WalletHandler.Deposit)
		r.Post("/withdraw", cfg.WalletHandler.Withdraw)

		if cfg.LedgerHandler != nil {
			r.Get("/ledger/verify", cfg.LedgerHandler.Verify)
		}
	})

	return r
}
