package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/idgen"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg, os.Args[2:]); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// runMigrate handles "migrate up" and "migrate down" without starting the server.
func runMigrate(cfg *config.Config, args []string) error {
	if cfg.StorageDriver != config.StoragePostgres {
		return fmt.Errorf("migrations need the %q storage driver, got %q", config.StoragePostgres, cfg.StorageDriver)
	}

	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}

	switch direction {
	case "up":
		return postgres.RunMigrations(cfg.DatabaseURL, cfg.DatabaseMigrationsPath)
	case "down":
		return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.DatabaseMigrationsPath)
	default:
		return fmt.Errorf("unknown migrate direction %q (want up or down)", direction)
	}
}

// ledgerStore is a repository that also supports full scans.
type ledgerStore interface {
	usecase.LedgerRepository
	usecase.LedgerAuditRepository
}

type storage struct {
	txManager usecase.TransactionManager
	ledger    ledgerStore
	checks    map[string]handler.Pinger
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory ledger; entries are lost on restart")
		return &storage{
			txManager: memory.NewTxManager(),
			ledger:    memory.NewLedgerRepository(),
			checks:    map[string]handler.Pinger{},
			close:     func() {},
		}, nil

	case config.StoragePostgres:
		if cfg.DatabaseAutoMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.DatabaseMigrationsPath); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to postgres")

		txManager := postgresRepo.NewTxManager(pool, postgresRepo.TxConfig{
			LockKey: cfg.LedgerLockKey,
			Timeout: cfg.LedgerTxTimeout,
			Retrier: postgresRepo.NewRetrier(cfg.LedgerMaxRetries, log),
			Logger:  log,
		})

		return &storage{
			txManager: txManager,
			ledger:    postgresRepo.NewLedgerRepository(pool),
			checks:    map[string]handler.Pinger{"postgres": pool},
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

type routerDeps struct {
	storage     *storage
	idempotency usecase.IdempotencyStore
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	rateLimiter *middleware.RateLimiter
}

func newRouter(cfg *config.Config, deps routerDeps, log zerolog.Logger) http.Handler {
	m := deps.metrics
	if m == nil {
		m = metrics.New(deps.registry)
	}

	// Initialize use cases
	walletUC := usecase.NewWalletUseCase(deps.storage.txManager, deps.storage.ledger, idgen.NewULIDGenerator())
	ledgerUC := usecase.NewReconciliationUseCase(deps.storage.ledger)

	routerCfg := httpAdapter.RouterConfig{
		WalletHandler: handler.NewWalletHandler(walletUC, m, log),
		LedgerHandler: handler.NewLedgerHandler(ledgerUC, m, log),
		HealthHandler: handler.NewHealthHandler(deps.storage.checks),
		RateLimiter:   deps.rateLimiter,
		Metrics:       m,
		Gatherer:      deps.registry,
		Logger:        log,
	}
	if deps.idempotency != nil {
		routerCfg.Idempotency = middleware.NewIdempotencyMiddleware(deps.idempotency, cfg.IdempotencyTTL, m, log)
	}

	return httpAdapter.NewRouter(routerCfg)
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	registry := newRegistry()
	deps := routerDeps{storage: st, registry: registry, metrics: metrics.New(registry)}

	// Connect to Redis
	if cfg.IdempotencyEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, redis.WithTimeout(cfg.DatabaseTimeout))
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		deps.idempotency = redisRepo.NewIdempotencyStore(redisClient)
		st.checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	if cfg.RateLimitEnabled() {
		deps.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, deps.metrics)
		deps.rateLimiter.StartCleanup(ctx, limiterCleanupInterval, limiterMaxIdle)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      newRouter(cfg, deps, log),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
