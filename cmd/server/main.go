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

	"github.com/badralotaibi/CS604-SHU/internal/adapter/authgateway"
	httpAdapter "github.com/badralotaibi/CS604-SHU/internal/adapter/http"
	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/handler"
	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/middleware"
	postgresRepo "github.com/badralotaibi/CS604-SHU/internal/adapter/repository/postgres"
	redisRepo "github.com/badralotaibi/CS604-SHU/internal/adapter/repository/redis"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/auth"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/config"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/crypto"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/logger"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/metrics"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/postgres"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/redis"
	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	codec, err := crypto.NewFieldCodec(cfg.FieldKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize field codec")
	}

	loc, err := time.LoadLocation(cfg.LedgerTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.LedgerTimezone).Msg("invalid ledger timezone")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(pool, codec, idGen, retrier)
	trnRepo := postgresRepo.NewTransactionRepository(pool, codec)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Auth service gateway with cached parent verdicts
	gateway := authgateway.NewClient(cfg.AuthServiceURL, cfg.AuthTimeout, log)
	parentChecker := authgateway.NewCachingParentChecker(
		gateway,
		redisRepo.NewVerdictCache(redisClient),
		cfg.ParentCheckTTL,
	)

	// Initialize use cases
	guard := usecase.NewLimitGuard(trnRepo, loc)
	accountUC := usecase.NewAccountUseCase(accountRepo, parentChecker)
	ledgerUC := usecase.NewLedgerUseCase(
		txManager,
		accountRepo,
		trnRepo,
		guard,
		parentChecker,
		idGen,
		cfg.DepositAccount,
		cfg.SpendingAccount,
	)
	statementUC := usecase.NewStatementUseCase(accountRepo, trnRepo, parentChecker, loc)
	reconUC := usecase.NewReconciliationUseCase(accountRepo, trnRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	m := metrics.New()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		for range time.Tick(10 * time.Minute) {
			rateLimiter.Cleanup(30 * time.Minute)
		}
	}()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(gateway, jwtManager, m)
	accountHandler := handler.NewAccountHandler(accountUC, m)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, m)
	statementHandler := handler.NewStatementHandler(statementUC)
	reconHandler := handler.NewReconciliationHandler(reconUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:           authHandler,
		AccountHandler:        accountHandler,
		LedgerHandler:         ledgerHandler,
		StatementHandler:      statementHandler,
		ReconciliationHandler: reconHandler,
		HealthHandler:         healthHandler,
		JWTManager:            jwtManager,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		Metrics:               middleware.NewMetricsMiddleware(m),
		Logging:               middleware.NewLoggingMiddleware(log),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
