package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bookledger/internal/adapter/http"
	"github.com/iho/bookledger/internal/adapter/http/handler"
	"github.com/iho/bookledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bookledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bookledger/internal/adapter/repository/redis"
	"github.com/iho/bookledger/internal/infrastructure/config"
	"github.com/iho/bookledger/internal/infrastructure/logger"
	"github.com/iho/bookledger/internal/infrastructure/postgres"
	"github.com/iho/bookledger/internal/infrastructure/redis"
	"github.com/iho/bookledger/internal/usecase"
)

const defaultMigrationsPath = "internal/infrastructure/postgres/migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, resolveMigrationsPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountStore := postgresRepo.NewAccountRepository(pool)
	stagingRepo := postgresRepo.NewStagingRepository(pool)
	candidateRepo := postgresRepo.NewCandidateRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	patternRepo := postgresRepo.NewPatternRuleRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	cache := redisRepo.NewCache(redisClient)
	accountRepo := redisRepo.NewCachedAccountRepository(accountStore, cache, cfg.AccountCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo)
	categorizeUC := usecase.NewCategorizeUseCase(patternRepo, idGen)
	stagingUC := usecase.NewStagingUseCase(stagingRepo, accountRepo, categorizeUC, idGen)
	trialUC := usecase.NewTrialUseCase(txManager, stagingRepo, candidateRepo, accountRepo, idGen).
		WithRetrier(retrier)
	transferUC := usecase.NewTransferMatchUseCase(txManager, candidateRepo, accountRepo)
	journalUC := usecase.NewJournalUseCase(txManager, candidateRepo, stagingRepo, ledgerRepo, auditRepo, idGen).
		WithRetrier(retrier)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, journalUC)
	stagingHandler := handler.NewStagingHandler(stagingUC)
	trialHandler := handler.NewTrialHandler(trialUC, transferUC, candidateRepo)
	journalHandler := handler.NewJournalHandler(journalUC)
	patternHandler := handler.NewPatternHandler(categorizeUC)
	auditHandler := handler.NewAuditHandler(auditRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.CleanupLimiters()
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		StagingHandler:   stagingHandler,
		TrialHandler:     trialHandler,
		JournalHandler:   journalHandler,
		PatternHandler:   patternHandler,
		AuditHandler:     auditHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Logger:           appLogger,
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
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

func resolveMigrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return defaultMigrationsPath
}
