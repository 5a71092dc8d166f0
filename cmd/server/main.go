package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/payouts/internal/adapter/http"
	"github.com/iho/payouts/internal/adapter/http/handler"
	"github.com/iho/payouts/internal/adapter/provider/exchange"
	postgresRepo "github.com/iho/payouts/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/payouts/internal/adapter/repository/redis"
	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/infrastructure/auth"
	"github.com/iho/payouts/internal/infrastructure/config"
	"github.com/iho/payouts/internal/infrastructure/logger"
	"github.com/iho/payouts/internal/infrastructure/postgres"
	"github.com/iho/payouts/internal/infrastructure/redis"
	"github.com/iho/payouts/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// IBAN validator for the configured country
	ibanValidator, err := domain.NewIBANValidator(cfg.IBANCountry, cfg.IBANDigits)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid IBAN configuration")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	historyRepo := postgresRepo.NewHistoryRepository(pool)
	networkRepo := postgresRepo.NewNetworkRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)
	cache := redisRepo.NewCache(redisClient)

	// Exchange rates: provider behind a cache, fallback when both fail
	rateProvider := exchange.NewClient(cfg.RateProviderURL, cfg.RateProviderTimeout)
	rateService := usecase.NewRateService(cache, rateProvider, cfg.RateFallback, cfg.RateTTL, appLogger)

	// Initialize use cases
	entryUC := usecase.NewEntryUseCase(
		txManager, entryRepo, historyRepo, networkRepo,
		rateService, ibanValidator, idGen, retrier, cfg.LocalCurrency,
	)

	// Initialize handlers
	entryHandler := handler.NewEntryHandler(entryUC)
	networkHandler := handler.NewNetworkHandler(entryUC)
	rateHandler := handler.NewRateHandler(rateService, cfg.LocalCurrency, "USD")
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Authentication
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			log.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
		}
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:   entryHandler,
		NetworkHandler: networkHandler,
		RateHandler:    rateHandler,
		HealthHandler:  healthHandler,
		JWTManager:     jwtManager,
		AuthEnabled:    cfg.AuthEnabled,
		Logger:         appLogger,
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
