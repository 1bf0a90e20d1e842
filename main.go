package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"loan-cost/calculator"
	"loan-cost/config"
	httpLayer "loan-cost/http"
	"loan-cost/pkg/logger"
	"loan-cost/repository"
	"loan-cost/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server exited")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	loanRepo, closeRepo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	cache, closeCache := openCache(cfg, log)
	defer closeCache()

	loanService := service.NewLoanService(loanRepo, cache, calculator.New(calculator.DefaultConfig), log)
	termRecommendationService := service.NewTermRecommendationService(loanService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	scheduler := service.NewScheduler(log)
	if err := scheduler.AddJob(cfg.RetentionSchedule, service.NewRetentionJob(loanRepo, cfg.HistoryRetention, log)); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: httpLayer.NewRouter(httpLayer.RouterConfig{
			Log:                       log,
			LoanHandler:               httpLayer.NewLoanHandler(loanService, log),
			TermRecommendationHandler: httpLayer.NewTermRecommendationHandler(termRecommendationService, log),
			RateLimiter:               rateLimiter,
			AllowedOrigins:            cfg.CORSAllowedOrigins,
			TrustProxy:                cfg.TrustProxy,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
		log.Info().Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	return nil
}

func openRepository(cfg *config.Config, log zerolog.Logger) (repository.LoanRepository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Info().Msg("Using in-memory calculation history")
		return repository.NewLoanRepositoryMemory(), func() {}, nil
	}

	repo, err := repository.NewSQLiteLoanRepository(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	log.Info().Str("path", repo.Path()).Msg("Using SQLite calculation history")

	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close history database")
		}
	}, nil
}

// openCache prefers Redis and falls back to the in-process cache when it is
// not configured or not reachable.
func openCache(cfg *config.Config, log zerolog.Logger) (repository.CacheRepository, func()) {
	if cfg.RedisAddr == "" {
		return repository.NewMockCache(), func() {}
	}

	cache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, using in-process cache")
		cache.Close()
		return repository.NewMockCache(), func() {}
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis cache")
	return cache, func() { cache.Close() }
}
