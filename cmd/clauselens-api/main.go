// Package main provides the ClauseLens API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/cache"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/glossary"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/clauselens/clauselens/internal/simplify"
	"github.com/clauselens/clauselens/internal/storage"
)

func main() {
	// Pick up .env before reading configuration
	_ = godotenv.Load()

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting ClauseLens API")

	// Open database and apply migrations
	db, err := storage.Open(cfg.SQLDriver(), cfg.DatabaseDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if cfg.Database.Driver == "postgres" {
		db.SetMaxOpenConns(cfg.Database.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.Postgres.ConnMaxLifetime)
	} else {
		db.SetMaxOpenConns(cfg.Database.SQLite.MaxOpenConns)
	}

	if err := storage.Migrate(context.Background(), db, cfg.SQLDriver()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Select the cache backend
	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
			cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
		} else {
			cacheClient = redisClient
		}
	} else {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	defer cacheClient.Close()

	// Build the simplifier when credentials are configured; without one
	// summaries degrade to the placeholder.
	var simplifier simplify.Simplifier
	if cfg.Simplifier.Enabled && cfg.Simplifier.APIKey != "" {
		client, err := simplify.NewClient(simplify.Config{
			APIKey:      cfg.Simplifier.APIKey,
			Model:       cfg.Simplifier.Model,
			BaseURL:     cfg.Simplifier.BaseURL,
			MaxTokens:   cfg.Simplifier.MaxTokens,
			Temperature: cfg.Simplifier.Temperature,
			Timeout:     cfg.Simplifier.Timeout,
			MaxRetries:  cfg.Simplifier.MaxRetries,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Simplifier client unavailable, summaries will degrade")
		} else {
			simplifier = simplify.NewGuarded(client, cfg.Simplifier.Timeout, logger)
		}
	} else {
		logger.Info().Msg("Simplifier disabled, summaries degrade to placeholders")
	}

	// Metrics
	metrics := observability.NewMetrics(observability.MetricsConfig{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	}, nil)

	// Analyzer with configured caps
	limits := analysis.DefaultLimits()
	limits.MaxKeySections = cfg.Analysis.MaxKeySections
	limits.MaxImportantDates = cfg.Analysis.MaxDates
	limits.MaxLegalTerms = cfg.Analysis.MaxTerms
	limits.MaxMatchesPerRisk = cfg.Analysis.MaxOccurrencesPerRisk

	analyzer := analysis.NewAnalyzer(simplifier, logger, analysis.Config{
		Limits:             limits,
		ReadabilityBackend: cfg.Analysis.Readability,
	})
	gloss := glossary.New(simplifier, logger)

	svc := service.NewAnalysisService(logger, analyzer, gloss, storage.NewRepositories(db), cacheClient, metrics, service.Config{
		CacheTTL:     cfg.Cache.TTL,
		RetentionAge: cfg.Retention.MaxAge,
	})

	// Schedule the retention sweep
	if cfg.Retention.Enabled {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.Retention.Schedule, func() {
			if _, err := svc.PurgeOldAnalyses(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Retention sweep failed")
			}
		}); err != nil {
			logger.Fatal().Err(err).Msg("Invalid retention schedule")
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info().
			Str("schedule", cfg.Retention.Schedule).
			Dur("max_age", cfg.Retention.MaxAge).
			Msg("Retention sweep scheduled")
	}

	// Initialize router with all handlers
	router := NewRouter(logger, metrics, svc, db, &AppConfig{
		RequestTimeout: cfg.Server.ReadTimeout,
		MetricsPath:    cfg.Metrics.Path,
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}
