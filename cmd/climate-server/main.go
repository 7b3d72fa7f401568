package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/biosim-climate-client/internal/adapter/biosim"
	httpadapter "github.com/couchcryptid/biosim-climate-client/internal/adapter/http"
	"github.com/couchcryptid/biosim-climate-client/internal/climate"
	"github.com/couchcryptid/biosim-climate-client/internal/config"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var opts []biosim.Option
	if cfg.BreakerEnabled {
		opts = append(opts, biosim.WithBreaker(biosim.BreakerSettings{
			Failures: cfg.BreakerFailures,
			Timeout:  cfg.BreakerTimeout,
		}))
		logger.Info("primary circuit breaker enabled", "failures", cfg.BreakerFailures, "timeout", cfg.BreakerTimeout)
	}
	transport := biosim.NewClient(cfg.PrimaryURL, cfg.SecondaryURL, cfg.HTTPTimeout, metrics, logger, opts...)

	cache := climate.NewSignatureCache(cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)
	client := climate.NewClient(transport, cache, metrics, logger)
	logger.Info("climate client ready",
		"primary", cfg.PrimaryURL,
		"secondary", cfg.SecondaryURL,
		"cache_size", cfg.CacheSize,
		"cache_ttl", cfg.CacheTTL,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the model list up front so /readyz reflects it.
	go func() {
		models := client.ListModels(ctx)
		logger.Info("model registry warmed", "models", len(models))
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
