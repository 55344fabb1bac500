package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/freightdash/internal/config"
	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/logging"
	"github.com/JonMunkholm/freightdash/internal/metrics"
	"github.com/JonMunkholm/freightdash/internal/notify"
	"github.com/JonMunkholm/freightdash/internal/seed"
	"github.com/JonMunkholm/freightdash/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_source", cfg.Data.Source,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	ctx := context.Background()
	source, closeSource, err := seed.Open(ctx, cfg.Data)
	if err != nil {
		slog.Error("failed to open data source", "source", cfg.Data.Source, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	opts := []core.Option{
		core.WithImportLimiter(core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)),
		core.WithActivityLog(core.NewActivityLog(cfg.Activity.Capacity)),
	}
	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		opts = append(opts, core.WithObserver(reg))
	}
	service := core.NewService(opts...)

	notices := notify.NewRegistry(notify.Durations{
		Success: cfg.Notify.SuccessDuration,
		Error:   cfg.Notify.ErrorDuration,
		Long:    cfg.Notify.LongDuration,
	})

	server := web.NewServer(service, cfg, web.Deps{
		Source:  source,
		Notices: notices,
		Metrics: reg,
	})

	// A failed load is not fatal: the dashboard shows the error page
	// and the user can retry from there.
	if err := server.Reload(ctx); err != nil {
		slog.Warn("serving without data until a retry succeeds", "error", err)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active imports to complete (with timeout)
		limiter := service.ImportLimiter()
		if active := limiter.Active(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		closeSource()
		os.Exit(1)
	}
}
