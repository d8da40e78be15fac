// Package main provides the API server entry point.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lllypuk/passemploi/internal/config"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		//nolint:sloglint // No context available before logger setup
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := setupLogger(cfg)

	logger.Info("starting passemploi API server",
		slog.String("version", version),
		slog.String("environment", getEnvironment(cfg)),
		slog.String("auth_mode", string(cfg.Auth.Mode)),
	)

	container, err := NewContainer(cfg, WithLogger(logger))
	if err != nil {
		logger.Error("failed to build container", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		BodyLimit:       httpserver.DefaultBodyLimit,
	}, logger)
	SetupRoutes(server.Echo(), container.RouteDeps())

	go gracefulShutdown(ctx, cancel, server, container, cfg.Monitor.DrainTimeout, logger)

	if serverErr := server.Start(); serverErr != nil {
		logger.Error("server error", slog.String("error", serverErr.Error()))
		cancel()
		_ = container.Close()
		os.Exit(1) //nolint:gocritic // Intentional exit after cleanup
	}

	// Start returns once Shutdown is called; wait for the cleanup to finish.
	<-ctx.Done()
}

// setupLogger creates and configures the structured logger based on configuration.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Log.Level),
		AddSource: cfg.IsDevelopment(),
	}

	switch cfg.Log.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default: // "json" or any other value defaults to JSON
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(slog.String("app", cfg.App.Name))
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvironment returns the environment name based on configuration.
func getEnvironment(cfg *config.Config) string {
	if cfg.IsProduction() {
		return config.EnvProduction
	}
	return config.EnvDevelopment
}

// shutdowner is the part of the HTTP server stopped on shutdown.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// resources is the part of the container released on shutdown.
type resources interface {
	Drain(ctx context.Context) error
	Close() error
}

// gracefulShutdown stops the server on SIGINT, SIGTERM or SIGQUIT, lets the
// pending monitors finish within drainTimeout then releases the container.
func gracefulShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	server shutdowner,
	container resources,
	drainTimeout time.Duration,
	logger *slog.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(quit)

	shutdownLogCtx := context.Background()

	select {
	case sig := <-quit:
		logger.InfoContext(shutdownLogCtx, "received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.InfoContext(shutdownLogCtx, "context cancelled, initiating shutdown")
	}

	shutdown(server, container, drainTimeout, logger)
	cancel()
}

// shutdown runs the ordered stop sequence: no new requests, pending monitors, resources.
func shutdown(server shutdowner, container resources, drainTimeout time.Duration, logger *slog.Logger) {
	ctx := context.Background()

	// 1. Stop accepting new requests
	if err := server.Shutdown(ctx); err != nil {
		logger.ErrorContext(ctx, "server shutdown error", slog.String("error", err.Error()))
	}

	// 2. Let the monitors already dispatched publish their evenements
	drainCtx, drainCancel := context.WithTimeout(ctx, drainTimeout)
	defer drainCancel()

	if err := container.Drain(drainCtx); err != nil {
		logger.WarnContext(ctx, "monitors not drained before timeout", slog.String("error", err.Error()))
	}

	// 3. Close container resources
	if err := container.Close(); err != nil {
		logger.ErrorContext(ctx, "container close error", slog.String("error", err.Error()))
	}

	logger.InfoContext(ctx, "server shutdown complete")
}
