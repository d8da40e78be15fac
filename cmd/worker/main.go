// Package main provides the worker service entry point.
//
// The worker consumes the evenements d'engagement published by the API on
// Redis and stores them in MongoDB for analytics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/lllypuk/passemploi/internal/config"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/internal/infrastructure/healthcheck"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	"github.com/lllypuk/passemploi/internal/infrastructure/metrics"
	mongodbinfra "github.com/lllypuk/passemploi/internal/infrastructure/mongodb"
	"github.com/lllypuk/passemploi/internal/infrastructure/repository/mongodb"
)

// Timeout constants for worker service.
const (
	redisPingTimeout       = 5 * time.Second
	mongoDisconnectTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		//nolint:sloglint // No context available before logger setup
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := setupLogger(cfg)

	logger.Info("starting passemploi worker service",
		slog.String("version", "0.1.0"),
		slog.String("environment", getEnvironment(cfg)),
	)

	if runErr := run(cfg, logger); runErr != nil {
		logger.Error("worker error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
}

// run consumes evenements until a shutdown signal is received.
//
//nolint:funlen // Startup orchestration is readable as-is
func run(cfg *config.Config, logger *slog.Logger) error {
	// Cancelled on shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	mongoClient, err := connectMongoDB(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer cancel()
		if disconnectErr := mongoClient.Disconnect(disconnectCtx); disconnectErr != nil {
			logger.Error("failed to disconnect from MongoDB", slog.String("error", disconnectErr.Error()))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Error("failed to close Redis", slog.String("error", closeErr.Error()))
		}
	}()

	pingCtx, pingCancel := context.WithTimeout(ctx, redisPingTimeout)
	if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
		pingCancel()
		return fmt.Errorf("failed to connect to Redis: %w", pingErr)
	}
	pingCancel()

	logger.InfoContext(ctx, "connected to Redis", slog.String("addr", cfg.Redis.Addr))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	evenementMetrics := metrics.NewEvenementMetrics(registry)

	deadLetters := eventbus.NewDeadLetterHandler(redisClient,
		eventbus.WithDeadLetterQueueKey(cfg.Events.DeadLetterKey),
		eventbus.WithDeadLetterLogger(logger),
		eventbus.WithMaxDeadLetters(cfg.Events.MaxDeadLetters),
	)

	bus := eventbus.NewRedisEventBus(redisClient,
		eventbus.WithLogger(logger),
		eventbus.WithChannelPrefix(cfg.Events.ChannelPrefix),
		eventbus.WithRetryConfig(retryConfig(cfg.Events)),
		eventbus.WithDeadLetter(deadLetters),
	)

	db := mongoClient.Database(cfg.MongoDB.Database)
	repository := mongodb.NewEvenementRepository(
		db.Collection(mongodbinfra.CollectionEvenementsEngagement),
		mongodb.WithLogger(logger),
	)

	if subErr := subscribe(bus, repository, evenementMetrics, logger); subErr != nil {
		return fmt.Errorf("failed to subscribe: %w", subErr)
	}

	health := healthcheck.NewRegistry(logger).
		Require(healthcheck.NewMongoChecker(mongoClient)).
		Require(healthcheck.NewRedisChecker(redisClient)).
		Observe(healthcheck.NewDeadLetterChecker(deadLetters))

	serverCfg := httpserver.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Events.WorkerPort
	server := httpserver.NewServer(serverCfg, logger)
	registerObservability(server.Echo(), health, registry)

	logger.Info("starting workers",
		slog.String("channel_prefix", cfg.Events.ChannelPrefix),
		slog.Int("max_retries", cfg.Events.MaxRetries),
		slog.Int("port", cfg.Events.WorkerPort),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bus.Start(gctx)
	})
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		sampleDeadLetters(gctx, deadLetters, evenementMetrics.DeadLettersLen, deadLetterSampleInterval, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx := context.Background()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.ErrorContext(shutdownCtx, "server shutdown error", slog.String("error", shutdownErr.Error()))
		}
		// Waits for the handlers in flight
		return bus.Shutdown()
	})

	if waitErr := g.Wait(); waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return waitErr
	}

	logger.Info("worker service shutdown complete")
	return nil
}

// setupLogger creates and configures the structured logger based on configuration.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	level := parseLogLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.IsDevelopment(),
	}

	switch cfg.Log.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(slog.String("app", cfg.App.Name+"-worker"))
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

// connectMongoDB establishes a connection to MongoDB.
func connectMongoDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoDB.URI).
		SetMaxPoolSize(cfg.MongoDB.MaxPoolSize)

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
	defer pingCancel()

	if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
		_ = client.Disconnect(context.Background())
		return nil, pingErr
	}

	logger.InfoContext(ctx, "connected to MongoDB",
		slog.String("database", cfg.MongoDB.Database),
	)

	return client, nil
}
