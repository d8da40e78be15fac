// Package main provides the API server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/config"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/internal/infrastructure/healthcheck"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	"github.com/lllypuk/passemploi/internal/infrastructure/keycloak"
	"github.com/lllypuk/passemploi/internal/infrastructure/metrics"
	"github.com/lllypuk/passemploi/internal/infrastructure/milo"
	mongodbinfra "github.com/lllypuk/passemploi/internal/infrastructure/mongodb"
	"github.com/lllypuk/passemploi/internal/middleware"
)

// Container initialization timeouts.
const (
	containerInitTimeout   = 30 * time.Second
	redisPingTimeout       = 5 * time.Second
	mongoDisconnectTimeout = 10 * time.Second
)

// Container holds all application dependencies and manages their lifecycle.
// It implements httpserver.HealthChecker through its health registry.
type Container struct {
	// Configuration
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	MongoDB     *mongo.Client
	MongoDBName string
	Redis       *redis.Client
	EventBus    *eventbus.RedisEventBus
	MiloClient  *milo.Client
	Registry    *prometheus.Registry
	Dispatcher  *appcore.AsyncDispatcher
	Runtime     *appcore.Runtime
	Health      *healthcheck.Registry

	Repositories Repositories
	Handlers     Handlers

	// Auth
	TokenValidator middleware.TokenValidator
	JWTValidator   keycloak.JWTValidator // closed on shutdown
}

var _ httpserver.HealthChecker = (*Container)(nil)

// ContainerOption configures the Container.
type ContainerOption func(*Container)

// WithLogger sets a custom logger for the container.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer connects the infrastructure and wires every use case.
func NewContainer(cfg *config.Config, opts ...ContainerOption) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.setupInfrastructure(); err != nil {
		// Clean up any partially initialized resources
		_ = c.Close()
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}

	if err := c.setupTokenValidator(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to setup token validator: %w", err)
	}

	c.setupRuntime()
	c.setupHealth()

	c.Repositories = NewMongoRepositories(
		c.MongoDB.Database(c.MongoDBName),
		c.Config.Cache.ConseillerTTL,
		c.Logger,
	)
	c.Handlers = BuildHandlers(c.Repositories, c.MiloClient, c.EventBus, c.Runtime)

	return c, nil
}

func (c *Container) setupInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), containerInitTimeout)
	defer cancel()

	if err := c.setupMongoDB(ctx); err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}

	if err := c.setupRedis(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	c.setupEventBus()
	c.setupMiloClient()

	return nil
}

func (c *Container) setupMongoDB(ctx context.Context) error {
	clientOpts := options.Client().
		ApplyURI(c.Config.MongoDB.URI).
		SetMaxPoolSize(c.Config.MongoDB.MaxPoolSize)

	client, connectErr := mongo.Connect(clientOpts)
	if connectErr != nil {
		return fmt.Errorf("failed to connect: %w", connectErr)
	}
	c.MongoDB = client
	c.MongoDBName = c.Config.MongoDB.Database

	pingCtx, cancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.Logger.InfoContext(ctx, "connected to MongoDB",
		slog.String("database", c.Config.MongoDB.Database),
	)

	indexCtx, indexCancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer indexCancel()

	if indexErr := mongodbinfra.EnsureIndexes(indexCtx, client.Database(c.MongoDBName)); indexErr != nil {
		return fmt.Errorf("failed to create indexes: %w", indexErr)
	}

	c.Logger.InfoContext(ctx, "MongoDB indexes created successfully")
	return nil
}

func (c *Container) setupRedis(ctx context.Context) error {
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
		PoolSize: c.Config.Redis.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := c.Redis.Ping(pingCtx).Err(); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.Logger.InfoContext(ctx, "connected to Redis",
		slog.String("addr", c.Config.Redis.Addr),
	)
	return nil
}

// setupEventBus creates the publisher of the evenements d'engagement. The API
// only publishes; subscribers run in the worker.
func (c *Container) setupEventBus() {
	c.EventBus = eventbus.NewRedisEventBus(c.Redis,
		eventbus.WithLogger(c.Logger),
		eventbus.WithChannelPrefix(c.Config.Events.ChannelPrefix),
	)
}

func (c *Container) setupMiloClient() {
	c.MiloClient = milo.NewClient(milo.Config{
		BaseURL:          c.Config.Milo.URL,
		APIKey:           c.Config.Milo.APIKey,
		Timeout:          c.Config.Milo.Timeout,
		FailureThreshold: c.Config.Milo.FailureThreshold,
		MaxRequests:      c.Config.Milo.MaxRequests,
		OpenTimeout:      c.Config.Milo.OpenTimeout,
		Location:         c.Config.MiloLocation(),
		Logger:           c.Logger,
	})
}

// setupTokenValidator selects the access token validation. Config validation
// already refuses the dev mode in production.
func (c *Container) setupTokenValidator() error {
	if c.Config.Auth.Mode == config.AuthModeDev {
		c.Logger.Warn("dev auth mode enabled, tokens are not verified")
		c.TokenValidator = middleware.DevTokenValidator{}
		return nil
	}

	jwtValidator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL:     c.Config.Keycloak.URL,
		Realm:           c.Config.Keycloak.Realm,
		ClientID:        c.Config.Keycloak.ClientID,
		Leeway:          c.Config.Keycloak.JWT.Leeway,
		RefreshInterval: c.Config.Keycloak.JWT.RefreshInterval,
		Logger:          c.Logger,
	})
	if err != nil {
		return fmt.Errorf("keycloak: %w", err)
	}

	c.JWTValidator = jwtValidator
	c.TokenValidator = middleware.NewKeycloakValidatorAdapter(jwtValidator)

	c.Logger.Info("token validator initialized with Keycloak",
		slog.String("url", c.Config.Keycloak.URL),
		slog.String("realm", c.Config.Keycloak.Realm),
	)
	return nil
}

// setupRuntime builds the executors' shared runtime with Prometheus telemetry.
func (c *Container) setupRuntime() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := metrics.NewExecutionMetrics(c.Registry)

	c.Dispatcher = appcore.NewAsyncDispatcher(
		appcore.WithDispatcherLogger(c.Logger),
		appcore.WithDispatcherObserver(observer),
		appcore.WithMonitorTimeout(c.Config.Monitor.Timeout),
	)
	c.Runtime = appcore.NewRuntime(
		appcore.WithLogger(c.Logger),
		appcore.WithDispatcher(c.Dispatcher),
		appcore.WithObserver(observer),
	)
}

// setupHealth makes the storage backends required for readiness. An open Milo
// breaker only degrades the service.
func (c *Container) setupHealth() {
	c.Health = healthcheck.NewRegistry(c.Logger).
		Require(healthcheck.NewMongoChecker(c.MongoDB)).
		Require(healthcheck.NewRedisChecker(c.Redis)).
		Observe(healthcheck.NewMiloBreakerChecker(c.MiloClient.State))
}

// Drain waits for the in-flight monitors to finish.
func (c *Container) Drain(ctx context.Context) error {
	if c.Dispatcher == nil {
		return nil
	}
	return c.Dispatcher.Wait(ctx)
}

// Close releases all resources. Safe to call on a partially built container.
func (c *Container) Close() error {
	c.Logger.Info("closing container resources...")

	var errs []error

	// Stops the JWKS refresh goroutine
	if c.JWTValidator != nil {
		if err := c.JWTValidator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("jwt validator close: %w", err))
		} else {
			c.Logger.Debug("jwt validator closed")
		}
	}

	if c.EventBus != nil && c.EventBus.IsRunning() {
		if err := c.EventBus.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("event bus shutdown: %w", err))
		} else {
			c.Logger.Debug("event bus stopped")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		} else {
			c.Logger.Debug("redis connection closed")
		}
	}

	if c.MongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer cancel()

		if err := c.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		} else {
			c.Logger.Debug("mongodb connection closed")
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.Logger.Info("all container resources closed")
	return nil
}

// IsReady reports whether every required backend answers.
func (c *Container) IsReady(ctx context.Context) bool {
	if c.Health == nil {
		return false
	}
	return c.Health.IsReady(ctx)
}

// GetHealthStatus returns the status of every checked component.
func (c *Container) GetHealthStatus(ctx context.Context) []httpserver.ComponentStatus {
	if c.Health == nil {
		return nil
	}
	return c.Health.GetHealthStatus(ctx)
}
