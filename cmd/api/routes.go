// Package main provides the API server entry point.
package main

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	"github.com/lllypuk/passemploi/internal/middleware"
)

// RouteDeps is what the route setup needs from the container.
type RouteDeps struct {
	Logger         *slog.Logger
	TokenValidator middleware.TokenValidator
	Gatherer       prometheus.Gatherer
	Health         httpserver.HealthChecker
	Handlers       Handlers
	Debug          bool
}

// RouteDeps extracts the route dependencies of the container.
func (c *Container) RouteDeps() RouteDeps {
	return RouteDeps{
		Logger:         c.Logger,
		TokenValidator: c.TokenValidator,
		Gatherer:       c.Registry,
		Health:         c,
		Handlers:       c.Handlers,
		Debug:          c.Config.IsDevelopment(),
	}
}

// SetupRoutes configures the middleware chain, the probes and every API route on e.
func SetupRoutes(e *echo.Echo, deps RouteDeps) *httpserver.Router {
	authConfig := middleware.DefaultAuthConfig()
	authConfig.Logger = deps.Logger
	authConfig.TokenValidator = deps.TokenValidator

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.Logger = deps.Logger

	router := httpserver.NewRouter(e, httpserver.RouterConfig{
		Logger:         deps.Logger,
		AuthMiddleware: middleware.Auth(authConfig),
		LoggingConfig:  loggingConfig,
		Gatherer:       deps.Gatherer,
		APIPrefix:      httpserver.DefaultAPIPrefix,
	})

	if deps.Health != nil {
		router.RegisterHealthEndpoints(deps.Health)
	}
	router.RegisterMetricsEndpoint()
	router.RegisterAll(deps.Handlers.All()...)

	if deps.Debug {
		router.PrintRoutes()
	}

	return router
}
