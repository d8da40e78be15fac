package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lllypuk/passemploi/internal/middleware"
)

// DefaultAPIPrefix prefixes every business route.
const DefaultAPIPrefix = "/api/v1"

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger *slog.Logger

	// AuthMiddleware guards every route of the API group.
	AuthMiddleware echo.MiddlewareFunc

	LoggingConfig middleware.LoggingConfig

	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer

	APIPrefix string
}

// DefaultRouterConfig returns a RouterConfig with sensible defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		Logger:        slog.Default(),
		LoggingConfig: middleware.DefaultLoggingConfig(),
		APIPrefix:     DefaultAPIPrefix,
	}
}

// Router owns the middleware chain and the authenticated API group.
type Router struct {
	echo   *echo.Echo
	config RouterConfig
	logger *slog.Logger
	api    *echo.Group
}

// NewRouter applies the global middleware chain and creates the API group.
func NewRouter(e *echo.Echo, config RouterConfig) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.APIPrefix == "" {
		config.APIPrefix = DefaultAPIPrefix
	}
	if config.LoggingConfig.Logger == nil {
		config.LoggingConfig.Logger = config.Logger
	}

	r := &Router{
		echo:   e,
		config: config,
		logger: config.Logger,
	}

	// Logging wraps Recovery so that recovered panics are still logged with their status.
	e.Use(middleware.Logging(config.LoggingConfig))
	e.Use(middleware.Recovery(config.Logger))

	if config.AuthMiddleware != nil {
		r.api = e.Group(config.APIPrefix, config.AuthMiddleware)
	} else {
		r.api = e.Group(config.APIPrefix)
		r.logger.Warn("no auth middleware configured, API routes are public")
	}

	return r
}

// Echo returns the underlying Echo instance.
func (r *Router) Echo() *echo.Echo {
	return r.echo
}

// API returns the authenticated route group.
func (r *Router) API() *echo.Group {
	return r.api
}

// RouteRegistrar registers the routes of one resource.
type RouteRegistrar interface {
	RegisterRoutes(api *echo.Group)
}

// RegisterAll registers all route registrars on the API group.
func (r *Router) RegisterAll(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.api)
	}
}

// RegisterMetricsEndpoint exposes Prometheus metrics on /metrics.
func (r *Router) RegisterMetricsEndpoint() {
	handler := promhttp.Handler()
	if r.config.Gatherer != nil {
		handler = promhttp.HandlerFor(r.config.Gatherer, promhttp.HandlerOpts{})
	}
	r.echo.GET("/metrics", echo.WrapHandler(handler))
}

// RegisterHealthEndpoints registers /health, /ready and /health/details.
func (r *Router) RegisterHealthEndpoints(checker HealthChecker) {
	NewHealthEndpoints(checker).Register(r.echo)
}

// PrintRoutes logs all registered routes at debug level.
func (r *Router) PrintRoutes() {
	for _, route := range r.echo.Routes() {
		r.logger.Debug("registered route",
			slog.String("method", route.Method),
			slog.String("path", route.Path),
		)
	}
}
