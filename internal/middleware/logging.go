package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
)

const (
	statusClientError = 400
	statusServerError = 500
)

const (
	// RequestIDHeader carries the correlation id of a request.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the echo context key of the correlation id.
	RequestIDKey = "request_id"
)

// LoggingConfig holds configuration for the logging middleware.
type LoggingConfig struct {
	Logger    *slog.Logger
	SkipPaths []string
}

// DefaultLoggingConfig returns a LoggingConfig with sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Logger:    slog.Default(),
		SkipPaths: []string{"/health", "/ready", "/metrics"},
	}
}

// Logging assigns every request a correlation id, propagates it to the request
// context and logs one line per request once the handler returns.
func Logging(config LoggingConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if _, ok := skipPaths[path]; ok {
				return next(c)
			}

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Response().Header().Set(RequestIDHeader, requestID)
			c.Set(RequestIDKey, requestID)
			c.SetRequest(req.WithContext(appcore.WithCorrelationID(req.Context(), requestID)))

			start := time.Now()
			err := next(c)

			logRequest(c, config.Logger, requestID, time.Since(start), err)
			return err
		}
	}
}

func logRequest(c echo.Context, logger *slog.Logger, requestID string, latency time.Duration, err error) {
	req := c.Request()
	res := c.Response()

	status := res.Status
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}

	attrs := []slog.Attr{
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
		slog.Int64("response_size", res.Size),
	}
	if route := c.Path(); route != "" {
		attrs = append(attrs, slog.String("route", route))
	}
	if utilisateur, ok := GetUtilisateur(c); ok {
		attrs = append(attrs,
			slog.String("user_id", utilisateur.ID),
			slog.String("user_type", string(utilisateur.Type)),
		)
	}

	level := slog.LevelInfo
	switch {
	case status >= statusServerError:
		level = slog.LevelError
	case status >= statusClientError:
		level = slog.LevelWarn
	}
	if err != nil && level > slog.LevelInfo {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	logger.LogAttrs(req.Context(), level, "HTTP request", attrs...)
}

// GetRequestID retrieves the request ID from the echo context.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
