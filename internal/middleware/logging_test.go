package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/middleware"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(middleware.Logging(middleware.LoggingConfig{Logger: newJSONLogger(&buf)}))

	var correlationID string
	e.GET("/test", func(c echo.Context) error {
		correlationID, _ = appcore.GetCorrelationID(c.Request().Context())
		return c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	requestID := rec.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Body.String())
	assert.Equal(t, requestID, correlationID)

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, requestID, entry["request_id"])
	assert.Equal(t, "/test", entry["route"])
	assert.InDelta(t, http.StatusOK, entry["status"], 0)
}

func TestLogging_ReusesIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(middleware.Logging(middleware.LoggingConfig{Logger: newJSONLogger(&buf)}))
	e.GET("/test", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "abc-123", decodeLogLine(t, &buf)["request_id"])
}

func TestLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
		wantError bool
	}{
		{
			name:      "client error",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusForbidden) },
			wantLevel: "WARN",
		},
		{
			name:      "echo error",
			handler:   func(echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "down") },
			wantLevel: "ERROR",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			e.Use(middleware.Logging(middleware.LoggingConfig{Logger: newJSONLogger(&buf)}))
			e.GET("/test", tt.handler)

			e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

			entry := decodeLogLine(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			_, hasError := entry["error"]
			assert.Equal(t, tt.wantError, hasError)
		})
	}
}

func TestLogging_IncludesUtilisateur(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(middleware.Logging(middleware.LoggingConfig{Logger: newJSONLogger(&buf)}))
	e.Use(middleware.Auth(middleware.AuthConfig{
		TokenValidator: &mockTokenValidator{utilisateur: conseillerMilo()},
	}))
	e.GET("/test", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	serve(e, "/test", "Bearer token")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "conseiller-1", entry["user_id"])
	assert.Equal(t, "CONSEILLER", entry["user_type"])
}

func TestLogging_SkipPaths(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(middleware.Logging(middleware.LoggingConfig{
		Logger:    newJSONLogger(&buf),
		SkipPaths: []string{"/health"},
	}))
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, buf.String())
	assert.Empty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestDefaultLoggingConfig(t *testing.T) {
	config := middleware.DefaultLoggingConfig()

	assert.NotNil(t, config.Logger)
	assert.Contains(t, config.SkipPaths, "/health")
}
