package httpserver_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
)

func TestDefaultServerConfig(t *testing.T) {
	config := httpserver.DefaultServerConfig()

	assert.Equal(t, httpserver.DefaultHost, config.Host)
	assert.Equal(t, httpserver.DefaultPort, config.Port)
	assert.Equal(t, httpserver.DefaultReadTimeout, config.ReadTimeout)
	assert.Equal(t, httpserver.DefaultWriteTimeout, config.WriteTimeout)
	assert.Equal(t, httpserver.DefaultShutdownTimeout, config.ShutdownTimeout)
	assert.Equal(t, httpserver.DefaultBodyLimit, config.BodyLimit)
}

func TestNewServer(t *testing.T) {
	config := httpserver.ServerConfig{
		Host:         "127.0.0.1",
		Port:         9090,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 7 * time.Second,
	}

	server := httpserver.NewServer(config, slog.Default())

	require.NotNil(t, server.Echo())
	assert.True(t, server.Echo().HideBanner)
	assert.Equal(t, 5*time.Second, server.Echo().Server.ReadTimeout)
	assert.Equal(t, 7*time.Second, server.Echo().Server.WriteTimeout)
	assert.Equal(t, "127.0.0.1:9090", server.Address())
}

func TestNewServer_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		httpserver.NewServer(httpserver.DefaultServerConfig(), nil)
	})
}

func TestServer_BodyLimit(t *testing.T) {
	config := httpserver.DefaultServerConfig()
	config.BodyLimit = "1K"
	server := httpserver.NewServer(config, nil)
	server.Echo().POST("/upload", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 2048)))
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	server := httpserver.NewServer(httpserver.DefaultServerConfig(), nil)

	require.NoError(t, server.Shutdown(context.Background()))
}

func TestServer_NotFoundRoute(t *testing.T) {
	server := httpserver.NewServer(httpserver.DefaultServerConfig(), nil)

	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
