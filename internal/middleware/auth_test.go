package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/middleware"
)

type mockTokenValidator struct {
	utilisateur authentification.Utilisateur
	err         error
	lastToken   string
}

func (m *mockTokenValidator) ValidateToken(_ context.Context, token string) (authentification.Utilisateur, error) {
	m.lastToken = token
	return m.utilisateur, m.err
}

func conseillerMilo() authentification.Utilisateur {
	return authentification.Utilisateur{
		ID:        "conseiller-1",
		Type:      authentification.TypeConseiller,
		Structure: core.StructureMilo,
	}
}

func newAuthEcho(config middleware.AuthConfig) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Auth(config))
	e.GET("/test", func(c echo.Context) error {
		u, ok := middleware.GetUtilisateur(c)
		if !ok {
			return c.String(http.StatusInternalServerError, "no utilisateur")
		}
		fromCtx, err := appcore.GetUtilisateur(c.Request().Context())
		if err != nil || fromCtx.ID != u.ID {
			return c.String(http.StatusInternalServerError, "context mismatch")
		}
		return c.String(http.StatusOK, u.ID)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})
	return e
}

func serve(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDefaultAuthConfig(t *testing.T) {
	config := middleware.DefaultAuthConfig()

	assert.NotNil(t, config.Logger)
	assert.Contains(t, config.SkipPaths, "/health")
	assert.Contains(t, config.SkipPaths, "/metrics")
}

func TestAuth_MissingAuthorizationHeader(t *testing.T) {
	e := newAuthEcho(middleware.AuthConfig{TokenValidator: &mockTokenValidator{}})

	rec := serve(e, "/test", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	assert.Contains(t, rec.Body.String(), "Missing authorization header")
}

func TestAuth_InvalidAuthorizationHeaderFormat(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer without token", "Bearer "},
		{"lowercase bearer", "bearer token"},
		{"no scheme", "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAuthEcho(middleware.AuthConfig{TokenValidator: &mockTokenValidator{}})

			rec := serve(e, "/test", tt.authHeader)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid authorization header format")
		})
	}
}

func TestAuth_ValidToken(t *testing.T) {
	validator := &mockTokenValidator{utilisateur: conseillerMilo()}
	e := newAuthEcho(middleware.AuthConfig{TokenValidator: validator})

	rec := serve(e, "/test", "Bearer abc.def.ghi")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conseiller-1", rec.Body.String())
	assert.Equal(t, "abc.def.ghi", validator.lastToken)
}

func TestAuth_ValidatorErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{"expired", middleware.ErrTokenExpired, "TOKEN_EXPIRED", "Token has expired"},
		{"invalid", middleware.ErrInvalidToken, "UNAUTHORIZED", "Invalid token"},
		{"other", errors.New("boom"), "UNAUTHORIZED", "Authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAuthEcho(middleware.AuthConfig{TokenValidator: &mockTokenValidator{err: tt.err}})

			rec := serve(e, "/test", "Bearer token")

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
			assert.Contains(t, rec.Body.String(), tt.wantMessage)
		})
	}
}

func TestAuth_NoValidatorConfigured(t *testing.T) {
	e := newAuthEcho(middleware.AuthConfig{})

	rec := serve(e, "/test", "Bearer token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_SkipPaths(t *testing.T) {
	e := newAuthEcho(middleware.AuthConfig{
		TokenValidator: &mockTokenValidator{err: middleware.ErrInvalidToken},
		SkipPaths:      []string{"/health"},
	})

	rec := serve(e, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", rec.Body.String())
}

func TestGetUtilisateur_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := middleware.GetUtilisateur(c)

	assert.False(t, ok)
}

func TestDevTokenValidator(t *testing.T) {
	validator := middleware.DevTokenValidator{}

	t.Run("conseiller", func(t *testing.T) {
		u, err := validator.ValidateToken(context.Background(), "dev:CONSEILLER:MILO:c1")

		require.NoError(t, err)
		assert.Equal(t, "c1", u.ID)
		assert.Equal(t, authentification.TypeConseiller, u.Type)
		assert.Equal(t, core.StructureMilo, u.Structure)
	})

	t.Run("beneficiaire is a jeune", func(t *testing.T) {
		u, err := validator.ValidateToken(context.Background(), "dev:BENEFICIAIRE:POLE_EMPLOI:j1")

		require.NoError(t, err)
		assert.Equal(t, authentification.TypeJeune, u.Type)
	})

	t.Run("support without structure", func(t *testing.T) {
		u, err := validator.ValidateToken(context.Background(), "dev:SUPPORT::s1")

		require.NoError(t, err)
		assert.Equal(t, authentification.TypeSupport, u.Type)
		assert.Empty(t, u.Structure)
	})

	invalid := []string{
		"",
		"CONSEILLER:MILO:c1",
		"dev:CONSEILLER:MILO:",
		"dev:ROBOT:MILO:c1",
		"dev:CONSEILLER:NOWHERE:c1",
		"dev:JEUNE::j1",
		"prod:CONSEILLER:MILO:c1",
	}
	for _, token := range invalid {
		t.Run("rejects "+token, func(t *testing.T) {
			_, err := validator.ValidateToken(context.Background(), token)

			require.ErrorIs(t, err, middleware.ErrInvalidToken)
		})
	}
}
