package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
)

// ContextKeyUtilisateur is the echo context key of the authenticated principal.
const ContextKeyUtilisateur = "utilisateur"

// Auth errors.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
)

// TokenValidator turns a bearer token into the request principal.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (authentification.Utilisateur, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Logger is the structured logger for auth events.
	Logger *slog.Logger

	// TokenValidator validates bearer tokens.
	TokenValidator TokenValidator

	// SkipPaths are paths that don't require authentication.
	SkipPaths []string
}

// DefaultAuthConfig returns an AuthConfig with sensible defaults.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Logger:    slog.Default(),
		SkipPaths: []string{"/health", "/ready", "/metrics"},
	}
}

// Auth returns an authentication middleware. On success the Utilisateur is stored
// both in the echo context and in the request context.
func Auth(config AuthConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if _, ok := skipPaths[path]; ok {
				return next(c)
			}

			token, err := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return respondAuthError(c, err)
			}

			if config.TokenValidator == nil {
				config.Logger.Error("token validator not configured")
				return respondAuthError(c, ErrInvalidToken)
			}

			utilisateur, err := config.TokenValidator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				config.Logger.Warn("token validation failed",
					slog.String("error", err.Error()),
					slog.String("path", path),
					slog.String("remote_ip", c.RealIP()),
				)
				return respondAuthError(c, err)
			}

			SetUtilisateur(c, utilisateur)

			config.Logger.Debug("utilisateur authenticated",
				slog.String("user_id", utilisateur.ID),
				slog.String("user_type", string(utilisateur.Type)),
				slog.String("path", path),
			)

			return next(c)
		}
	}
}

// SetUtilisateur stores the principal in the echo and request contexts.
func SetUtilisateur(c echo.Context, utilisateur authentification.Utilisateur) {
	c.Set(ContextKeyUtilisateur, utilisateur)
	c.SetRequest(c.Request().WithContext(appcore.WithUtilisateur(c.Request().Context(), utilisateur)))
}

// GetUtilisateur returns the principal set by Auth.
func GetUtilisateur(c echo.Context) (authentification.Utilisateur, bool) {
	u, ok := c.Get(ContextKeyUtilisateur).(authentification.Utilisateur)
	return u, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

func respondAuthError(c echo.Context, err error) error {
	code := "UNAUTHORIZED"
	message := "Authentication required"

	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		message = "Missing authorization header"
	case errors.Is(err, ErrInvalidAuthHeader):
		message = "Invalid authorization header format"
	case errors.Is(err, ErrTokenExpired):
		message = "Token has expired"
		code = "TOKEN_EXPIRED"
	case errors.Is(err, ErrInvalidToken):
		message = "Invalid token"
	}

	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// DevTokenValidator accepts "dev:<TYPE>:<STRUCTURE>:<ID>" tokens, for local
// development without an identity provider. Support tokens may leave STRUCTURE empty.
type DevTokenValidator struct{}

func (DevTokenValidator) ValidateToken(_ context.Context, token string) (authentification.Utilisateur, error) {
	const parts = 4

	fields := strings.SplitN(token, ":", parts)
	if len(fields) != parts || fields[0] != "dev" || fields[3] == "" {
		return authentification.Utilisateur{}, ErrInvalidToken
	}

	userType, ok := authentification.ParseType(fields[1])
	if !ok {
		return authentification.Utilisateur{}, fmt.Errorf("%w: unknown type %q", ErrInvalidToken, fields[1])
	}

	structure := core.Structure(fields[2])
	if !structure.IsValid() && !(authentification.EstSupport(userType) && structure == "") {
		return authentification.Utilisateur{}, fmt.Errorf("%w: unknown structure %q", ErrInvalidToken, fields[2])
	}

	return authentification.Utilisateur{
		ID:        fields[3],
		Type:      userType,
		Structure: structure,
	}, nil
}
