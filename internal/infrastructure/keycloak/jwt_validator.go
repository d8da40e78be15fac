// Package keycloak validates access tokens issued by the identity provider.
package keycloak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
)

// JWT validation errors.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidClaims    = errors.New("invalid claims")
	ErrMissingSubject   = errors.New("missing subject claim")
	ErrMissingUserID    = errors.New("missing userId claim")
	ErrInvalidUserType  = errors.New("invalid userType claim")
	ErrInvalidStructure = errors.New("invalid userStructure claim")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidIssuer    = errors.New("invalid issuer")
	ErrInvalidAudience  = errors.New("invalid audience")
	ErrJWKSFetchFailed  = errors.New("failed to fetch JWKS")
)

// TokenClaims represents validated JWT claims.
type TokenClaims struct {
	Subject       string // id in the identity provider
	UserID        string
	UserType      string
	UserStructure string
	UserRoles     []string
	Email         string
	GivenName     string
	FamilyName    string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// Utilisateur converts the claims into the request principal.
// Support accounts carry no structure.
func (c *TokenClaims) Utilisateur() (authentification.Utilisateur, error) {
	if c.UserID == "" {
		return authentification.Utilisateur{}, ErrMissingUserID
	}

	userType, ok := authentification.ParseType(c.UserType)
	if !ok {
		return authentification.Utilisateur{}, fmt.Errorf("%w: %q", ErrInvalidUserType, c.UserType)
	}

	structure := core.Structure(c.UserStructure)
	if !structure.IsValid() && !(authentification.EstSupport(userType) && structure == "") {
		return authentification.Utilisateur{}, fmt.Errorf("%w: %q", ErrInvalidStructure, c.UserStructure)
	}

	var roles []authentification.Role
	for _, r := range c.UserRoles {
		roles = append(roles, authentification.Role(r))
	}

	return authentification.Utilisateur{
		ID:                 c.UserID,
		IDAuthentification: c.Subject,
		Type:               userType,
		Structure:          structure,
		Roles:              roles,
		Email:              c.Email,
		Nom:                c.FamilyName,
		Prenom:             c.GivenName,
	}, nil
}

// JWTValidator validates access tokens.
type JWTValidator interface {
	// Validate validates token and returns claims.
	Validate(ctx context.Context, tokenString string) (*TokenClaims, error)

	// Close stops background JWKS refresh.
	Close() error
}

// JWTValidatorConfig contains configuration for JWTValidator.
type JWTValidatorConfig struct {
	KeycloakURL     string
	Realm           string
	ClientID        string        // Expected audience
	Leeway          time.Duration // Clock skew tolerance
	RefreshInterval time.Duration // JWKS refresh interval
	Logger          *slog.Logger
}

// Default configuration values.
const (
	DefaultLeeway          = 30 * time.Second
	DefaultRefreshInterval = 1 * time.Hour
)

// jwtValidator implements JWTValidator using JWKS for offline validation.
type jwtValidator struct {
	jwks      keyfunc.Keyfunc
	config    JWTValidatorConfig
	issuerURL string
	logger    *slog.Logger
	cancel    context.CancelFunc
}

// NewJWTValidator creates a new JWT validator with JWKS caching.
func NewJWTValidator(config JWTValidatorConfig) (JWTValidator, error) {
	if config.KeycloakURL == "" {
		return nil, fmt.Errorf("%w: KeycloakURL is required", ErrJWKSFetchFailed)
	}
	if config.Realm == "" {
		return nil, fmt.Errorf("%w: Realm is required", ErrJWKSFetchFailed)
	}

	if config.Leeway == 0 {
		config.Leeway = DefaultLeeway
	}
	if config.RefreshInterval == 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	issuerURL := fmt.Sprintf("%s/realms/%s", config.KeycloakURL, config.Realm)
	jwksURL := issuerURL + "/protocol/openid-connect/certs"

	logger.Info("initializing JWT validator",
		slog.String("jwks_url", jwksURL),
		slog.Duration("refresh_interval", config.RefreshInterval),
	)

	// Controls the refresh goroutine.
	ctx, cancel := context.WithCancel(context.Background())

	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Ctx:             ctx,
		RefreshInterval: config.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("failed to refresh JWKS", slog.Any("error", err))
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrJWKSFetchFailed, err)
	}

	jwks, err := keyfunc.New(keyfunc.Options{
		Ctx:     ctx,
		Storage: storage,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrJWKSFetchFailed, err)
	}

	return &jwtValidator{
		jwks:      jwks,
		config:    config,
		issuerURL: issuerURL,
		logger:    logger,
		cancel:    cancel,
	}, nil
}

// Validate validates token and returns claims.
func (v *jwtValidator) Validate(_ context.Context, tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithLeeway(v.config.Leeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.issuerURL),
	}
	if v.config.ClientID != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.config.ClientID))
	}

	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: %w", ErrInvalidIssuer, err)
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, fmt.Errorf("%w: %w", ErrInvalidAudience, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return extractClaims(claims)
}

func extractClaims(claims jwt.MapClaims) (*TokenClaims, error) {
	tc := &TokenClaims{}

	tc.Subject, _ = claims["sub"].(string)
	if tc.Subject == "" {
		return nil, ErrMissingSubject
	}

	tc.UserID, _ = claims["userId"].(string)
	tc.UserType, _ = claims["userType"].(string)
	tc.UserStructure, _ = claims["userStructure"].(string)
	tc.Email, _ = claims["email"].(string)
	tc.GivenName, _ = claims["given_name"].(string)
	tc.FamilyName, _ = claims["family_name"].(string)

	if roles, rolesOK := claims["userRoles"].([]any); rolesOK {
		tc.UserRoles = make([]string, 0, len(roles))
		for _, role := range roles {
			if r, roleOK := role.(string); roleOK {
				tc.UserRoles = append(tc.UserRoles, r)
			}
		}
	}

	if iat, ok := claims["iat"].(float64); ok {
		tc.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		tc.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return tc, nil
}

// Close stops background JWKS refresh.
func (v *jwtValidator) Close() error {
	v.logger.Info("closing JWT validator")
	if v.cancel != nil {
		v.cancel()
	}
	return nil
}
