package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/infrastructure/keycloak"
	"github.com/lllypuk/passemploi/internal/middleware"
)

type mockJWTValidator struct {
	claims *keycloak.TokenClaims
	err    error
	closed bool
}

func (m *mockJWTValidator) Validate(_ context.Context, _ string) (*keycloak.TokenClaims, error) {
	return m.claims, m.err
}

func (m *mockJWTValidator) Close() error {
	m.closed = true
	return nil
}

func TestNewKeycloakValidatorAdapter(t *testing.T) {
	assert.NotNil(t, middleware.NewKeycloakValidatorAdapter(&mockJWTValidator{}))
	assert.Panics(t, func() {
		middleware.NewKeycloakValidatorAdapter(nil)
	})
}

func TestKeycloakValidatorAdapter_ValidateToken(t *testing.T) {
	t.Run("converts claims", func(t *testing.T) {
		adapter := middleware.NewKeycloakValidatorAdapter(&mockJWTValidator{
			claims: &keycloak.TokenClaims{
				Subject:       "kc-1",
				UserID:        "conseiller-1",
				UserType:      "CONSEILLER",
				UserStructure: "POLE_EMPLOI",
				UserRoles:     []string{"SUPERVISEUR"},
				Email:         "c@example.com",
				GivenName:     "Nils",
				FamilyName:    "Tavernier",
			},
		})

		u, err := adapter.ValidateToken(context.Background(), "token")

		require.NoError(t, err)
		assert.Equal(t, "conseiller-1", u.ID)
		assert.Equal(t, "kc-1", u.IDAuthentification)
		assert.Equal(t, authentification.TypeConseiller, u.Type)
		assert.Equal(t, core.StructurePoleEmploi, u.Structure)
		assert.True(t, authentification.EstSuperviseur(u))
		assert.Equal(t, "Tavernier", u.Nom)
	})

	t.Run("rejects incomplete claims", func(t *testing.T) {
		adapter := middleware.NewKeycloakValidatorAdapter(&mockJWTValidator{
			claims: &keycloak.TokenClaims{Subject: "kc-1", UserType: "JEUNE", UserStructure: "MILO"},
		})

		_, err := adapter.ValidateToken(context.Background(), "token")

		require.ErrorIs(t, err, middleware.ErrInvalidToken)
		require.ErrorIs(t, err, keycloak.ErrMissingUserID)
	})

	errorCases := []struct {
		name string
		err  error
		want error
	}{
		{"expired", keycloak.ErrTokenExpired, middleware.ErrTokenExpired},
		{"invalid", keycloak.ErrInvalidToken, middleware.ErrInvalidToken},
		{"issuer", keycloak.ErrInvalidIssuer, middleware.ErrInvalidToken},
		{"audience", keycloak.ErrInvalidAudience, middleware.ErrInvalidToken},
		{"unknown", errors.New("jwks down"), middleware.ErrInvalidToken},
	}
	for _, tt := range errorCases {
		t.Run("maps "+tt.name, func(t *testing.T) {
			adapter := middleware.NewKeycloakValidatorAdapter(&mockJWTValidator{err: tt.err})

			_, err := adapter.ValidateToken(context.Background(), "token")

			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestKeycloakValidatorAdapter_Close(t *testing.T) {
	validator := &mockJWTValidator{}
	adapter := middleware.NewKeycloakValidatorAdapter(validator)

	require.NoError(t, adapter.Close())
	assert.True(t, validator.closed)
}
