package keycloak_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/infrastructure/keycloak"
)

// testKeyID is the key ID used in tests.
const testKeyID = "test-key-id"

// testKeys holds the RSA key pair for testing.
type testKeys struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// generateTestKeys creates a new RSA key pair for testing.
func generateTestKeys(t *testing.T) *testKeys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &testKeys{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
	}
}

// jwksResponse creates a JWKS response JSON for the test public key.
func jwksResponse(t *testing.T, keys *testKeys) []byte {
	t.Helper()
	n := base64.RawURLEncoding.EncodeToString(keys.publicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(keys.publicKey.E)).Bytes())

	response := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"kid": testKeyID,
				"n":   n,
				"e":   e,
			},
		},
	}

	data, err := json.Marshal(response)
	require.NoError(t, err)
	return data
}

// setupMockKeycloak creates a mock Keycloak server with JWKS endpoint.
func setupMockKeycloak(t *testing.T, keys *testKeys) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/realms/test-realm/protocol/openid-connect/certs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(jwksResponse(t, keys))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// createTestToken creates a signed JWT token for testing.
func createTestToken(t *testing.T, keys *testKeys, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID

	tokenString, err := token.SignedString(keys.privateKey)
	require.NoError(t, err)
	return tokenString
}

// standardClaims returns valid claims of a Milo conseiller.
func standardClaims(issuerURL string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":           issuerURL,
		"sub":           "auth-123",
		"aud":           "test-client",
		"exp":           now.Add(time.Hour).Unix(),
		"iat":           now.Unix(),
		"userId":        "conseiller-1",
		"userType":      "CONSEILLER",
		"userStructure": "MILO",
		"userRoles":     []any{"SUPERVISEUR"},
		"email":         "nils.tavernier@milo.fr",
		"given_name":    "Nils",
		"family_name":   "Tavernier",
	}
}

func TestNewJWTValidator(t *testing.T) {
	keys := generateTestKeys(t)
	server := setupMockKeycloak(t, keys)

	t.Run("success", func(t *testing.T) {
		validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
			KeycloakURL: server.URL,
			Realm:       "test-realm",
			ClientID:    "test-client",
		})
		require.NoError(t, err)
		require.NotNil(t, validator)
		require.NoError(t, validator.Close())
	})

	t.Run("missing keycloak url", func(t *testing.T) {
		validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
			Realm:    "test-realm",
			ClientID: "test-client",
		})
		require.Error(t, err)
		require.Nil(t, validator)
		assert.ErrorIs(t, err, keycloak.ErrJWKSFetchFailed)
	})

	t.Run("missing realm", func(t *testing.T) {
		validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
			KeycloakURL: server.URL,
			ClientID:    "test-client",
		})
		require.Error(t, err)
		require.Nil(t, validator)
		assert.ErrorIs(t, err, keycloak.ErrJWKSFetchFailed)
	})

	t.Run("invalid jwks url", func(t *testing.T) {
		validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
			KeycloakURL: "http://invalid-host-that-does-not-exist:9999",
			Realm:       "test-realm",
			ClientID:    "test-client",
		})
		require.Error(t, err)
		require.Nil(t, validator)
		assert.ErrorIs(t, err, keycloak.ErrJWKSFetchFailed)
	})
}

func TestJWTValidator_Validate(t *testing.T) {
	keys := generateTestKeys(t)
	server := setupMockKeycloak(t, keys)
	issuerURL := server.URL + "/realms/test-realm"

	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
		ClientID:    "test-client",
		Leeway:      30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = validator.Close() })

	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		tokenString := createTestToken(t, keys, claims)

		result, validateErr := validator.Validate(ctx, tokenString)
		require.NoError(t, validateErr)
		require.NotNil(t, result)

		assert.Equal(t, "auth-123", result.Subject)
		assert.Equal(t, "conseiller-1", result.UserID)
		assert.Equal(t, "CONSEILLER", result.UserType)
		assert.Equal(t, "MILO", result.UserStructure)
		assert.Equal(t, []string{"SUPERVISEUR"}, result.UserRoles)
		assert.Equal(t, "nils.tavernier@milo.fr", result.Email)
		assert.Equal(t, "Nils", result.GivenName)
		assert.Equal(t, "Tavernier", result.FamilyName)
		assert.False(t, result.IssuedAt.IsZero())
		assert.False(t, result.ExpiresAt.IsZero())
	})

	t.Run("empty token", func(t *testing.T) {
		result, validateErr := validator.Validate(ctx, "")
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		result, validateErr := validator.Validate(ctx, "not-a-valid-jwt")
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["exp"] = time.Now().Add(-time.Hour).Unix() // Expired 1 hour ago

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["iss"] = "https://wrong-issuer.com/realms/other"

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrInvalidIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["aud"] = "wrong-client"

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrInvalidAudience)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		delete(claims, "sub")

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrMissingSubject)
	})

	t.Run("invalid signature", func(t *testing.T) {
		// Create a token with different keys
		otherKeys := generateTestKeys(t)
		claims := standardClaims(issuerURL)
		tokenString := createTestToken(t, otherKeys, claims)

		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrInvalidToken)
	})

	t.Run("token without exp claim", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		delete(claims, "exp")

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
	})

	t.Run("minimal valid claims", func(t *testing.T) {
		now := time.Now()
		claims := jwt.MapClaims{
			"iss": issuerURL,
			"sub": "minimal-user",
			"aud": "test-client",
			"exp": now.Add(time.Hour).Unix(),
			"iat": now.Unix(),
		}

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.NoError(t, validateErr)
		require.NotNil(t, result)

		assert.Equal(t, "minimal-user", result.Subject)
		assert.Empty(t, result.UserID)
		assert.Empty(t, result.Email)
		assert.Nil(t, result.UserRoles)
	})
}

func TestJWTValidator_ValidateWithoutAudience(t *testing.T) {
	keys := generateTestKeys(t)
	server := setupMockKeycloak(t, keys)
	issuerURL := server.URL + "/realms/test-realm"

	// Create validator without ClientID - should skip audience validation
	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
		// No ClientID
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = validator.Close() })

	ctx := context.Background()

	t.Run("accepts any audience when ClientID not configured", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["aud"] = "any-client-should-work"

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.NoError(t, validateErr)
		require.NotNil(t, result)
		assert.Equal(t, "conseiller-1", result.UserID)
	})
}

func TestJWTValidator_Leeway(t *testing.T) {
	keys := generateTestKeys(t)
	server := setupMockKeycloak(t, keys)
	issuerURL := server.URL + "/realms/test-realm"

	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
		ClientID:    "test-client",
		Leeway:      1 * time.Minute, // 1 minute leeway
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = validator.Close() })

	ctx := context.Background()

	t.Run("accepts recently expired token within leeway", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["exp"] = time.Now().Add(-30 * time.Second).Unix() // Expired 30 seconds ago

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.NoError(t, validateErr)
		require.NotNil(t, result)
	})

	t.Run("rejects token expired beyond leeway", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["exp"] = time.Now().Add(-2 * time.Minute).Unix() // Expired 2 minutes ago

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.Error(t, validateErr)
		require.Nil(t, result)
		assert.ErrorIs(t, validateErr, keycloak.ErrTokenExpired)
	})
}

func TestJWTValidator_ExtractClaims(t *testing.T) {
	keys := generateTestKeys(t)
	server := setupMockKeycloak(t, keys)
	issuerURL := server.URL + "/realms/test-realm"

	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
		ClientID:    "test-client",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = validator.Close() })

	ctx := context.Background()

	t.Run("handles mixed type roles array", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["userRoles"] = []any{"SUPERVISEUR", 123, "SUPERVISEUR_RESPONSABLE"}

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.NoError(t, validateErr)
		assert.Equal(t, []string{"SUPERVISEUR", "SUPERVISEUR_RESPONSABLE"}, result.UserRoles)
	})

	t.Run("ignores non string claims", func(t *testing.T) {
		claims := standardClaims(issuerURL)
		claims["userId"] = 42
		claims["userRoles"] = "SUPERVISEUR"

		tokenString := createTestToken(t, keys, claims)
		result, validateErr := validator.Validate(ctx, tokenString)
		require.NoError(t, validateErr)
		assert.Empty(t, result.UserID)
		assert.Nil(t, result.UserRoles)
	})
}

func TestTokenClaims_Utilisateur(t *testing.T) {
	t.Run("conseiller", func(t *testing.T) {
		claims := &keycloak.TokenClaims{
			Subject:       "auth-123",
			UserID:        "conseiller-1",
			UserType:      "CONSEILLER",
			UserStructure: "MILO",
			UserRoles:     []string{"SUPERVISEUR"},
			Email:         "nils.tavernier@milo.fr",
			GivenName:     "Nils",
			FamilyName:    "Tavernier",
		}

		u, err := claims.Utilisateur()

		require.NoError(t, err)
		assert.Equal(t, authentification.Utilisateur{
			ID:                 "conseiller-1",
			IDAuthentification: "auth-123",
			Type:               authentification.TypeConseiller,
			Structure:          core.StructureMilo,
			Roles:              []authentification.Role{authentification.RoleSuperviseur},
			Email:              "nils.tavernier@milo.fr",
			Nom:                "Tavernier",
			Prenom:             "Nils",
		}, u)
	})

	t.Run("beneficiaire is read as jeune", func(t *testing.T) {
		claims := &keycloak.TokenClaims{UserID: "jeune-1", UserType: "BENEFICIAIRE", UserStructure: "POLE_EMPLOI"}

		u, err := claims.Utilisateur()

		require.NoError(t, err)
		assert.Equal(t, authentification.TypeJeune, u.Type)
		assert.Nil(t, u.Roles)
	})

	t.Run("support without structure", func(t *testing.T) {
		claims := &keycloak.TokenClaims{UserID: "support-1", UserType: "SUPPORT"}

		u, err := claims.Utilisateur()

		require.NoError(t, err)
		assert.Equal(t, authentification.TypeSupport, u.Type)
		assert.Empty(t, u.Structure)
	})

	tests := []struct {
		name    string
		claims  keycloak.TokenClaims
		wantErr error
	}{
		{"missing user id", keycloak.TokenClaims{UserType: "JEUNE", UserStructure: "MILO"}, keycloak.ErrMissingUserID},
		{"unknown type", keycloak.TokenClaims{UserID: "u1", UserType: "ADMIN", UserStructure: "MILO"}, keycloak.ErrInvalidUserType},
		{"unknown structure", keycloak.TokenClaims{UserID: "u1", UserType: "JEUNE", UserStructure: "CAF"}, keycloak.ErrInvalidStructure},
		{"jeune without structure", keycloak.TokenClaims{UserID: "u1", UserType: "JEUNE"}, keycloak.ErrInvalidStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.claims.Utilisateur()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTValidator_Close(t *testing.T) {
	keys := generateTestKeys(t)
	server := setupMockKeycloak(t, keys)

	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
		ClientID:    "test-client",
	})
	require.NoError(t, err)

	// Close should not error
	closeErr := validator.Close()
	require.NoError(t, closeErr)

	// Multiple closes should be safe
	closeErr = validator.Close()
	require.NoError(t, closeErr)
}

func BenchmarkJWTValidator_Validate(b *testing.B) {
	// Generate keys
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		b.Fatal(err)
	}
	publicKey := &privateKey.PublicKey

	// Create JWKS response
	n := base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(publicKey.E)).Bytes())
	jwksData, _ := json.Marshal(map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"kid": testKeyID,
				"n":   n,
				"e":   e,
			},
		},
	})

	// Setup mock server
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/test-realm/protocol/openid-connect/certs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksData)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issuerURL := server.URL + "/realms/test-realm"

	// Create validator
	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
		ClientID:    "test-client",
	})
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = validator.Close() }()

	claims := standardClaims(issuerURL)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_, validateErr := validator.Validate(ctx, tokenString)
		if validateErr != nil {
			b.Fatal(validateErr)
		}
	}
}
