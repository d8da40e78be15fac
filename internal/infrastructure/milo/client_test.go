package milo_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/errs"
	milodomain "github.com/lllypuk/passemploi/internal/domain/milo"
	"github.com/lllypuk/passemploi/internal/infrastructure/milo"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, threshold uint32) *milo.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return milo.NewClient(milo.Config{
		BaseURL:          server.URL + "/",
		APIKey:           "test-api-key",
		FailureThreshold: threshold,
		OpenTimeout:      time.Minute,
		Location:         time.UTC,
	})
}

func session(id int, debut string) map[string]any {
	return map[string]any{
		"session": map[string]any{
			"id":                  id,
			"nom":                 fmt.Sprintf("Session %d", id),
			"dateHeureDebut":      debut,
			"dateHeureFin":        "2024-03-12 17:00:00",
			"nbPlacesDisponibles": 4,
		},
		"offre": map[string]any{
			"id":   10,
			"nom":  "Atelier CV",
			"type": map[string]any{"code": "WORKSHOP"},
		},
	}
}

func sessionsOf(t *testing.T, client *milo.Client) []milodomain.Session {
	t.Helper()
	result, err := client.GetSessionsStructure(context.Background(), "structure-1")
	require.NoError(t, err)
	require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Error())
	return result.Data()
}

func upstreamFailure(t *testing.T, client *milo.Client) *errs.DomainError {
	t.Helper()
	result, err := client.GetSessionsStructure(context.Background(), "structure-1")
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	require.Equal(t, errs.CodeUpstream, result.Error().Code)
	return result.Error()
}

func writeSessions(w http.ResponseWriter, sessions []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"page": 1, "sessions": sessions})
}

func TestClient_GetSessionsStructure(t *testing.T) {
	t.Run("maps sessions and sends partner headers", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/operateurs/structures/structure-1/sessions", r.URL.Path)
			assert.Equal(t, "test-api-key", r.Header.Get("X-Gravitee-Api-Key"))
			assert.Equal(t, "APPLICATION_CEJ", r.Header.Get("operateur"))
			assert.Equal(t, "150", r.URL.Query().Get("taillePage"))
			assert.Equal(t, "true", r.URL.Query().Get("rechercheInscrits"))
			writeSessions(w, []map[string]any{session(1, "2024-03-12 09:30:00")})
		}, 5)

		sessions := sessionsOf(t, client)

		require.Len(t, sessions, 1)
		assert.Equal(t, "1", sessions[0].ID)
		assert.Equal(t, "Session 1", sessions[0].Nom)
		assert.Equal(t, "Atelier CV", sessions[0].NomOffre)
		assert.Equal(t, "WORKSHOP", sessions[0].Type)
		assert.Equal(t, time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC), sessions[0].DateHeureDebut)
		require.NotNil(t, sessions[0].NbPlacesRestantes)
		assert.Equal(t, 4, *sessions[0].NbPlacesRestantes)
	})

	t.Run("converts partner local time to UTC", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeSessions(w, []map[string]any{session(1, "2024-03-12 10:00:00")})
		}))
		t.Cleanup(server.Close)

		client := milo.NewClient(milo.Config{
			BaseURL:  server.URL,
			Location: time.FixedZone("CET", 3600),
		})

		sessions := sessionsOf(t, client)

		require.Len(t, sessions, 1)
		assert.Equal(t, time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC), sessions[0].DateHeureDebut)
	})

	t.Run("fetches the second page when the first is full", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.URL.Query().Get("page") == "2" {
				writeSessions(w, []map[string]any{session(milo.PageSize+1, "2024-03-12 09:30:00")})
				return
			}
			page := make([]map[string]any, 0, milo.PageSize)
			for i := range milo.PageSize {
				page = append(page, session(i+1, "2024-03-12 09:30:00"))
			}
			writeSessions(w, page)
		}, 5)

		sessions := sessionsOf(t, client)

		assert.Len(t, sessions, milo.PageSize+1)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("skips malformed sessions", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeSessions(w, []map[string]any{
				session(1, "not a date"),
				session(2, "2024-03-12 09:30:00"),
			})
		}, 5)

		sessions := sessionsOf(t, client)

		require.Len(t, sessions, 1)
		assert.Equal(t, "2", sessions[0].ID)
	})

	t.Run("fails with partner status and body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("structure inconnue"))
		}, 5)

		erreur := upstreamFailure(t, client)

		assert.Equal(t, http.StatusBadRequest, erreur.StatusCode)
		assert.Equal(t, "structure inconnue", erreur.Body)
	})

	t.Run("redirect status is a failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotModified)
		}, 5)

		erreur := upstreamFailure(t, client)

		assert.Equal(t, http.StatusNotModified, erreur.StatusCode)
	})

	t.Run("null body is reported as not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("null"))
		}, 5)

		erreur := upstreamFailure(t, client)

		assert.Equal(t, http.StatusNotFound, erreur.StatusCode)
	})

	t.Run("context cancellation", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeSessions(w, nil)
		}, 5)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetSessionsStructure(ctx, "structure-1")

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	t.Run("opens after consecutive server errors", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}, 2)

		for range 2 {
			assert.Equal(t, http.StatusBadGateway, upstreamFailure(t, client).StatusCode)
		}
		assert.Equal(t, gobreaker.StateOpen, client.State())

		erreur := upstreamFailure(t, client)

		assert.Equal(t, http.StatusServiceUnavailable, erreur.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("client errors do not open the breaker", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, 2)

		for range 5 {
			upstreamFailure(t, client)
		}

		assert.Equal(t, gobreaker.StateClosed, client.State())
	})

	t.Run("a success resets the failure count", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1)%2 == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			writeSessions(w, nil)
		}, 2)

		for range 6 {
			_, _ = client.GetSessionsStructure(context.Background(), "structure-1")
		}

		assert.Equal(t, gobreaker.StateClosed, client.State())
	})
}
