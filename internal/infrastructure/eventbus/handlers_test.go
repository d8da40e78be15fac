package eventbus_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/tests/mocks"
)

// syncBuffer is a thread-safe wrapper around bytes.Buffer for testing.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStoreHandler(t *testing.T) {
	repo := mocks.NewMockEvenementPublisher()
	handler := eventbus.NewStoreHandler(repo).AsHandler()

	e := unEvenement(evenement.CodeFavoriCree)
	require.NoError(t, handler(context.Background(), e))

	assert.Equal(t, []evenement.Evenement{e}, repo.Published())
}

func TestStoreHandler_WrapsRepositoryError(t *testing.T) {
	repo := mocks.NewMockEvenementPublisher()
	repo.FailWith(nil)

	err := eventbus.NewStoreHandler(repo).Handle(context.Background(), unEvenement(evenement.CodeFavoriCree))

	require.ErrorIs(t, err, mocks.ErrInjected)
	assert.Contains(t, err.Error(), "FAVORI_CREE")
}

func TestLoggingHandler(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := eventbus.NewLoggingHandler(logger).AsHandler()(context.Background(), unEvenement(evenement.CodeRechercheSauvegardee))

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "code=RECHERCHE_SAUVEGARDEE")
	assert.Contains(t, buf.String(), "emetteur_id=J1")
}

func TestNewLoggingHandler_DefaultsLogger(t *testing.T) {
	assert.NotNil(t, eventbus.NewLoggingHandler(nil))
}

func TestRegisterForAllCodes(t *testing.T) {
	bus := eventbus.NewRedisEventBus(nil)
	noop := func(context.Context, evenement.Evenement) error { return nil }

	require.NoError(t, eventbus.RegisterForAllCodes(bus, noop, noop))

	for _, code := range evenement.Codes {
		assert.Equal(t, 2, bus.HandlerCount(code), code)
	}
}
