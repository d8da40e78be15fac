package eventbus_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/tests/testutil"
)

var jeune = authentification.Utilisateur{ID: "J1", Type: authentification.TypeJeune, Structure: core.StructureMilo}

func unEvenement(code evenement.Code) evenement.Evenement {
	return evenement.Nouveau(code, jeune, time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC))
}

func fastRetries() eventbus.Option {
	return eventbus.WithRetryConfig(eventbus.RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2,
	})
}

// startBus runs the bus until the test ends and waits for its subscriptions.
func startBus(t *testing.T, client *redis.Client, bus *eventbus.RedisEventBus, code evenement.Code) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Start(ctx)
	}()
	t.Cleanup(func() {
		_ = bus.Shutdown()
		cancel()
		<-done
	})

	channel := bus.ChannelName(code)
	require.Eventually(t, func() bool {
		subs, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && subs[channel] > 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRedisEventBus_Subscribe(t *testing.T) {
	bus := eventbus.NewRedisEventBus(nil)
	noop := func(context.Context, evenement.Evenement) error { return nil }

	require.NoError(t, bus.Subscribe(evenement.CodeFavoriCree, noop))
	require.NoError(t, bus.Subscribe(evenement.CodeFavoriCree, noop))
	assert.Equal(t, 2, bus.HandlerCount(evenement.CodeFavoriCree))

	err := bus.Subscribe("", noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code cannot be empty")

	err = bus.Subscribe(evenement.CodeFavoriCree, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler cannot be nil")
}

func TestRedisEventBus_ChannelName(t *testing.T) {
	assert.Equal(t, "evenements:FAVORI_CREE", eventbus.NewRedisEventBus(nil).ChannelName(evenement.CodeFavoriCree))

	bus := eventbus.NewRedisEventBus(nil, eventbus.WithChannelPrefix("test:"))
	assert.Equal(t, "test:RDV_CREE", bus.ChannelName(evenement.CodeRendezVousCree))
}

func TestRedisEventBus_PublishRejectsEmptyCode(t *testing.T) {
	err := eventbus.NewRedisEventBus(nil).Publish(context.Background(), evenement.Evenement{})

	require.Error(t, err)
}

func TestRedisEventBus_PublishAndReceive(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	publisher := eventbus.NewRedisEventBus(client)
	subscriber := eventbus.NewRedisEventBus(client)

	received := make(chan evenement.Evenement, 1)
	require.NoError(t, subscriber.Subscribe(evenement.CodeFavoriCree, func(_ context.Context, e evenement.Evenement) error {
		received <- e
		return nil
	}))
	startBus(t, client, subscriber, evenement.CodeFavoriCree)

	sent := unEvenement(evenement.CodeFavoriCree)
	require.NoError(t, publisher.Publish(context.Background(), sent))

	select {
	case e := <-received:
		assert.Equal(t, sent.Code, e.Code)
		assert.Equal(t, sent.Emetteur, e.Emetteur)
		assert.True(t, sent.Date.Equal(e.Date))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for evenement")
	}
}

func TestRedisEventBus_OnlyMatchingCode(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	bus := eventbus.NewRedisEventBus(client)

	var count atomic.Int32
	require.NoError(t, bus.Subscribe(evenement.CodeFavoriCree, func(context.Context, evenement.Evenement) error {
		count.Add(1)
		return nil
	}))
	startBus(t, client, bus, evenement.CodeFavoriCree)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, unEvenement(evenement.CodeFavoriSupprime)))
	require.NoError(t, bus.Publish(ctx, unEvenement(evenement.CodeFavoriCree)))

	require.Eventually(t, func() bool { return count.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestRedisEventBus_RetriesThenSucceeds(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	bus := eventbus.NewRedisEventBus(client, fastRetries())

	var attempts atomic.Int32
	require.NoError(t, bus.Subscribe(evenement.CodeRendezVousCree, func(context.Context, evenement.Evenement) error {
		if attempts.Add(1) < 3 {
			return errors.New("mongo indisponible")
		}
		return nil
	}))
	startBus(t, client, bus, evenement.CodeRendezVousCree)

	require.NoError(t, bus.Publish(context.Background(), unEvenement(evenement.CodeRendezVousCree)))

	require.Eventually(t, func() bool { return attempts.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestRedisEventBus_DeadLetterAfterRetries(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	dlq := eventbus.NewDeadLetterHandler(client, eventbus.WithDeadLetterQueueKey("test:dead_letter"))
	bus := eventbus.NewRedisEventBus(client, fastRetries(), eventbus.WithDeadLetter(dlq))

	var attempts atomic.Int32
	require.NoError(t, bus.Subscribe(evenement.CodeActionSupprimee, func(context.Context, evenement.Evenement) error {
		attempts.Add(1)
		return errors.New("mongo indisponible")
	}))
	startBus(t, client, bus, evenement.CodeActionSupprimee)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, unEvenement(evenement.CodeActionSupprimee)))

	require.Eventually(t, func() bool {
		n, err := dlq.QueueLength(ctx)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load(), "first attempt plus two retries")

	entries, err := dlq.GetDeadLetters(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ACTION_SUPPRIMEE", entries[0].Code)
	assert.Equal(t, "J1", entries[0].EmetteurID)
	assert.Equal(t, "mongo indisponible", entries[0].Error)
}

func TestRedisEventBus_Lifecycle(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	bus := eventbus.NewRedisEventBus(client)
	require.NoError(t, bus.Subscribe(evenement.CodeFavoriCree, func(context.Context, evenement.Evenement) error {
		return nil
	}))

	assert.False(t, bus.IsRunning())
	require.NoError(t, bus.Shutdown(), "shutting down a stopped bus is a no-op")

	startBus(t, client, bus, evenement.CodeFavoriCree)
	assert.True(t, bus.IsRunning())

	err := bus.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	require.NoError(t, bus.Shutdown())
	assert.False(t, bus.IsRunning())
}

func TestDefaultRetryConfig(t *testing.T) {
	config := eventbus.DefaultRetryConfig()

	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, config.InitialBackoff)
	assert.Equal(t, 5*time.Second, config.MaxBackoff)
	assert.InDelta(t, 2.0, config.BackoffFactor, 0.001)
}
