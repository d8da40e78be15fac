// Package eventbus carries engagement evenements from the API to the worker over Redis Pub/Sub.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

// Default retry configuration constants.
const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
	defaultBackoffFactor  = 2.0
	defaultChannelPrefix  = "evenements:"
)

// Handler processes an evenement received from Redis.
type Handler func(ctx context.Context, e evenement.Evenement) error

// envelope is the JSON wire form of an evenement.
type envelope struct {
	ID       string           `json:"id"`
	Code     string           `json:"code"`
	Emetteur emetteurEnvelope `json:"emetteur"`
	Date     time.Time        `json:"date"`
}

type emetteurEnvelope struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Structure string `json:"structure"`
}

func toEnvelope(e evenement.Evenement) envelope {
	return envelope{
		ID:   uuid.New().String(),
		Code: string(e.Code),
		Emetteur: emetteurEnvelope{
			ID:        e.Emetteur.ID,
			Type:      string(e.Emetteur.Type),
			Structure: string(e.Emetteur.Structure),
		},
		Date: e.Date,
	}
}

func (env envelope) toEvenement() evenement.Evenement {
	return evenement.Evenement{
		Code: evenement.Code(env.Code),
		Emetteur: evenement.Emetteur{
			ID:        env.Emetteur.ID,
			Type:      authentification.Type(env.Emetteur.Type),
			Structure: core.Structure(env.Emetteur.Structure),
		},
		Date: env.Date,
	}
}

// RetryConfig configures retry behavior for evenement handling.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     defaultMaxRetries,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
		BackoffFactor:  defaultBackoffFactor,
	}
}

// RedisEventBus publishes evenements on one channel per code and dispatches received ones
// to the subscribed handlers.
type RedisEventBus struct {
	client        *redis.Client
	pubsub        *redis.PubSub
	pubsubMu      sync.RWMutex
	handlers      map[evenement.Code][]Handler
	handlersMu    sync.RWMutex
	running       bool
	runningMu     sync.RWMutex
	shutdown      chan struct{}
	wg            sync.WaitGroup
	logger        *slog.Logger
	retryConfig   RetryConfig
	channelPrefix string
	deadLetter    *DeadLetterHandler
}

// Option configures a RedisEventBus.
type Option func(*RedisEventBus)

// WithLogger sets the logger for the event bus.
func WithLogger(logger *slog.Logger) Option {
	return func(b *RedisEventBus) {
		b.logger = logger
	}
}

// WithRetryConfig sets the retry configuration for evenement handling.
func WithRetryConfig(config RetryConfig) Option {
	return func(b *RedisEventBus) {
		b.retryConfig = config
	}
}

// WithChannelPrefix sets a prefix for Redis channel names.
func WithChannelPrefix(prefix string) Option {
	return func(b *RedisEventBus) {
		b.channelPrefix = prefix
	}
}

// WithDeadLetter parks evenements whose handler kept failing.
func WithDeadLetter(dlq *DeadLetterHandler) Option {
	return func(b *RedisEventBus) {
		b.deadLetter = dlq
	}
}

// NewRedisEventBus creates a new Redis-based event bus.
func NewRedisEventBus(client *redis.Client, opts ...Option) *RedisEventBus {
	b := &RedisEventBus{
		client:        client,
		handlers:      make(map[evenement.Code][]Handler),
		shutdown:      make(chan struct{}),
		logger:        slog.Default(),
		retryConfig:   DefaultRetryConfig(),
		channelPrefix: defaultChannelPrefix,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Publish implements evenement.Publisher.
func (b *RedisEventBus) Publish(ctx context.Context, e evenement.Evenement) error {
	if e.Code == "" {
		return errors.New("evenement code cannot be empty")
	}

	env := toEnvelope(e)
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal evenement: %w", err)
	}

	channel := b.ChannelName(e.Code)
	if publishErr := b.client.Publish(ctx, channel, data).Err(); publishErr != nil {
		return fmt.Errorf("failed to publish evenement to Redis: %w", publishErr)
	}

	b.logger.DebugContext(ctx, "evenement published",
		slog.String("evenement_id", env.ID),
		slog.String("code", env.Code),
		slog.String("emetteur_id", env.Emetteur.ID),
		slog.String("channel", channel),
	)

	return nil
}

// Subscribe registers a handler for one code. Subscriptions must happen before Start.
func (b *RedisEventBus) Subscribe(code evenement.Code, handler Handler) error {
	if code == "" {
		return errors.New("evenement code cannot be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	b.handlers[code] = append(b.handlers[code], handler)

	return nil
}

// Start begins listening on the subscribed channels.
// It blocks until Shutdown is called or the context is cancelled.
func (b *RedisEventBus) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return errors.New("event bus is already running")
	}
	b.running = true
	b.runningMu.Unlock()

	channels := b.subscribedChannels()
	if len(channels) == 0 {
		b.logger.WarnContext(ctx, "starting event bus with no subscriptions")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.shutdown:
			return nil
		}
	}

	pubsub := b.client.Subscribe(ctx, channels...)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to channels: %w", err)
	}

	b.pubsubMu.Lock()
	b.pubsub = pubsub
	b.pubsubMu.Unlock()

	b.logger.InfoContext(ctx, "event bus started", slog.Int("channel_count", len(channels)))

	msgCh := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "event bus stopping due to context cancellation")
			return ctx.Err()

		case <-b.shutdown:
			b.logger.InfoContext(ctx, "event bus stopping due to shutdown signal")
			return nil

		case msg, ok := <-msgCh:
			if !ok {
				b.logger.WarnContext(ctx, "message channel closed")
				return nil
			}
			b.handleMessage(ctx, msg)
		}
	}
}

// Shutdown stops the bus and waits for in-flight handlers.
func (b *RedisEventBus) Shutdown() error {
	b.runningMu.Lock()
	if !b.running {
		b.runningMu.Unlock()
		return nil
	}
	b.running = false
	b.runningMu.Unlock()

	close(b.shutdown)

	b.wg.Wait()

	b.pubsubMu.Lock()
	pubsub := b.pubsub
	b.pubsub = nil
	b.pubsubMu.Unlock()

	if pubsub != nil {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close pubsub: %w", err)
		}
	}

	return nil
}

// IsRunning returns true if the event bus is currently running.
func (b *RedisEventBus) IsRunning() bool {
	b.runningMu.RLock()
	defer b.runningMu.RUnlock()
	return b.running
}

// HandlerCount returns the number of handlers registered for a code.
func (b *RedisEventBus) HandlerCount(code evenement.Code) int {
	b.handlersMu.RLock()
	defer b.handlersMu.RUnlock()
	return len(b.handlers[code])
}

// ChannelName returns the Redis channel of a code, e.g. "evenements:FAVORI_CREE".
func (b *RedisEventBus) ChannelName(code evenement.Code) string {
	return b.channelPrefix + string(code)
}

func (b *RedisEventBus) subscribedChannels() []string {
	b.handlersMu.RLock()
	defer b.handlersMu.RUnlock()

	channels := make([]string, 0, len(b.handlers))
	for code := range b.handlers {
		channels = append(channels, b.ChannelName(code))
	}
	return channels
}

func (b *RedisEventBus) handleMessage(ctx context.Context, msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		b.logger.ErrorContext(ctx, "failed to unmarshal evenement",
			slog.String("channel", msg.Channel),
			slog.String("error", err.Error()),
		)
		return
	}

	e := env.toEvenement()

	b.handlersMu.RLock()
	handlers := b.handlers[e.Code]
	b.handlersMu.RUnlock()

	for i, handler := range handlers {
		b.wg.Add(1)
		go b.executeHandler(ctx, handler, e, i)
	}
}

// executeHandler runs a single handler with exponential backoff retries.
func (b *RedisEventBus) executeHandler(ctx context.Context, handler Handler, e evenement.Evenement, handlerIndex int) {
	defer b.wg.Done()

	var lastErr error
	backoff := b.retryConfig.InitialBackoff

	for attempt := 0; attempt <= b.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				b.logger.WarnContext(ctx, "handler retry cancelled",
					slog.String("code", string(e.Code)),
					slog.String("error", ctx.Err().Error()),
				)
				return
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * b.retryConfig.BackoffFactor)
			if backoff > b.retryConfig.MaxBackoff {
				backoff = b.retryConfig.MaxBackoff
			}
		}

		if err := handler(ctx, e); err != nil {
			lastErr = err
			b.logger.WarnContext(ctx, "evenement handler failed",
				slog.String("code", string(e.Code)),
				slog.Int("handler_index", handlerIndex),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			continue
		}
		return
	}

	b.logger.ErrorContext(ctx, "evenement handler failed after all retries",
		slog.String("code", string(e.Code)),
		slog.String("emetteur_id", e.Emetteur.ID),
		slog.Int("handler_index", handlerIndex),
		slog.Int("max_retries", b.retryConfig.MaxRetries),
		slog.String("error", lastErr.Error()),
	)
	if b.deadLetter != nil {
		b.deadLetter.Handle(ctx, e, lastErr)
	}
}

var _ evenement.Publisher = (*RedisEventBus)(nil)
