package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

// Default dead letter queue configuration.
const (
	deadLetterQueueKey    = "evenements:dead_letter"
	defaultMaxDeadLetters = 1000
	defaultDeadLetterRead = 10
)

// StoreHandler persists every received evenement for the engagement analytics.
type StoreHandler struct {
	repository evenement.Repository
}

func NewStoreHandler(repository evenement.Repository) *StoreHandler {
	return &StoreHandler{repository: repository}
}

func (h *StoreHandler) Handle(ctx context.Context, e evenement.Evenement) error {
	if err := h.repository.Save(ctx, e); err != nil {
		return fmt.Errorf("store evenement %s: %w", e.Code, err)
	}
	return nil
}

// AsHandler converts StoreHandler to the Handler function type.
func (h *StoreHandler) AsHandler() Handler {
	return h.Handle
}

// LoggingHandler logs evenements for audit trail purposes.
type LoggingHandler struct {
	logger *slog.Logger
}

func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) Handle(ctx context.Context, e evenement.Evenement) error {
	h.logger.InfoContext(ctx, "evenement",
		slog.String("code", string(e.Code)),
		slog.String("emetteur_id", e.Emetteur.ID),
		slog.String("emetteur_type", string(e.Emetteur.Type)),
		slog.String("structure", string(e.Emetteur.Structure)),
		slog.Time("date", e.Date),
	)
	return nil
}

// AsHandler converts LoggingHandler to the Handler function type.
func (h *LoggingHandler) AsHandler() Handler {
	return h.Handle
}

// DeadLetterHandler stores evenements that could not be handled in a capped Redis list.
type DeadLetterHandler struct {
	client        *redis.Client
	logger        *slog.Logger
	queueKey      string
	maxDeadLetter int64
}

// DeadLetterEntry is a failed evenement stored in the dead letter queue.
type DeadLetterEntry struct {
	Code       string `json:"code"`
	EmetteurID string `json:"emetteur_id"`
	Error      string `json:"error"`
	Timestamp  int64  `json:"timestamp"`
}

// DeadLetterHandlerOption configures DeadLetterHandler.
type DeadLetterHandlerOption func(*DeadLetterHandler)

// WithDeadLetterQueueKey sets a custom key for the dead letter queue.
func WithDeadLetterQueueKey(key string) DeadLetterHandlerOption {
	return func(h *DeadLetterHandler) {
		h.queueKey = key
	}
}

func WithDeadLetterLogger(logger *slog.Logger) DeadLetterHandlerOption {
	return func(h *DeadLetterHandler) {
		h.logger = logger
	}
}

// WithMaxDeadLetters sets the maximum number of entries to keep in the queue.
func WithMaxDeadLetters(maxEntries int64) DeadLetterHandlerOption {
	return func(h *DeadLetterHandler) {
		h.maxDeadLetter = maxEntries
	}
}

func NewDeadLetterHandler(client *redis.Client, opts ...DeadLetterHandlerOption) *DeadLetterHandler {
	h := &DeadLetterHandler{
		client:        client,
		logger:        slog.Default(),
		queueKey:      deadLetterQueueKey,
		maxDeadLetter: defaultMaxDeadLetters,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Handle pushes a failed evenement on the queue, trimming it to its maximum size.
func (h *DeadLetterHandler) Handle(ctx context.Context, e evenement.Evenement, err error) {
	entry := DeadLetterEntry{
		Code:       string(e.Code),
		EmetteurID: e.Emetteur.ID,
		Error:      err.Error(),
		Timestamp:  e.Date.Unix(),
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		h.logger.ErrorContext(ctx, "failed to marshal dead letter entry",
			slog.String("code", entry.Code),
			slog.String("error", marshalErr.Error()),
		)
		return
	}

	if pushErr := h.client.LPush(ctx, h.queueKey, string(data)).Err(); pushErr != nil {
		h.logger.ErrorContext(ctx, "failed to push to dead letter queue",
			slog.String("code", entry.Code),
			slog.String("error", pushErr.Error()),
		)
		return
	}

	if trimErr := h.client.LTrim(ctx, h.queueKey, 0, h.maxDeadLetter-1).Err(); trimErr != nil {
		h.logger.WarnContext(ctx, "failed to trim dead letter queue",
			slog.String("error", trimErr.Error()),
		)
	}

	h.logger.ErrorContext(ctx, "evenement moved to dead letter queue",
		slog.String("code", entry.Code),
		slog.String("original_error", err.Error()),
	)
}

// GetDeadLetters returns the most recent entries, newest first.
func (h *DeadLetterHandler) GetDeadLetters(ctx context.Context, count int64) ([]DeadLetterEntry, error) {
	if count <= 0 {
		count = defaultDeadLetterRead
	}

	data, err := h.client.LRange(ctx, h.queueKey, 0, count-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get dead letters: %w", err)
	}

	entries := make([]DeadLetterEntry, 0, len(data))
	for _, d := range data {
		var entry DeadLetterEntry
		if unmarshalErr := json.Unmarshal([]byte(d), &entry); unmarshalErr != nil {
			h.logger.WarnContext(ctx, "failed to unmarshal dead letter entry",
				slog.String("error", unmarshalErr.Error()),
			)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// QueueLength returns the number of entries in the dead letter queue.
func (h *DeadLetterHandler) QueueLength(ctx context.Context) (int64, error) {
	return h.client.LLen(ctx, h.queueKey).Result()
}

// RegisterForAllCodes subscribes each handler to every evenement code.
func RegisterForAllCodes(bus *RedisEventBus, handlers ...Handler) error {
	for _, code := range evenement.Codes {
		for _, handler := range handlers {
			if err := bus.Subscribe(code, handler); err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", code, err)
			}
		}
	}
	return nil
}
