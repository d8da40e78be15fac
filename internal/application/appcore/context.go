package appcore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// Context keys
type contextKey string

const (
	utilisateurKey   contextKey = "utilisateur"
	correlationIDKey contextKey = "correlationID"
)

var (
	ErrUtilisateurNotFound   = errors.New("utilisateur not found in context")
	ErrCorrelationIDNotFound = errors.New("correlation ID not found in context")
)

// GetUtilisateur extracts the authenticated principal from the context.
func GetUtilisateur(ctx context.Context) (authentification.Utilisateur, error) {
	utilisateur, ok := ctx.Value(utilisateurKey).(authentification.Utilisateur)
	if !ok {
		return authentification.Utilisateur{}, ErrUtilisateurNotFound
	}
	return utilisateur, nil
}

// WithUtilisateur stores the authenticated principal in the context.
func WithUtilisateur(ctx context.Context, utilisateur authentification.Utilisateur) context.Context {
	return context.WithValue(ctx, utilisateurKey, utilisateur)
}

// GetCorrelationID extracts the correlation ID from the context
func GetCorrelationID(ctx context.Context) (string, error) {
	correlationID, ok := ctx.Value(correlationIDKey).(string)
	if !ok {
		return "", ErrCorrelationIDNotFound
	}
	return correlationID, nil
}

// WithCorrelationID adds the correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// correlationIDAttr is the log attribute carrying the correlation ID of ctx,
// empty outside a request.
func correlationIDAttr(ctx context.Context) slog.Attr {
	id, _ := GetCorrelationID(ctx)
	return slog.String("correlation_id", id)
}
