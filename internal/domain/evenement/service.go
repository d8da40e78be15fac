package evenement

import (
	"context"
	"fmt"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// Service emits engagement evenements. Handlers call it from their monitor step.
type Service struct {
	publisher Publisher
	now       func() time.Time
}

// NewService creates a Service publishing through publisher.
func NewService(publisher Publisher) *Service {
	return &Service{publisher: publisher, now: time.Now}
}

// Creer publishes the evenement code emitted by utilisateur.
func (s *Service) Creer(ctx context.Context, code Code, utilisateur authentification.Utilisateur) error {
	if err := s.publisher.Publish(ctx, Nouveau(code, utilisateur, s.now())); err != nil {
		return fmt.Errorf("publish evenement %s: %w", code, err)
	}
	return nil
}
