package mocks

import (
	"context"
	"sync"

	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

// MockEvenementPublisher records published evenements and implements
// evenement.Publisher and evenement.Repository.
type MockEvenementPublisher struct {
	mu        sync.RWMutex
	published []evenement.Evenement
	err       error
}

func NewMockEvenementPublisher() *MockEvenementPublisher {
	return &MockEvenementPublisher{}
}

func (p *MockEvenementPublisher) Publish(_ context.Context, e evenement.Evenement) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}

func (p *MockEvenementPublisher) Save(ctx context.Context, e evenement.Evenement) error {
	return p.Publish(ctx, e)
}

// FailWith makes Publish return err, or ErrInjected when err is nil.
func (p *MockEvenementPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	p.err = err
}

// Published returns a copy of the published evenements.
func (p *MockEvenementPublisher) Published() []evenement.Evenement {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]evenement.Evenement{}, p.published...)
}

// Codes returns the codes of the published evenements, in order.
func (p *MockEvenementPublisher) Codes() []evenement.Code {
	p.mu.RLock()
	defer p.mu.RUnlock()

	codes := make([]evenement.Code, 0, len(p.published))
	for _, e := range p.published {
		codes = append(codes, e.Code)
	}
	return codes
}
