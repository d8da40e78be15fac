package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/agence"
	"github.com/lllypuk/passemploi/internal/domain/core"
)

type MockAgenceRepository struct {
	store[agence.Agence]
}

func NewMockAgenceRepository(agences ...agence.Agence) *MockAgenceRepository {
	r := &MockAgenceRepository{store: newStore[agence.Agence]()}
	for _, a := range agences {
		r.items[a.ID] = a
	}
	return r
}

func (r *MockAgenceRepository) Get(_ context.Context, id string, structure core.Structure) (*agence.Agence, error) {
	a, ok, err := r.get("Get", id)
	if err != nil || !ok || a.Structure != structure {
		return nil, err
	}
	return &a, nil
}

func (r *MockAgenceRepository) Save(_ context.Context, a *agence.Agence) error {
	return r.put("Save", a.ID, *a)
}
