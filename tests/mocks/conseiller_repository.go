package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/conseiller"
)

// MockConseillerRepository implements conseiller.Repository in memory.
type MockConseillerRepository struct {
	store[conseiller.Conseiller]
}

func NewMockConseillerRepository(conseillers ...conseiller.Conseiller) *MockConseillerRepository {
	r := &MockConseillerRepository{store: newStore[conseiller.Conseiller]()}
	for _, c := range conseillers {
		r.items[c.ID] = c
	}
	return r
}

func (r *MockConseillerRepository) Get(_ context.Context, id string) (*conseiller.Conseiller, error) {
	c, ok, err := r.get("Get", id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *MockConseillerRepository) GetByIDAuthentification(
	_ context.Context,
	idAuthentification string,
) (*conseiller.Conseiller, error) {
	found, err := r.filter("GetByIDAuthentification", func(c conseiller.Conseiller) bool {
		return c.IDAuthentification == idAuthentification
	})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

func (r *MockConseillerRepository) FindByAgence(_ context.Context, idAgence string) ([]conseiller.Conseiller, error) {
	return r.filter("FindByAgence", func(c conseiller.Conseiller) bool { return c.IDAgence() == idAgence })
}

func (r *MockConseillerRepository) Save(_ context.Context, c *conseiller.Conseiller) error {
	return r.put("Save", c.ID, *c)
}
