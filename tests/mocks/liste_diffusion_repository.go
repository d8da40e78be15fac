package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
)

type MockListeDeDiffusionRepository struct {
	store[listediffusion.ListeDeDiffusion]
}

func NewMockListeDeDiffusionRepository(listes ...listediffusion.ListeDeDiffusion) *MockListeDeDiffusionRepository {
	r := &MockListeDeDiffusionRepository{store: newStore[listediffusion.ListeDeDiffusion]()}
	for _, l := range listes {
		r.items[l.ID] = l
	}
	return r
}

func (r *MockListeDeDiffusionRepository) Get(_ context.Context, id string) (*listediffusion.ListeDeDiffusion, error) {
	l, ok, err := r.get("Get", id)
	if err != nil || !ok {
		return nil, err
	}
	return &l, nil
}

func (r *MockListeDeDiffusionRepository) FindByConseiller(
	_ context.Context,
	idConseiller string,
) ([]listediffusion.ListeDeDiffusion, error) {
	return r.filter("FindByConseiller", func(l listediffusion.ListeDeDiffusion) bool {
		return l.IDConseiller == idConseiller
	})
}

func (r *MockListeDeDiffusionRepository) Save(_ context.Context, l *listediffusion.ListeDeDiffusion) error {
	return r.put("Save", l.ID, *l)
}

func (r *MockListeDeDiffusionRepository) Delete(_ context.Context, id string) error {
	return r.remove("Delete", id)
}
