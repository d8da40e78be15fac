package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/recherche"
)

type MockRechercheRepository struct {
	store[recherche.Recherche]
}

func NewMockRechercheRepository(recherches ...recherche.Recherche) *MockRechercheRepository {
	r := &MockRechercheRepository{store: newStore[recherche.Recherche]()}
	for _, rech := range recherches {
		r.items[rech.ID] = rech
	}
	return r
}

func (r *MockRechercheRepository) Get(_ context.Context, id string) (*recherche.Recherche, error) {
	rech, ok, err := r.get("Get", id)
	if err != nil || !ok {
		return nil, err
	}
	return &rech, nil
}

func (r *MockRechercheRepository) FindByJeune(_ context.Context, idJeune string) ([]recherche.Recherche, error) {
	return r.filter("FindByJeune", func(rech recherche.Recherche) bool { return rech.IDJeune == idJeune })
}

func (r *MockRechercheRepository) ExisteRecherche(_ context.Context, idJeune, idRecherche string) (bool, error) {
	rech, ok, err := r.get("ExisteRecherche", idRecherche)
	if err != nil {
		return false, err
	}
	return ok && rech.IDJeune == idJeune, nil
}

func (r *MockRechercheRepository) Save(_ context.Context, rech *recherche.Recherche) error {
	return r.put("Save", rech.ID, *rech)
}

func (r *MockRechercheRepository) Delete(_ context.Context, id string) error {
	return r.remove("Delete", id)
}
