package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

type MockRendezVousRepository struct {
	store[rendezvous.RendezVous]
}

func NewMockRendezVousRepository(rdvs ...rendezvous.RendezVous) *MockRendezVousRepository {
	r := &MockRendezVousRepository{store: newStore[rendezvous.RendezVous]()}
	for _, rdv := range rdvs {
		r.items[rdv.ID] = rdv
	}
	return r
}

func (r *MockRendezVousRepository) Get(_ context.Context, id string) (*rendezvous.RendezVous, error) {
	rdv, ok, err := r.get("Get", id)
	if err != nil || !ok {
		return nil, err
	}
	return &rdv, nil
}

func (r *MockRendezVousRepository) FindByJeune(_ context.Context, idJeune string) ([]rendezvous.RendezVous, error) {
	return r.filter("FindByJeune", func(rdv rendezvous.RendezVous) bool { return rdv.ContientJeune(idJeune) })
}

func (r *MockRendezVousRepository) FindAnimationsCollectivesByAgence(
	_ context.Context,
	idAgence string,
) ([]rendezvous.RendezVous, error) {
	return r.filter("FindAnimationsCollectivesByAgence", func(rdv rendezvous.RendezVous) bool {
		return rdv.IDAgence == idAgence && rdv.EstUneAnimationCollective()
	})
}

func (r *MockRendezVousRepository) Save(_ context.Context, rdv *rendezvous.RendezVous) error {
	return r.put("Save", rdv.ID, *rdv)
}

func (r *MockRendezVousRepository) Delete(_ context.Context, id string) error {
	return r.remove("Delete", id)
}
