package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

// MockActionRepository implements action.Repository in memory. Ownership
// facts are resolved through the jeunes repository, like the Mongo lookup.
type MockActionRepository struct {
	store[action.Action]

	jeunes *MockJeuneRepository
}

func NewMockActionRepository(jeunes *MockJeuneRepository, actions ...action.Action) *MockActionRepository {
	r := &MockActionRepository{store: newStore[action.Action](), jeunes: jeunes}
	for _, a := range actions {
		r.items[a.ID] = a
	}
	return r
}

func (r *MockActionRepository) Get(_ context.Context, id string) (*action.Action, error) {
	a, ok, err := r.get("Get", id)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

func (r *MockActionRepository) GetConseillerEtJeune(ctx context.Context, id string) (*action.ConseillerEtJeune, error) {
	a, ok, err := r.get("GetConseillerEtJeune", id)
	if err != nil || !ok {
		return nil, err
	}

	owners := &action.ConseillerEtJeune{IDJeune: a.IDJeune}
	var j *jeune.Jeune
	if r.jeunes != nil {
		if j, err = r.jeunes.Get(ctx, a.IDJeune); err != nil {
			return nil, err
		}
	}
	if j != nil && j.Conseiller != nil {
		owners.IDConseiller = j.Conseiller.ID
	}
	return owners, nil
}

func (r *MockActionRepository) FindByJeune(_ context.Context, idJeune string) ([]action.Action, error) {
	return r.filter("FindByJeune", func(a action.Action) bool { return a.IDJeune == idJeune })
}

func (r *MockActionRepository) Save(_ context.Context, a *action.Action) error {
	return r.put("Save", a.ID, *a)
}

func (r *MockActionRepository) Delete(_ context.Context, id string) error {
	return r.remove("Delete", id)
}
