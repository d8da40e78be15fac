package mocks

import (
	"context"
	"slices"

	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

// MockJeuneRepository implements jeune.Repository in memory.
type MockJeuneRepository struct {
	store[jeune.Jeune]
}

func NewMockJeuneRepository(jeunes ...jeune.Jeune) *MockJeuneRepository {
	r := &MockJeuneRepository{store: newStore[jeune.Jeune]()}
	for _, j := range jeunes {
		r.items[j.ID] = j
	}
	return r
}

func (r *MockJeuneRepository) Get(_ context.Context, id string) (*jeune.Jeune, error) {
	j, ok, err := r.get("Get", id)
	if err != nil || !ok {
		return nil, err
	}
	return &j, nil
}

func (r *MockJeuneRepository) FindAll(_ context.Context, ids []string) ([]jeune.Jeune, error) {
	return r.filter("FindAll", func(j jeune.Jeune) bool { return slices.Contains(ids, j.ID) })
}

func (r *MockJeuneRepository) FindAllJeunesByIdsAndConseiller(
	_ context.Context,
	ids []string,
	idConseiller string,
) ([]jeune.Jeune, error) {
	return r.filter("FindAllJeunesByIdsAndConseiller", func(j jeune.Jeune) bool {
		return slices.Contains(ids, j.ID) && j.EstSuiviPar(idConseiller)
	})
}

func (r *MockJeuneRepository) FindByStructureMilo(_ context.Context, idStructureMilo string) ([]jeune.Jeune, error) {
	return r.filter("FindByStructureMilo", func(j jeune.Jeune) bool {
		return j.IDStructureMilo == idStructureMilo
	})
}

func (r *MockJeuneRepository) Save(_ context.Context, j *jeune.Jeune) error {
	return r.put("Save", j.ID, *j)
}
