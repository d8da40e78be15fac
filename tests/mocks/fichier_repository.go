package mocks

import (
	"context"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/fichier"
)

type MockFichierRepository struct {
	store[fichier.Metadonnees]
}

func NewMockFichierRepository(fichiers ...fichier.Metadonnees) *MockFichierRepository {
	r := &MockFichierRepository{store: newStore[fichier.Metadonnees]()}
	for _, f := range fichiers {
		r.items[f.ID] = f
	}
	return r
}

func (r *MockFichierRepository) Get(_ context.Context, id string) (*fichier.Metadonnees, error) {
	f, ok, err := r.get("Get", id)
	if err != nil || !ok || f.EstSupprime() {
		return nil, err
	}
	return &f, nil
}

func (r *MockFichierRepository) Save(_ context.Context, f *fichier.Metadonnees) error {
	return r.put("Save", f.ID, *f)
}

func (r *MockFichierRepository) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.call("SoftDelete"); err != nil {
		return err
	}
	if f, ok := r.items[id]; ok {
		f.DateSuppression = &at
		r.items[id] = f
	}
	return nil
}

// Raw returns the stored metadata, soft-deleted or not.
func (r *MockFichierRepository) Raw(id string) (fichier.Metadonnees, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.items[id]
	return f, ok
}
