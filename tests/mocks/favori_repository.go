package mocks

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/favori"
)

type MockFavoriRepository struct {
	store[favori.Favori]
}

func favoriKey(idBeneficiaire, idOffre string) string {
	return idBeneficiaire + "/" + idOffre
}

func NewMockFavoriRepository(favoris ...favori.Favori) *MockFavoriRepository {
	r := &MockFavoriRepository{store: newStore[favori.Favori]()}
	for _, f := range favoris {
		r.items[favoriKey(f.IDBeneficiaire, f.IDOffre)] = f
	}
	return r
}

func (r *MockFavoriRepository) Get(_ context.Context, idBeneficiaire, idOffre string) (*favori.Favori, error) {
	f, ok, err := r.get("Get", favoriKey(idBeneficiaire, idOffre))
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func (r *MockFavoriRepository) FindByBeneficiaire(_ context.Context, idBeneficiaire string) ([]favori.Favori, error) {
	return r.filter("FindByBeneficiaire", func(f favori.Favori) bool { return f.IDBeneficiaire == idBeneficiaire })
}

func (r *MockFavoriRepository) Save(_ context.Context, f *favori.Favori) error {
	return r.put("Save", favoriKey(f.IDBeneficiaire, f.IDOffre), *f)
}

func (r *MockFavoriRepository) Delete(_ context.Context, idBeneficiaire, idOffre string) error {
	return r.remove("Delete", favoriKey(idBeneficiaire, idOffre))
}
