package conseiller

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/core"
)

type Agence struct {
	ID  string
	Nom string
}

// Conseiller is a counselor following jeunes.
type Conseiller struct {
	ID                 string
	IDAuthentification string
	Prenom             string
	Nom                string
	Email              string
	Structure          core.Structure
	Agence             *Agence
	IDStructureMilo    string
}

// IDAgence returns the agence id, empty when the conseiller has none.
func (c *Conseiller) IDAgence() string {
	if c.Agence == nil {
		return ""
	}
	return c.Agence.ID
}

// Repository persists conseillers. Getters return nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, id string) (*Conseiller, error)
	GetByIDAuthentification(ctx context.Context, idAuthentification string) (*Conseiller, error)
	FindByAgence(ctx context.Context, idAgence string) ([]Conseiller, error)
	Save(ctx context.Context, conseiller *Conseiller) error
}
