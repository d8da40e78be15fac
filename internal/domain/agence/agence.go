package agence

import (
	"context"

	"github.com/lllypuk/passemploi/internal/domain/core"
)

// Agence is a local office of a structure.
type Agence struct {
	ID        string
	Nom       string
	Structure core.Structure
}

// Repository looks agences up within a structure; Get returns nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, id string, structure core.Structure) (*Agence, error)
	Save(ctx context.Context, agence *Agence) error
}
