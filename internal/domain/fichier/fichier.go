package fichier

import (
	"context"
	"slices"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// TailleMax is the largest accepted upload, in bytes.
const TailleMax = 5 * 1024 * 1024

// MimeTypesAutorises lists the accepted content types.
var MimeTypesAutorises = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
}

// Metadonnees describes a file shared between a conseiller and jeunes.
// The content itself lives in object storage.
type Metadonnees struct {
	ID                   string
	IDsJeunes            []string
	IDsListesDeDiffusion []string
	IDCreateur           string
	TypeCreateur         authentification.Type
	Nom                  string
	MimeType             string
	Taille               int64
	DateCreation         time.Time
	DateSuppression      *time.Time
}

// EstPartageAvec reports whether idJeune is one of the recipients.
func (m *Metadonnees) EstPartageAvec(idJeune string) bool {
	return slices.Contains(m.IDsJeunes, idJeune)
}

func (m *Metadonnees) EstSupprime() bool {
	return m.DateSuppression != nil
}

// Repository persists metadata. Get returns nil, nil when absent or soft-deleted.
type Repository interface {
	Get(ctx context.Context, id string) (*Metadonnees, error)
	Save(ctx context.Context, metadonnees *Metadonnees) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
