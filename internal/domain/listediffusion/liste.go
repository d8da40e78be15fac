package listediffusion

import (
	"context"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

type Beneficiaire struct {
	ID                    string
	DateAjout             time.Time
	EstDansLePortefeuille bool
}

// ListeDeDiffusion is a named group of jeunes a conseiller broadcasts messages to.
type ListeDeDiffusion struct {
	ID             string
	IDConseiller   string
	Titre          string
	DateDeCreation time.Time
	Beneficiaires  []Beneficiaire
}

// Creer builds a liste owned by idConseiller.
func Creer(id, idConseiller, titre string, jeunes []jeune.Jeune, now time.Time) *ListeDeDiffusion {
	l := &ListeDeDiffusion{
		ID:             id,
		IDConseiller:   idConseiller,
		Titre:          titre,
		DateDeCreation: now,
	}
	l.Beneficiaires = l.beneficiairesDe(jeunes, now)
	return l
}

// MettreAJour replaces the title and members, keeping the original DateAjout of members already present.
func (l *ListeDeDiffusion) MettreAJour(titre string, jeunes []jeune.Jeune, now time.Time) {
	l.Titre = titre
	l.Beneficiaires = l.beneficiairesDe(jeunes, now)
}

func (l *ListeDeDiffusion) beneficiairesDe(jeunes []jeune.Jeune, now time.Time) []Beneficiaire {
	ajouts := make(map[string]time.Time, len(l.Beneficiaires))
	for _, b := range l.Beneficiaires {
		ajouts[b.ID] = b.DateAjout
	}

	beneficiaires := make([]Beneficiaire, 0, len(jeunes))
	for i := range jeunes {
		dateAjout, dejaPresent := ajouts[jeunes[i].ID]
		if !dejaPresent {
			dateAjout = now
		}
		beneficiaires = append(beneficiaires, Beneficiaire{
			ID:                    jeunes[i].ID,
			DateAjout:             dateAjout,
			EstDansLePortefeuille: jeunes[i].EstSuiviPar(l.IDConseiller),
		})
	}
	return beneficiaires
}

// IDsBeneficiaires returns the ids of the members.
func (l *ListeDeDiffusion) IDsBeneficiaires() []string {
	ids := make([]string, 0, len(l.Beneficiaires))
	for _, b := range l.Beneficiaires {
		ids = append(ids, b.ID)
	}
	return ids
}

// Repository persists listes. Get returns nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, id string) (*ListeDeDiffusion, error)
	FindByConseiller(ctx context.Context, idConseiller string) ([]ListeDeDiffusion, error)
	Save(ctx context.Context, liste *ListeDeDiffusion) error
	Delete(ctx context.Context, id string) error
}
