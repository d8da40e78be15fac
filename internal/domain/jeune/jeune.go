package jeune

import (
	"context"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/core"
)

// ConseillerDuJeune is the conseiller currently following a jeune.
type ConseillerDuJeune struct {
	ID       string
	Prenom   string
	Nom      string
	Email    string
	IDAgence string
}

// ConseillerInitial is the conseiller a jeune was transferred from.
type ConseillerInitial struct {
	ID string
}

type Preferences struct {
	PartageFavoris bool
}

// Jeune is a beneficiary of the accompaniment.
type Jeune struct {
	ID                string
	Prenom            string
	Nom               string
	Email             string
	Structure         core.Structure
	IsActivated       bool
	Conseiller        *ConseillerDuJeune
	ConseillerInitial *ConseillerInitial
	Preferences       Preferences
	IDPartenaire      string
	IDStructureMilo   string
	DateCreation      time.Time
}

// EstSuiviPar reports whether idConseiller is the current conseiller of the jeune.
func (j *Jeune) EstSuiviPar(idConseiller string) bool {
	return j.Conseiller != nil && j.Conseiller.ID == idConseiller
}

// EstSuiviOuTransferePar also accepts the conseiller the jeune was transferred from.
func (j *Jeune) EstSuiviOuTransferePar(idConseiller string) bool {
	if j.EstSuiviPar(idConseiller) {
		return true
	}
	return j.ConseillerInitial != nil && j.ConseillerInitial.ID == idConseiller
}

// IDAgenceDuConseiller returns the agence of the current conseiller, empty when unknown.
func (j *Jeune) IDAgenceDuConseiller() string {
	if j.Conseiller == nil {
		return ""
	}
	return j.Conseiller.IDAgence
}

// Repository persists jeunes. Get returns nil, nil when the jeune does not exist.
type Repository interface {
	Get(ctx context.Context, id string) (*Jeune, error)
	FindAll(ctx context.Context, ids []string) ([]Jeune, error)
	FindAllJeunesByIdsAndConseiller(ctx context.Context, ids []string, idConseiller string) ([]Jeune, error)
	FindByStructureMilo(ctx context.Context, idStructureMilo string) ([]Jeune, error)
	Save(ctx context.Context, jeune *Jeune) error
}
