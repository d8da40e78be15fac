package action

import (
	"time"

	actiondomain "github.com/lllypuk/passemploi/internal/domain/action"
)

// CreateActionCommand creates an action for a jeune, by the jeune himself or his conseiller.
type CreateActionCommand struct {
	IDJeune           string
	Contenu           string
	Commentaire       string
	IDCreateur        string
	TypeCreateur      actiondomain.TypeCreateur
	Statut            actiondomain.Statut // optional, defaults to not_started
	DateEcheance      time.Time
	Rappel            *bool // optional, defaults to true
	CodeQualification actiondomain.CodeQualification
}

type UpdateStatutActionCommand struct {
	IDAction string
	Statut   actiondomain.Statut
}

type DeleteActionCommand struct {
	IDAction string
}

// GetActionsJeuneQuery pages through the actions of a jeune.
type GetActionsJeuneQuery struct {
	IDJeune string
	Page    int // 1-based, 0 means first page
	Statuts []actiondomain.Statut
}

// ActionsJeune is one page of actions plus counters.
type ActionsJeune struct {
	Actions     []actiondomain.Action
	Metadonnees Metadonnees
}

type Metadonnees struct {
	NombreTotal          int
	NombreFiltrees       int
	NombreActionsParPage int
}

type GetDetailActionQuery struct {
	IDAction string
}
