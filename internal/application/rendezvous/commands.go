package rendezvous

import (
	"time"

	rdvdomain "github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// CreateRendezVousCommand plans a rendez-vous of a conseiller with some of his jeunes.
type CreateRendezVousCommand struct {
	IDConseiller       string
	IDsJeunes          []string
	Commentaire        string
	Date               time.Time
	Duree              int
	Modalite           string
	Titre              string
	Type               rdvdomain.CodeType
	Precision          string
	Adresse            string
	Organisme          string
	PresenceConseiller *bool
	Invitation         bool
}

type UpdateRendezVousCommand struct {
	IDRendezVous       string
	IDsJeunes          []string
	Commentaire        string
	Date               time.Time
	Duree              int
	Modalite           string
	Adresse            string
	Organisme          string
	PresenceConseiller bool
}

type DeleteRendezVousCommand struct {
	IDRendezVous string
}

// Periode restricts GetRendezVousJeune to past or future rendez-vous.
type Periode string

const (
	PeriodeToutes Periode = ""
	PeriodePasses Periode = "PASSES"
	PeriodeFuturs Periode = "FUTURS"
)

type GetRendezVousJeuneQuery struct {
	IDJeune string
	Periode Periode
}

type GetDetailRendezVousQuery struct {
	IDRendezVous string
}

// GetAnimationsCollectivesQuery lists the ateliers and informations collectives of an agence.
type GetAnimationsCollectivesQuery struct {
	IDAgence string
}
