package action

import (
	"context"
	"slices"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

type Statut string

const (
	StatutPasCommencee Statut = "not_started"
	StatutEnCours      Statut = "in_progress"
	StatutTerminee     Statut = "done"
	StatutAnnulee      Statut = "canceled"
)

// Statuts lists every valid statut.
var Statuts = []Statut{StatutPasCommencee, StatutEnCours, StatutTerminee, StatutAnnulee}

type TypeCreateur string

const (
	TypeCreateurJeune      TypeCreateur = "jeune"
	TypeCreateurConseiller TypeCreateur = "conseiller"
)

type CodeQualification string

const (
	QualificationSante               CodeQualification = "SANTE"
	QualificationProjetProfessionnel CodeQualification = "PROJET_PROFESSIONNEL"
	QualificationLogement            CodeQualification = "LOGEMENT"
	QualificationCitoyennete         CodeQualification = "CITOYENNETE"
	QualificationEmploi              CodeQualification = "EMPLOI"
	QualificationCultureSportLoisirs CodeQualification = "CULTURE_SPORT_LOISIRS"
	QualificationFormation           CodeQualification = "FORMATION"
	QualificationNonQualifiable      CodeQualification = "NON_QUALIFIABLE"
)

// ActionsPredefinies are the titles conseillers pick from the referential.
var ActionsPredefinies = []string{
	"Identifier ses atouts et ses compétences",
	"Rechercher une formation",
	"Mettre à jour son CV",
	"Préparer un entretien d'embauche",
	"Rechercher des offres d'emploi",
	"S'inscrire à un atelier",
}

// VientDuReferentiel reports whether contenu is one of the predefined actions.
func VientDuReferentiel(contenu string) bool {
	return slices.Contains(ActionsPredefinies, contenu)
}

// Time of day an action falls due.
const (
	heureEcheance  = 9
	minuteEcheance = 30
)

type Createur struct {
	ID     string
	Type   TypeCreateur
	Nom    string
	Prenom string
}

type Qualification struct {
	Code                     CodeQualification
	Heures                   int
	CommentaireQualification string
}

// Action is a task a jeune commits to.
type Action struct {
	ID                        string
	Statut                    Statut
	Contenu                   string
	Description               string
	DateCreation              time.Time
	DateDerniereActualisation time.Time
	IDJeune                   string
	Createur                  Createur
	DateEcheance              time.Time
	DateFinReelle             *time.Time
	Rappel                    bool
	CodeQualification         CodeQualification
	Qualification             *Qualification
}

// NouvelleAction holds what is needed to build an Action.
type NouvelleAction struct {
	ID           string
	Contenu      string
	Commentaire  string
	Statut       Statut
	TypeCreateur TypeCreateur
	DateEcheance time.Time
	Rappel       *bool
	Code         CodeQualification
}

// New builds an action for j. The jeune must have a conseiller when the
// action is created by a conseiller.
func New(data NouvelleAction, j *jeune.Jeune, now time.Time) (*Action, *errs.DomainError) {
	statut := data.Statut
	if statut == "" {
		statut = StatutPasCommencee
	}

	var createur Createur
	if data.TypeCreateur == TypeCreateurJeune {
		createur = Createur{ID: j.ID, Type: TypeCreateurJeune, Nom: j.Nom, Prenom: j.Prenom}
	} else {
		if j.Conseiller == nil {
			return nil, errs.NonTraitable("Jeune", j.ID, errs.ReasonBeneficiaireSansConseiller)
		}
		createur = Createur{
			ID:     j.Conseiller.ID,
			Type:   TypeCreateurConseiller,
			Nom:    j.Conseiller.Nom,
			Prenom: j.Conseiller.Prenom,
		}
	}

	rappel := true
	if data.Rappel != nil {
		rappel = *data.Rappel
	}

	echeance := time.Date(
		data.DateEcheance.Year(), data.DateEcheance.Month(), data.DateEcheance.Day(),
		heureEcheance, minuteEcheance, 0, 0, data.DateEcheance.Location(),
	)

	a := &Action{
		ID:                        data.ID,
		Statut:                    statut,
		Contenu:                   data.Contenu,
		Description:               data.Commentaire,
		DateCreation:              now,
		DateDerniereActualisation: now,
		IDJeune:                   j.ID,
		Createur:                  createur,
		DateEcheance:              echeance,
		Rappel:                    rappel,
		CodeQualification:         data.Code,
	}
	if statut == StatutTerminee {
		a.DateFinReelle = &now
	}
	return a, nil
}

// EstQualifiee reports whether the action has been qualified; a qualified action is frozen.
func (a *Action) EstQualifiee() bool {
	return a.Qualification != nil
}

// ChangerStatut moves the action to statut and keeps DateFinReelle consistent.
func (a *Action) ChangerStatut(statut Statut, now time.Time) *errs.DomainError {
	if a.EstQualifiee() {
		return errs.NonTraitable("Action", a.ID, errs.ReasonActionDejaQualifiee)
	}

	switch {
	case statut == StatutTerminee:
		a.DateFinReelle = &now
	case a.Statut == StatutTerminee:
		a.DateFinReelle = nil
	}
	a.Statut = statut
	a.DateDerniereActualisation = now
	return nil
}

// DoitPlanifierUnRappel reports whether a reminder must be scheduled, i.e. the
// action is open and due strictly more than three days after now.
func (a *Action) DoitPlanifierUnRappel(now time.Time) bool {
	if !a.Rappel || a.Statut == StatutAnnulee || a.Statut == StatutTerminee {
		return false
	}
	limite := startOfDay(now.AddDate(0, 0, 3))
	return startOfDay(a.DateEcheance).After(limite)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ConseillerEtJeune is the ownership fact of an action.
type ConseillerEtJeune struct {
	IDConseiller string
	IDJeune      string
}

// Repository persists actions. Get and GetConseillerEtJeune return nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, id string) (*Action, error)
	GetConseillerEtJeune(ctx context.Context, id string) (*ConseillerEtJeune, error)
	FindByJeune(ctx context.Context, idJeune string) ([]Action, error)
	Save(ctx context.Context, action *Action) error
	Delete(ctx context.Context, id string) error
}
