package rendezvous

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

type CodeType string

const (
	TypeActiviteExterieures           CodeType = "ACTIVITE_EXTERIEURES"
	TypeAtelier                       CodeType = "ATELIER"
	TypeEntretienIndividuelConseiller CodeType = "ENTRETIEN_INDIVIDUEL_CONSEILLER"
	TypeEntretienPartenaire           CodeType = "ENTRETIEN_PARTENAIRE"
	TypeInformationCollective         CodeType = "INFORMATION_COLLECTIVE"
	TypeVisite                        CodeType = "VISITE"
	TypePrestation                    CodeType = "PRESTATION"
	TypeAutre                         CodeType = "AUTRE"
)

var Types = []CodeType{
	TypeActiviteExterieures,
	TypeAtelier,
	TypeEntretienIndividuelConseiller,
	TypeEntretienPartenaire,
	TypeInformationCollective,
	TypeVisite,
	TypePrestation,
	TypeAutre,
}

const titreParDefaut = "Rendez-vous conseiller"

// EstUnTypeAnimationCollective reports whether t is a group session type.
func EstUnTypeAnimationCollective(t CodeType) bool {
	return t == TypeAtelier || t == TypeInformationCollective
}

// JeuneDuRendezVous is the projection of a jeune stored with a rendez-vous.
type JeuneDuRendezVous struct {
	ID         string
	Prenom     string
	Nom        string
	Email      string
	Conseiller *jeune.ConseillerDuJeune
}

type Createur struct {
	ID     string
	Nom    string
	Prenom string
}

// RendezVous is an appointment between a conseiller and one or more jeunes.
type RendezVous struct {
	ID                 string
	Titre              string
	SousTitre          string
	Commentaire        string
	Modalite           string
	Date               time.Time
	Duree              int
	Jeunes             []JeuneDuRendezVous
	Type               CodeType
	Precision          string
	Adresse            string
	Organisme          string
	PresenceConseiller bool
	Invitation         bool
	Createur           Createur
	IDAgence           string
	DateCloture        *time.Time
}

func (r *RendezVous) EstUneAnimationCollective() bool {
	return EstUnTypeAnimationCollective(r.Type)
}

func (r *RendezVous) EstCloture() bool {
	return r.DateCloture != nil
}

// ContientJeune reports whether idJeune takes part in the rendez-vous.
func (r *RendezVous) ContientJeune(idJeune string) bool {
	return slices.ContainsFunc(r.Jeunes, func(j JeuneDuRendezVous) bool { return j.ID == idJeune })
}

// AUnJeuneSuiviPar reports whether one of the jeunes is followed by idConseiller.
func (r *RendezVous) AUnJeuneSuiviPar(idConseiller string) bool {
	return slices.ContainsFunc(r.Jeunes, func(j JeuneDuRendezVous) bool {
		return j.Conseiller != nil && j.Conseiller.ID == idConseiller
	})
}

// AUnJeuneDeLAgence reports whether one of the jeunes is followed in idAgence.
func (r *RendezVous) AUnJeuneDeLAgence(idAgence string) bool {
	if idAgence == "" {
		return false
	}
	return slices.ContainsFunc(r.Jeunes, func(j JeuneDuRendezVous) bool {
		return j.Conseiller != nil && j.Conseiller.IDAgence == idAgence
	})
}

// InfosACreer is the input of Creer.
type InfosACreer struct {
	ID                 string
	Commentaire        string
	Date               time.Time
	Duree              int
	Modalite           string
	Titre              string
	Type               CodeType
	Precision          string
	Adresse            string
	Organisme          string
	PresenceConseiller *bool
	Invitation         bool
}

// Creer builds a rendez-vous of c with jeunes, who must all be followed by c.
func Creer(infos InfosACreer, jeunes []jeune.Jeune, c *conseiller.Conseiller) (*RendezVous, *errs.DomainError) {
	typeRdv := infos.Type
	if typeRdv == "" {
		typeRdv = TypeEntretienIndividuelConseiller
	}
	if EstUnTypeAnimationCollective(typeRdv) && c.IDAgence() == "" {
		return nil, errs.BadCommand(fmt.Sprintf("Le conseiller %s n'a pas renseigné son agence", c.ID))
	}

	participants := make([]JeuneDuRendezVous, 0, len(jeunes))
	for i := range jeunes {
		j := &jeunes[i]
		if !j.EstSuiviPar(c.ID) {
			return nil, errs.BadCommand(fmt.Sprintf("Le conseiller %s n'est pas lié au jeune %s", c.ID, j.ID))
		}
		participants = append(participants, ProjeterJeune(j))
	}

	titre := infos.Titre
	if titre == "" {
		titre = titreParDefaut
	}
	presence := true
	if infos.PresenceConseiller != nil {
		presence = *infos.PresenceConseiller
	}

	rdv := &RendezVous{
		ID:                 infos.ID,
		Titre:              titre,
		SousTitre:          "avec " + c.Prenom,
		Commentaire:        infos.Commentaire,
		Modalite:           infos.Modalite,
		Date:               infos.Date,
		Duree:              infos.Duree,
		Jeunes:             participants,
		Type:               typeRdv,
		Precision:          infos.Precision,
		Adresse:            infos.Adresse,
		Organisme:          infos.Organisme,
		PresenceConseiller: presence,
		Invitation:         infos.Invitation,
		Createur:           Createur{ID: c.ID, Nom: c.Nom, Prenom: c.Prenom},
	}
	if EstUnTypeAnimationCollective(typeRdv) {
		rdv.IDAgence = c.IDAgence()
	}
	return rdv, nil
}

// InfosAMettreAJour is the input of MettreAJour.
type InfosAMettreAJour struct {
	Commentaire        string
	Date               time.Time
	Duree              int
	Modalite           string
	Jeunes             []JeuneDuRendezVous
	Adresse            string
	Organisme          string
	PresenceConseiller bool
}

// MettreAJour applies infos to the rendez-vous.
func (r *RendezVous) MettreAJour(infos InfosAMettreAJour) *errs.DomainError {
	if r.EstUneAnimationCollective() {
		if r.EstCloture() {
			return errs.BadCommand("Une Animation Collective cloturée ne peut plus etre modifiée.")
		}
	} else {
		if len(infos.Jeunes) == 0 {
			return errs.BadCommand("Un bénéficiaire minimum est requis.")
		}
		if !infos.PresenceConseiller && r.Type == TypeEntretienIndividuelConseiller {
			return errs.BadCommand("Le champ presenceConseiller ne peut être modifié pour un rendez-vous Conseiller.")
		}
	}

	r.Commentaire = infos.Commentaire
	r.Date = infos.Date
	r.Duree = infos.Duree
	r.Modalite = infos.Modalite
	r.Jeunes = infos.Jeunes
	r.Adresse = infos.Adresse
	r.Organisme = infos.Organisme
	r.PresenceConseiller = infos.PresenceConseiller
	return nil
}

// ProjeterJeune keeps what a rendez-vous stores about a jeune.
func ProjeterJeune(j *jeune.Jeune) JeuneDuRendezVous {
	return JeuneDuRendezVous{
		ID:         j.ID,
		Prenom:     j.Prenom,
		Nom:        j.Nom,
		Email:      j.Email,
		Conseiller: j.Conseiller,
	}
}

// Repository persists rendez-vous. Get returns nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, id string) (*RendezVous, error)
	FindByJeune(ctx context.Context, idJeune string) ([]RendezVous, error)
	FindAnimationsCollectivesByAgence(ctx context.Context, idAgence string) ([]RendezVous, error)
	Save(ctx context.Context, rdv *RendezVous) error
	Delete(ctx context.Context, id string) error
}
