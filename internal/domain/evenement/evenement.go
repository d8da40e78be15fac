package evenement

import (
	"context"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
)

// Code identifies an engagement event.
type Code string

const (
	CodeActionCreeeReferentiel      Code = "ACTION_CREEE_REFERENTIEL"
	CodeActionCreeeHorsReferentiel  Code = "ACTION_CREEE_HORS_REFERENTIEL"
	CodeActionCreeeSuggestion       Code = "ACTION_CREEE_SUGGESTION"
	CodeActionCreeeHorsSuggestion   Code = "ACTION_CREEE_HORS_SUGGESTION"
	CodeActionStatutModifie         Code = "ACTION_STATUT_MODIFIE"
	CodeActionSupprimee             Code = "ACTION_SUPPRIMEE"
	CodeActionListe                 Code = "ACTION_LISTE"
	CodeFavoriCree                  Code = "FAVORI_CREE"
	CodeFavoriCandidature           Code = "FAVORI_CANDIDATURE"
	CodeFavoriSupprime              Code = "FAVORI_SUPPRIME"
	CodeFavorisConsultes            Code = "FAVORIS_CONSULTES"
	CodeRechercheSauvegardee        Code = "RECHERCHE_SAUVEGARDEE"
	CodeRechercheSupprimee          Code = "RECHERCHE_SUPPRIMEE"
	CodeRendezVousCree              Code = "RDV_CREE"
	CodeRendezVousModifie           Code = "RDV_MODIFIE"
	CodeRendezVousSupprime          Code = "RDV_SUPPRIME"
	CodeAnimationCollectiveCreee    Code = "ANIMATION_COLLECTIVE_CREEE"
	CodeAnimationCollectiveModifiee Code = "ANIMATION_COLLECTIVE_MODIFIEE"
	CodeListeDiffusionCreee         Code = "LISTE_DIFFUSION_CREEE"
	CodeListeDiffusionModifiee      Code = "LISTE_DIFFUSION_MODIFIEE"
	CodeListeDiffusionSupprimee     Code = "LISTE_DIFFUSION_SUPPRIMEE"
	CodePieceJointeConseillerEnvoi  Code = "PIECE_JOINTE_CONSEILLER_ENVOI"
	CodePieceJointeTelechargee      Code = "PIECE_JOINTE_TELECHARGEE"
	CodePieceJointeSupprimee        Code = "PIECE_JOINTE_SUPPRIMEE"
	CodeSessionsMiloConsultees      Code = "SESSIONS_MILO_CONSULTEES"
)

// Codes lists every code a monitor can emit.
var Codes = []Code{
	CodeActionCreeeReferentiel,
	CodeActionCreeeHorsReferentiel,
	CodeActionCreeeSuggestion,
	CodeActionCreeeHorsSuggestion,
	CodeActionStatutModifie,
	CodeActionSupprimee,
	CodeActionListe,
	CodeFavoriCree,
	CodeFavoriCandidature,
	CodeFavoriSupprime,
	CodeFavorisConsultes,
	CodeRechercheSauvegardee,
	CodeRechercheSupprimee,
	CodeRendezVousCree,
	CodeRendezVousModifie,
	CodeRendezVousSupprime,
	CodeAnimationCollectiveCreee,
	CodeAnimationCollectiveModifiee,
	CodeListeDiffusionCreee,
	CodeListeDiffusionModifiee,
	CodeListeDiffusionSupprimee,
	CodePieceJointeConseillerEnvoi,
	CodePieceJointeTelechargee,
	CodePieceJointeSupprimee,
	CodeSessionsMiloConsultees,
}

// Emetteur describes who triggered the event.
type Emetteur struct {
	ID        string
	Type      authentification.Type
	Structure core.Structure
}

// Evenement is an engagement event used for analytics.
type Evenement struct {
	Code     Code
	Emetteur Emetteur
	Date     time.Time
}

// Nouveau builds the evenement emitted by utilisateur.
func Nouveau(code Code, utilisateur authentification.Utilisateur, date time.Time) Evenement {
	return Evenement{
		Code: code,
		Emetteur: Emetteur{
			ID:        utilisateur.ID,
			Type:      utilisateur.Type,
			Structure: utilisateur.Structure,
		},
		Date: date,
	}
}

// Publisher sends evenements to the analytics pipeline.
type Publisher interface {
	Publish(ctx context.Context, evenement Evenement) error
}

// Repository stores evenements once consumed.
type Repository interface {
	Save(ctx context.Context, evenement Evenement) error
}
