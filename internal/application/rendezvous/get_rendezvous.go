package rendezvous

import (
	"context"
	"fmt"
	"sort"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	rdvdomain "github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// GetDetailRendezVousHandler reads one rendez-vous. A jeune needs to take part
// in it or to belong to the agence of an animation collective.
type GetDetailRendezVousHandler struct {
	rendezVous rdvdomain.Repository
	authorizer RendezVousAuthorizer
	agence     RendezVousAgenceAuthorizer
}

func NewGetDetailRendezVousHandler(
	rendezVous rdvdomain.Repository,
	rendezVousAuthorizer RendezVousAuthorizer,
	agenceAuthorizer RendezVousAgenceAuthorizer,
) *GetDetailRendezVousHandler {
	return &GetDetailRendezVousHandler{
		rendezVous: rendezVous,
		authorizer: rendezVousAuthorizer,
		agence:     agenceAuthorizer,
	}
}

func (h *GetDetailRendezVousHandler) Authorize(
	ctx context.Context,
	q GetDetailRendezVousQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstConseiller(u.Type) {
		return h.agence.AutoriserConseillerMiloPourUnRdvDeSonAgenceOuAvecUnJeuneDansLeRdv(ctx, q.IDRendezVous, u)
	}
	return h.authorizer.AutoriserPourUnRendezVous(ctx, q.IDRendezVous, u)
}

func (h *GetDetailRendezVousHandler) Handle(
	ctx context.Context,
	q GetDetailRendezVousQuery,
	_ authentification.Utilisateur,
) (appcore.Result[rdvdomain.RendezVous], error) {
	rdv, err := h.rendezVous.Get(ctx, q.IDRendezVous)
	if err != nil {
		return appcore.Result[rdvdomain.RendezVous]{}, fmt.Errorf("get rendez-vous: %w", err)
	}
	if rdv == nil {
		return appcore.Failure[rdvdomain.RendezVous](errs.NotFound("RendezVous", q.IDRendezVous)), nil
	}
	return appcore.Success(*rdv), nil
}

type GetAnimationsCollectivesHandler struct {
	rendezVous rdvdomain.Repository
	agence     EtablissementAuthorizer
}

func NewGetAnimationsCollectivesHandler(
	rendezVous rdvdomain.Repository,
	agenceAuthorizer EtablissementAuthorizer,
) *GetAnimationsCollectivesHandler {
	return &GetAnimationsCollectivesHandler{rendezVous: rendezVous, agence: agenceAuthorizer}
}

// Authorize restricts the listing to conseillers of the agence.
func (h *GetAnimationsCollectivesHandler) Authorize(
	ctx context.Context,
	q GetAnimationsCollectivesQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.agence.AutoriserConseillerPourUneAgence(ctx, q.IDAgence, u)
}

func (h *GetAnimationsCollectivesHandler) Handle(
	ctx context.Context,
	q GetAnimationsCollectivesQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]rdvdomain.RendezVous], error) {
	animations, err := h.rendezVous.FindAnimationsCollectivesByAgence(ctx, q.IDAgence)
	if err != nil {
		return appcore.Result[[]rdvdomain.RendezVous]{}, fmt.Errorf("find animations collectives: %w", err)
	}
	sort.Slice(animations, func(i, j int) bool { return animations[i].Date.Before(animations[j].Date) })
	return appcore.Success(animations), nil
}
