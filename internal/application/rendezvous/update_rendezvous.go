package rendezvous

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	rdvdomain "github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

type UpdateRendezVousHandler struct {
	rendezVous rdvdomain.Repository
	jeunes     JeunesFinder
	authorizer RendezVousAuthorizer
	evenements *evenement.Service
}

func NewUpdateRendezVousHandler(
	rendezVous rdvdomain.Repository,
	jeunes JeunesFinder,
	authorizer RendezVousAuthorizer,
	evenements *evenement.Service,
) *UpdateRendezVousHandler {
	return &UpdateRendezVousHandler{rendezVous: rendezVous, jeunes: jeunes, authorizer: authorizer, evenements: evenements}
}

func (h *UpdateRendezVousHandler) Authorize(
	ctx context.Context,
	cmd UpdateRendezVousCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return autoriserConseillerPourUnRendezVous(ctx, h.authorizer, cmd.IDRendezVous, u)
}

func (h *UpdateRendezVousHandler) GetAggregate(
	ctx context.Context,
	cmd UpdateRendezVousCommand,
) (*rdvdomain.RendezVous, error) {
	return h.rendezVous.Get(ctx, cmd.IDRendezVous)
}

func (h *UpdateRendezVousHandler) Handle(
	ctx context.Context,
	cmd UpdateRendezVousCommand,
	_ authentification.Utilisateur,
	rdv *rdvdomain.RendezVous,
) (appcore.Result[appcore.Unit], error) {
	if invalid := appcore.FirstInvalid(
		appcore.ValidateDateNotZero("date", cmd.Date),
		appcore.ValidatePositive("duree", cmd.Duree),
	); invalid != nil {
		return appcore.Failure[appcore.Unit](invalid), nil
	}
	if rdv == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("RendezVous", cmd.IDRendezVous)), nil
	}

	jeunes, notFound, err := chargerJeunes(ctx, h.jeunes, cmd.IDsJeunes)
	if err != nil {
		return appcore.Result[appcore.Unit]{}, err
	}
	if notFound != nil {
		return appcore.Failure[appcore.Unit](notFound), nil
	}
	participants := make([]rdvdomain.JeuneDuRendezVous, 0, len(jeunes))
	for i := range jeunes {
		participants = append(participants, rdvdomain.ProjeterJeune(&jeunes[i]))
	}

	if domainErr := rdv.MettreAJour(rdvdomain.InfosAMettreAJour{
		Commentaire:        cmd.Commentaire,
		Date:               cmd.Date,
		Duree:              cmd.Duree,
		Modalite:           cmd.Modalite,
		Jeunes:             participants,
		Adresse:            cmd.Adresse,
		Organisme:          cmd.Organisme,
		PresenceConseiller: cmd.PresenceConseiller,
	}); domainErr != nil {
		return appcore.Failure[appcore.Unit](domainErr), nil
	}

	if err := h.rendezVous.Save(ctx, rdv); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("save rendez-vous: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *UpdateRendezVousHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ UpdateRendezVousCommand,
	rdv *rdvdomain.RendezVous,
) error {
	code := evenement.CodeRendezVousModifie
	if rdv != nil && rdv.EstUneAnimationCollective() {
		code = evenement.CodeAnimationCollectiveModifiee
	}
	return h.evenements.Creer(ctx, code, u)
}

type DeleteRendezVousHandler struct {
	rendezVous rdvdomain.Repository
	authorizer RendezVousAuthorizer
	evenements *evenement.Service
}

func NewDeleteRendezVousHandler(
	rendezVous rdvdomain.Repository,
	authorizer RendezVousAuthorizer,
	evenements *evenement.Service,
) *DeleteRendezVousHandler {
	return &DeleteRendezVousHandler{rendezVous: rendezVous, authorizer: authorizer, evenements: evenements}
}

func (h *DeleteRendezVousHandler) Authorize(
	ctx context.Context,
	cmd DeleteRendezVousCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return autoriserConseillerPourUnRendezVous(ctx, h.authorizer, cmd.IDRendezVous, u)
}

func (h *DeleteRendezVousHandler) GetAggregate(
	ctx context.Context,
	cmd DeleteRendezVousCommand,
) (*rdvdomain.RendezVous, error) {
	return h.rendezVous.Get(ctx, cmd.IDRendezVous)
}

func (h *DeleteRendezVousHandler) Handle(
	ctx context.Context,
	cmd DeleteRendezVousCommand,
	_ authentification.Utilisateur,
	rdv *rdvdomain.RendezVous,
) (appcore.Result[appcore.Unit], error) {
	if rdv == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("RendezVous", cmd.IDRendezVous)), nil
	}
	if rdv.EstCloture() {
		return appcore.Failure[appcore.Unit](
			errs.NonTraitable("RendezVous", rdv.ID, errs.ReasonRendezVousClos)), nil
	}
	if err := h.rendezVous.Delete(ctx, rdv.ID); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("delete rendez-vous: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *DeleteRendezVousHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ DeleteRendezVousCommand,
	_ *rdvdomain.RendezVous,
) error {
	return h.evenements.Creer(ctx, evenement.CodeRendezVousSupprime, u)
}
