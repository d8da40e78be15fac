package action

import (
	"context"
	"fmt"
	"time"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	actiondomain "github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

type UpdateStatutActionHandler struct {
	actions    actiondomain.Repository
	authorizer ActionAuthorizer
	evenements *evenement.Service
}

func NewUpdateStatutActionHandler(
	actions actiondomain.Repository,
	authorizer ActionAuthorizer,
	evenements *evenement.Service,
) *UpdateStatutActionHandler {
	return &UpdateStatutActionHandler{actions: actions, authorizer: authorizer, evenements: evenements}
}

func (h *UpdateStatutActionHandler) Authorize(
	ctx context.Context,
	cmd UpdateStatutActionCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserPourUneAction(ctx, cmd.IDAction, u)
}

func (h *UpdateStatutActionHandler) GetAggregate(
	ctx context.Context,
	cmd UpdateStatutActionCommand,
) (*actiondomain.Action, error) {
	return h.actions.Get(ctx, cmd.IDAction)
}

func (h *UpdateStatutActionHandler) Handle(
	ctx context.Context,
	cmd UpdateStatutActionCommand,
	_ authentification.Utilisateur,
	a *actiondomain.Action,
) (appcore.Result[appcore.Unit], error) {
	if invalid := appcore.ValidateEnum("statut", cmd.Statut, actiondomain.Statuts); invalid != nil {
		return appcore.Failure[appcore.Unit](invalid), nil
	}
	if a == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("Action", cmd.IDAction)), nil
	}
	if domainErr := a.ChangerStatut(cmd.Statut, time.Now()); domainErr != nil {
		return appcore.Failure[appcore.Unit](domainErr), nil
	}

	if err := h.actions.Save(ctx, a); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("save action: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *UpdateStatutActionHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ UpdateStatutActionCommand,
	_ *actiondomain.Action,
) error {
	return h.evenements.Creer(ctx, evenement.CodeActionStatutModifie, u)
}
