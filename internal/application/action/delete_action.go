package action

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	actiondomain "github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

type DeleteActionHandler struct {
	actions    actiondomain.Repository
	authorizer ActionAuthorizer
	evenements *evenement.Service
}

func NewDeleteActionHandler(
	actions actiondomain.Repository,
	authorizer ActionAuthorizer,
	evenements *evenement.Service,
) *DeleteActionHandler {
	return &DeleteActionHandler{actions: actions, authorizer: authorizer, evenements: evenements}
}

func (h *DeleteActionHandler) Authorize(
	ctx context.Context,
	cmd DeleteActionCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserPourUneAction(ctx, cmd.IDAction, u)
}

func (h *DeleteActionHandler) GetAggregate(ctx context.Context, cmd DeleteActionCommand) (*actiondomain.Action, error) {
	return h.actions.Get(ctx, cmd.IDAction)
}

func (h *DeleteActionHandler) Handle(
	ctx context.Context,
	cmd DeleteActionCommand,
	_ authentification.Utilisateur,
	a *actiondomain.Action,
) (appcore.Result[appcore.Unit], error) {
	if a == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("Action", cmd.IDAction)), nil
	}
	if a.EstQualifiee() {
		return appcore.Failure[appcore.Unit](
			errs.NonTraitable("Action", a.ID, errs.ReasonActionDejaQualifiee)), nil
	}
	if err := h.actions.Delete(ctx, a.ID); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("delete action: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *DeleteActionHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ DeleteActionCommand,
	_ *actiondomain.Action,
) error {
	return h.evenements.Creer(ctx, evenement.CodeActionSupprimee, u)
}
