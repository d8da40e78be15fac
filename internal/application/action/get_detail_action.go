package action

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	actiondomain "github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

// GetDetailActionHandler reads one action. Conseillers of the jeune's agence
// may read it too when their structure works across conseillers.
type GetDetailActionHandler struct {
	actions actiondomain.Repository
	action  ActionAuthorizer
	agence  ActionAgenceAuthorizer
}

func NewGetDetailActionHandler(
	actions actiondomain.Repository,
	actionAuthorizer ActionAuthorizer,
	agenceAuthorizer ActionAgenceAuthorizer,
) *GetDetailActionHandler {
	return &GetDetailActionHandler{actions: actions, action: actionAuthorizer, agence: agenceAuthorizer}
}

func (h *GetDetailActionHandler) Authorize(
	ctx context.Context,
	q GetDetailActionQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstConseiller(u.Type) {
		return h.agence.AutoriserConseillerPourUneActionDeSonJeuneOuDUnJeuneDeSonAgenceMilo(ctx, q.IDAction, u)
	}
	return h.action.AutoriserPourUneAction(ctx, q.IDAction, u)
}

func (h *GetDetailActionHandler) Handle(
	ctx context.Context,
	q GetDetailActionQuery,
	_ authentification.Utilisateur,
) (appcore.Result[actiondomain.Action], error) {
	a, err := h.actions.Get(ctx, q.IDAction)
	if err != nil {
		return appcore.Result[actiondomain.Action]{}, fmt.Errorf("get action: %w", err)
	}
	if a == nil {
		return appcore.Failure[actiondomain.Action](errs.NotFound("Action", q.IDAction)), nil
	}
	return appcore.Success(*a), nil
}
