package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// ActionAuthorizer allows the jeune owning an action and his conseiller.
type ActionAuthorizer struct {
	actions ActionReader
}

func NewActionAuthorizer(actions ActionReader) *ActionAuthorizer {
	return &ActionAuthorizer{actions: actions}
}

func (a *ActionAuthorizer) AutoriserPourUneAction(
	ctx context.Context,
	idAction string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstJeune(u.Type) && !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	owners, err := a.actions.GetConseillerEtJeune(ctx, idAction)
	if err != nil {
		return fail(fmt.Errorf("get owners of action %s: %w", idAction, err))
	}
	if owners == nil {
		return refuse()
	}

	switch {
	case authentification.EstJeune(u.Type) && owners.IDJeune == u.ID:
		return autorise()
	case authentification.EstConseiller(u.Type) && owners.IDConseiller != "" && owners.IDConseiller == u.ID:
		return autorise()
	}
	return refuse()
}
