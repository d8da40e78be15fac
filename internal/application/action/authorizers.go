package action

import (
	"context"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

type JeuneAuthorizer interface {
	AutoriserLeJeune(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

type ConseillerAuthorizer interface {
	AutoriserLeConseillerPourSonJeune(
		ctx context.Context,
		idConseiller, idJeune string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type ActionAuthorizer interface {
	AutoriserPourUneAction(
		ctx context.Context,
		idAction string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type AgenceAuthorizer interface {
	AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type ActionAgenceAuthorizer interface {
	AutoriserConseillerPourUneActionDeSonJeuneOuDUnJeuneDeSonAgenceMilo(
		ctx context.Context,
		idAction string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}
