package favori

import (
	"context"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// JeuneAuthorizer is satisfied by *authorizer.JeuneAuthorizer.
type JeuneAuthorizer interface {
	AutoriserLeJeune(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

// OffreAuthorizer is satisfied by *authorizer.FavoriAuthorizer.
type OffreAuthorizer interface {
	AutoriserLeJeunePourSonOffre(
		ctx context.Context,
		idJeune, idOffre string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

// PartageAuthorizer is satisfied by *authorizer.ConseillerInterAgenceAuthorizer.
type PartageAuthorizer interface {
	AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMiloAvecPartageFavoris(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
	AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

// autoriserJeuneOuConseiller lets the jeune read his own favoris, and a conseiller
// read them through the agence rules.
func autoriserJeuneOuConseiller(
	ctx context.Context,
	jeunes JeuneAuthorizer,
	conseillers PartageAuthorizer,
	idJeune string,
	utilisateur authentification.Utilisateur,
	avecPartage bool,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstConseiller(utilisateur.Type) {
		if avecPartage {
			return conseillers.AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMiloAvecPartageFavoris(ctx, idJeune, utilisateur)
		}
		return conseillers.AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(ctx, idJeune, utilisateur)
	}
	return jeunes.AutoriserLeJeune(ctx, idJeune, utilisateur)
}
