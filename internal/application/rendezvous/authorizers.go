package rendezvous

import (
	"context"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

type ConseillerAuthorizer interface {
	AutoriserLeConseiller(
		ctx context.Context,
		idConseiller string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

type RendezVousAuthorizer interface {
	AutoriserPourUnRendezVous(
		ctx context.Context,
		idRendezVous string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type JeuneAuthorizer interface {
	AutoriserLeJeune(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

type AgenceAuthorizer interface {
	AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

// autoriserConseillerPourUnRendezVous narrows the rendez-vous authorizer to conseillers.
func autoriserConseillerPourUnRendezVous(
	ctx context.Context,
	a RendezVousAuthorizer,
	idRendezVous string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return appcore.Failure[appcore.Unit](errs.Forbidden()), nil
	}
	return a.AutoriserPourUnRendezVous(ctx, idRendezVous, u)
}

type RendezVousAgenceAuthorizer interface {
	AutoriserConseillerMiloPourUnRdvDeSonAgenceOuAvecUnJeuneDansLeRdv(
		ctx context.Context,
		idRendezVous string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type EtablissementAuthorizer interface {
	AutoriserConseillerPourUneAgence(
		ctx context.Context,
		idAgence string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}
