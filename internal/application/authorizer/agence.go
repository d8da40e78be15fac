package authorizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// agenceChecker grants a conseiller access to the jeunes of his agence when his
// structure allows working across conseillers.
type agenceChecker struct {
	conseillers ConseillerReader
	jeunes      JeuneReader
	actions     ActionReader
	rendezVous  RendezVousReader

	// interAgence tells whether a structure may act on jeunes of other conseillers.
	interAgence func(core.Structure) bool
}

func (c *agenceChecker) pourUneAgence(
	ctx context.Context,
	idAgence string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	cons, err := c.conseillers.Get(ctx, u.ID)
	if err != nil {
		return fail(fmt.Errorf("get conseiller %s: %w", u.ID, err))
	}
	if cons != nil && idAgence != "" && cons.IDAgence() == idAgence {
		return autorise()
	}
	return refuse()
}

func (c *agenceChecker) pourUnJeune(
	ctx context.Context,
	idJeune string,
	u authentification.Utilisateur,
	partageFavoris bool,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	j, err := c.jeunes.Get(ctx, idJeune)
	if err != nil {
		return fail(fmt.Errorf("get jeune %s: %w", idJeune, err))
	}
	if j == nil || (partageFavoris && !j.Preferences.PartageFavoris) {
		return refuse()
	}
	return c.jeuneOuAgence(ctx, j, u)
}

func (c *agenceChecker) jeuneOuAgence(
	ctx context.Context,
	j *jeune.Jeune,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if j.EstSuiviPar(u.ID) {
		return autorise()
	}
	idAgence := j.IDAgenceDuConseiller()
	if !c.interAgence(u.Structure) || idAgence == "" {
		return refuse()
	}

	cons, err := c.conseillers.Get(ctx, u.ID)
	if err != nil {
		return fail(fmt.Errorf("get conseiller %s: %w", u.ID, err))
	}
	if cons != nil && cons.IDAgence() == idAgence {
		return autorise()
	}
	return refuse()
}

func (c *agenceChecker) pourUneAction(
	ctx context.Context,
	idAction string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	a, err := c.actions.Get(ctx, idAction)
	if err != nil {
		return fail(fmt.Errorf("get action %s: %w", idAction, err))
	}
	if a == nil {
		return refuse()
	}
	return c.pourUnJeune(ctx, a.IDJeune, u, false)
}

func (c *agenceChecker) pourUnRendezVous(
	ctx context.Context,
	idRendezVous string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) || !c.interAgence(u.Structure) {
		return refuse()
	}

	var (
		rdv  *rendezvous.RendezVous
		cons *conseiller.Conseiller
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rdv, err = c.rendezVous.Get(gctx, idRendezVous)
		return err
	})
	g.Go(func() (err error) {
		cons, err = c.conseillers.Get(gctx, u.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fail(fmt.Errorf("load rendez-vous %s and conseiller %s: %w", idRendezVous, u.ID, err))
	}
	if rdv == nil || cons == nil {
		return refuse()
	}

	idAgence := cons.IDAgence()
	switch {
	case idAgence != "" && rdv.IDAgence == idAgence:
		return autorise()
	case rdv.AUnJeuneSuiviPar(cons.ID):
		return autorise()
	case rdv.AUnJeuneDeLAgence(idAgence):
		return autorise()
	}
	return refuse()
}

// ConseillerInterAgenceAuthorizer lets Milo conseillers act on the jeunes and
// rendez-vous of their agence.
type ConseillerInterAgenceAuthorizer struct {
	checker agenceChecker
}

func NewConseillerInterAgenceAuthorizer(
	conseillers ConseillerReader,
	jeunes JeuneReader,
	actions ActionReader,
	rendezVous RendezVousReader,
) *ConseillerInterAgenceAuthorizer {
	return &ConseillerInterAgenceAuthorizer{checker: agenceChecker{
		conseillers: conseillers,
		jeunes:      jeunes,
		actions:     actions,
		rendezVous:  rendezVous,
		interAgence: core.EstMilo,
	}}
}

func (a *ConseillerInterAgenceAuthorizer) AutoriserConseillerPourUneAgence(
	ctx context.Context, idAgence string, u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return a.checker.pourUneAgence(ctx, idAgence, u)
}

func (a *ConseillerInterAgenceAuthorizer) AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(
	ctx context.Context, idJeune string, u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return a.checker.pourUnJeune(ctx, idJeune, u, false)
}

// AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMiloAvecPartageFavoris also
// requires the jeune to share his favoris.
func (a *ConseillerInterAgenceAuthorizer) AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMiloAvecPartageFavoris(
	ctx context.Context, idJeune string, u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return a.checker.pourUnJeune(ctx, idJeune, u, true)
}

func (a *ConseillerInterAgenceAuthorizer) AutoriserConseillerMiloPourUnRdvDeSonAgenceOuAvecUnJeuneDansLeRdv(
	ctx context.Context, idRendezVous string, u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return a.checker.pourUnRendezVous(ctx, idRendezVous, u)
}

// ConseillerInterStructureMiloAuthorizer checks Milo structures and opens the
// actions of the agence to Pass Emploi conseillers as well.
type ConseillerInterStructureMiloAuthorizer struct {
	checker agenceChecker
}

func NewConseillerInterStructureMiloAuthorizer(
	conseillers ConseillerReader,
	jeunes JeuneReader,
	actions ActionReader,
	rendezVous RendezVousReader,
) *ConseillerInterStructureMiloAuthorizer {
	return &ConseillerInterStructureMiloAuthorizer{checker: agenceChecker{
		conseillers: conseillers,
		jeunes:      jeunes,
		actions:     actions,
		rendezVous:  rendezVous,
		interAgence: core.EstMiloPassEmploi,
	}}
}

// AutoriserConseillerPourUneStructureMilo allows a Milo conseiller attached to idStructureMilo.
func (a *ConseillerInterStructureMiloAuthorizer) AutoriserConseillerPourUneStructureMilo(
	ctx context.Context, idStructureMilo string, u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) || !core.EstMilo(u.Structure) {
		return refuse()
	}

	cons, err := a.checker.conseillers.Get(ctx, u.ID)
	if err != nil {
		return fail(fmt.Errorf("get conseiller %s: %w", u.ID, err))
	}
	if cons != nil && idStructureMilo != "" && cons.IDStructureMilo == idStructureMilo {
		return autorise()
	}
	return refuse()
}

func (a *ConseillerInterStructureMiloAuthorizer) AutoriserConseillerPourUneActionDeSonJeuneOuDUnJeuneDeSonAgenceMilo(
	ctx context.Context, idAction string, u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return a.checker.pourUneAction(ctx, idAction, u)
}
