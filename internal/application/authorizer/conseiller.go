package authorizer

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

// ConseillerAuthorizer checks that a conseiller acts on himself or on the jeunes he follows.
type ConseillerAuthorizer struct {
	conseillers ConseillerReader
	jeunes      JeuneReader
}

// NewConseillerAuthorizer creates a ConseillerAuthorizer.
func NewConseillerAuthorizer(conseillers ConseillerReader, jeunes JeuneReader) *ConseillerAuthorizer {
	return &ConseillerAuthorizer{conseillers: conseillers, jeunes: jeunes}
}

// AutoriserLeConseiller allows the conseiller idConseiller to act on his own account.
func (a *ConseillerAuthorizer) AutoriserLeConseiller(
	ctx context.Context,
	idConseiller string,
	u authentification.Utilisateur,
	conditions ...Condition,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) || !satisfies(u, conditions) {
		return refuse()
	}

	c, err := a.conseillers.Get(ctx, idConseiller)
	if err != nil {
		return fail(fmt.Errorf("get conseiller %s: %w", idConseiller, err))
	}
	if c != nil && c.ID == u.ID {
		return autorise()
	}
	return refuse()
}

// AutoriserLeConseillerPourSonJeune allows idConseiller, acting as himself, on a jeune he follows.
func (a *ConseillerAuthorizer) AutoriserLeConseillerPourSonJeune(
	ctx context.Context,
	idConseiller, idJeune string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	var (
		c *conseiller.Conseiller
		j *jeune.Jeune
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c, err = a.conseillers.Get(gctx, idConseiller)
		return err
	})
	g.Go(func() (err error) {
		j, err = a.jeunes.Get(gctx, idJeune)
		return err
	})
	if err := g.Wait(); err != nil {
		return fail(fmt.Errorf("load conseiller %s and jeune %s: %w", idConseiller, idJeune, err))
	}

	if c != nil && c.ID == u.ID && j != nil && j.EstSuiviPar(c.ID) {
		return autorise()
	}
	return refuse()
}

// AutoriserConseillerPourSonJeune allows the current conseiller of idJeune.
func (a *ConseillerAuthorizer) AutoriserConseillerPourSonJeune(
	ctx context.Context,
	idJeune string,
	u authentification.Utilisateur,
	conditions ...Condition,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) || !satisfies(u, conditions) {
		return refuse()
	}

	j, err := a.jeunes.Get(ctx, idJeune)
	if err != nil {
		return fail(fmt.Errorf("get jeune %s: %w", idJeune, err))
	}
	if j != nil && j.EstSuiviPar(u.ID) {
		return autorise()
	}
	return refuse()
}

// AutoriserConseillerPourSesJeunes allows the conseiller only if he follows every jeune of idsJeunes.
func (a *ConseillerAuthorizer) AutoriserConseillerPourSesJeunes(
	ctx context.Context,
	idsJeunes []string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	jeunes, err := a.jeunes.FindAllJeunesByIdsAndConseiller(ctx, idsJeunes, u.ID)
	if err != nil {
		return fail(fmt.Errorf("find jeunes of conseiller %s: %w", u.ID, err))
	}
	if len(jeunes) == len(idsJeunes) {
		return autorise()
	}
	return refuse()
}

// AutoriserConseillerPourSesJeunesTransferes also accepts jeunes the conseiller transferred away.
// Every jeune must exist.
func (a *ConseillerAuthorizer) AutoriserConseillerPourSesJeunesTransferes(
	ctx context.Context,
	idsJeunes []string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	ids := slices.Compact(slices.Sorted(slices.Values(idsJeunes)))
	jeunes, err := a.jeunes.FindAll(ctx, ids)
	if err != nil {
		return fail(fmt.Errorf("find jeunes: %w", err))
	}
	if len(jeunes) != len(ids) {
		return refuse()
	}
	for i := range jeunes {
		if !jeunes[i].EstSuiviOuTransferePar(u.ID) {
			return refuse()
		}
	}
	return autorise()
}

// AutoriserConseillerSuperviseurDeLEtablissement restricts the supervisor to his own agence.
func (a *ConseillerAuthorizer) AutoriserConseillerSuperviseurDeLEtablissement(
	ctx context.Context,
	u authentification.Utilisateur,
	idAgence string,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	c, err := a.conseillers.Get(ctx, u.ID)
	if err != nil {
		return fail(fmt.Errorf("get conseiller %s: %w", u.ID, err))
	}
	if c != nil && authentification.EstSuperviseur(u) && c.IDAgence() == idAgence {
		return autorise()
	}
	return refuse()
}
