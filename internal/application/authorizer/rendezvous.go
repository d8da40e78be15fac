package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// RendezVousAuthorizer allows conseillers and jeunes taking part in a rendez-vous,
// and anyone of the agence for an animation collective.
type RendezVousAuthorizer struct {
	rendezVous  RendezVousReader
	conseillers ConseillerReader
	jeunes      JeuneReader
}

func NewRendezVousAuthorizer(
	rendezVous RendezVousReader,
	conseillers ConseillerReader,
	jeunes JeuneReader,
) *RendezVousAuthorizer {
	return &RendezVousAuthorizer{rendezVous: rendezVous, conseillers: conseillers, jeunes: jeunes}
}

func (a *RendezVousAuthorizer) AutoriserPourUnRendezVous(
	ctx context.Context,
	idRendezVous string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstJeune(u.Type) && !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	rdv, err := a.rendezVous.Get(ctx, idRendezVous)
	if err != nil {
		return fail(fmt.Errorf("get rendez-vous %s: %w", idRendezVous, err))
	}
	if rdv == nil {
		return refuse()
	}

	if authentification.EstConseiller(u.Type) {
		return a.pourLeConseiller(ctx, rdv, u)
	}
	return a.pourLeJeune(ctx, rdv, u)
}

func (a *RendezVousAuthorizer) pourLeConseiller(
	ctx context.Context,
	rdv *rendezvous.RendezVous,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if rdv.EstUneAnimationCollective() {
		c, err := a.conseillers.Get(ctx, u.ID)
		if err != nil {
			return fail(fmt.Errorf("get conseiller %s: %w", u.ID, err))
		}
		if c != nil && rdv.IDAgence != "" && c.IDAgence() == rdv.IDAgence {
			return autorise()
		}
		return refuse()
	}

	if rdv.AUnJeuneSuiviPar(u.ID) {
		return autorise()
	}
	return refuse()
}

func (a *RendezVousAuthorizer) pourLeJeune(
	ctx context.Context,
	rdv *rendezvous.RendezVous,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if rdv.ContientJeune(u.ID) {
		return autorise()
	}
	if !rdv.EstUneAnimationCollective() || rdv.IDAgence == "" {
		return refuse()
	}

	j, err := a.jeunes.Get(ctx, u.ID)
	if err != nil {
		return fail(fmt.Errorf("get jeune %s: %w", u.ID, err))
	}
	if j != nil && j.IDAgenceDuConseiller() == rdv.IDAgence {
		return autorise()
	}
	return refuse()
}
