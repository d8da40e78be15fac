package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// FichierAuthorizer guards upload, download and removal of shared files.
type FichierAuthorizer struct {
	fichiers   FichierReader
	jeunes     JeuneReader
	conseiller *ConseillerAuthorizer
	listes     *ListeDeDiffusionAuthorizer
}

func NewFichierAuthorizer(
	fichiers FichierReader,
	jeunes JeuneReader,
	conseiller *ConseillerAuthorizer,
	listes *ListeDeDiffusionAuthorizer,
) *FichierAuthorizer {
	return &FichierAuthorizer{fichiers: fichiers, jeunes: jeunes, conseiller: conseiller, listes: listes}
}

// AutoriserTelechargementPourFichier allows the creator, any recipient jeune and the
// conseiller of a recipient. Being the conseiller of the creator is not enough.
func (a *FichierAuthorizer) AutoriserTelechargementPourFichier(
	ctx context.Context,
	idFichier string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	m, err := a.fichiers.Get(ctx, idFichier)
	if err != nil {
		return fail(fmt.Errorf("get fichier %s: %w", idFichier, err))
	}
	if m == nil {
		return refuse()
	}
	if m.IDCreateur == u.ID {
		return autorise()
	}

	switch {
	case authentification.EstJeune(u.Type):
		if m.EstPartageAvec(u.ID) {
			return autorise()
		}
	case authentification.EstConseiller(u.Type):
		if len(m.IDsJeunes) == 0 {
			return refuse()
		}
		jeunes, err := a.jeunes.FindAllJeunesByIdsAndConseiller(ctx, m.IDsJeunes, u.ID)
		if err != nil {
			return fail(fmt.Errorf("find jeunes of conseiller %s: %w", u.ID, err))
		}
		if len(jeunes) > 0 {
			return autorise()
		}
	}
	return refuse()
}

// AutoriserSuppressionDuFichier allows only the creator.
func (a *FichierAuthorizer) AutoriserSuppressionDuFichier(
	ctx context.Context,
	idFichier string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	m, err := a.fichiers.Get(ctx, idFichier)
	if err != nil {
		return fail(fmt.Errorf("get fichier %s: %w", idFichier, err))
	}
	if m != nil && m.IDCreateur == u.ID {
		return autorise()
	}
	return refuse()
}

// AutoriserTeleversementDuFichier allows a conseiller sharing with his own jeunes and listes.
func (a *FichierAuthorizer) AutoriserTeleversementDuFichier(
	ctx context.Context,
	idsJeunes, idsListes []string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}
	if len(idsJeunes) == 0 && len(idsListes) == 0 {
		return refuse()
	}

	if len(idsJeunes) > 0 {
		result, err := a.conseiller.AutoriserConseillerPourSesJeunes(ctx, idsJeunes, u)
		if err != nil || result.IsFailure() {
			return result, err
		}
	}
	for _, idListe := range idsListes {
		result, err := a.listes.AutoriserConseillerPourSaListeDeDiffusion(ctx, idListe, u)
		if err != nil || result.IsFailure() {
			return result, err
		}
	}
	return autorise()
}
