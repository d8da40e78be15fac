package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

type RechercheAuthorizer struct {
	recherches RechercheReader
}

func NewRechercheAuthorizer(recherches RechercheReader) *RechercheAuthorizer {
	return &RechercheAuthorizer{recherches: recherches}
}

// AutoriserLeJeunePourSaRecherche allows a jeune on one of his saved searches.
func (a *RechercheAuthorizer) AutoriserLeJeunePourSaRecherche(
	ctx context.Context,
	idJeune, idRecherche string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstJeune(u.Type) || u.ID != idJeune {
		return refuse()
	}

	existe, err := a.recherches.ExisteRecherche(ctx, idJeune, idRecherche)
	if err != nil {
		return fail(fmt.Errorf("check recherche %s: %w", idRecherche, err))
	}
	if !existe {
		return refuse()
	}
	return autorise()
}
