package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

type FavoriAuthorizer struct {
	favoris FavoriReader
}

func NewFavoriAuthorizer(favoris FavoriReader) *FavoriAuthorizer {
	return &FavoriAuthorizer{favoris: favoris}
}

// AutoriserLeJeunePourSonOffre allows a jeune on an offer he bookmarked.
func (a *FavoriAuthorizer) AutoriserLeJeunePourSonOffre(
	ctx context.Context,
	idJeune, idOffre string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstJeune(u.Type) || u.ID != idJeune {
		return refuse()
	}

	f, err := a.favoris.Get(ctx, idJeune, idOffre)
	if err != nil {
		return fail(fmt.Errorf("get favori %s of %s: %w", idOffre, idJeune, err))
	}
	if f == nil {
		return refuse()
	}
	return autorise()
}
