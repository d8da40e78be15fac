package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// JeuneAuthorizer lets a jeune act on his own account.
type JeuneAuthorizer struct {
	jeunes JeuneReader
}

func NewJeuneAuthorizer(jeunes JeuneReader) *JeuneAuthorizer {
	return &JeuneAuthorizer{jeunes: jeunes}
}

func (a *JeuneAuthorizer) AutoriserLeJeune(
	ctx context.Context,
	idJeune string,
	u authentification.Utilisateur,
	conditions ...Condition,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstJeune(u.Type) || u.ID != idJeune || !satisfies(u, conditions) {
		return refuse()
	}

	j, err := a.jeunes.Get(ctx, idJeune)
	if err != nil {
		return fail(fmt.Errorf("get jeune %s: %w", idJeune, err))
	}
	if j == nil {
		return refuse()
	}
	return autorise()
}
