package authorizer

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

type ListeDeDiffusionAuthorizer struct {
	listes ListeDeDiffusionReader
}

func NewListeDeDiffusionAuthorizer(listes ListeDeDiffusionReader) *ListeDeDiffusionAuthorizer {
	return &ListeDeDiffusionAuthorizer{listes: listes}
}

// AutoriserConseillerPourSaListeDeDiffusion allows the conseiller who owns the liste.
func (a *ListeDeDiffusionAuthorizer) AutoriserConseillerPourSaListeDeDiffusion(
	ctx context.Context,
	idListe string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if !authentification.EstConseiller(u.Type) {
		return refuse()
	}

	l, err := a.listes.Get(ctx, idListe)
	if err != nil {
		return fail(fmt.Errorf("get liste de diffusion %s: %w", idListe, err))
	}
	if l != nil && l.IDConseiller == u.ID {
		return autorise()
	}
	return refuse()
}
