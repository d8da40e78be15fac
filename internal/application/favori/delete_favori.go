package favori

import (
	"context"
	"fmt"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	favoridomain "github.com/lllypuk/passemploi/internal/domain/favori"
)

type DeleteFavoriHandler struct {
	favoris    favoridomain.Repository
	jeunes     JeuneAuthorizer
	evenements *evenement.Service
}

func NewDeleteFavoriHandler(
	favoris favoridomain.Repository,
	jeunes JeuneAuthorizer,
	evenements *evenement.Service,
) *DeleteFavoriHandler {
	return &DeleteFavoriHandler{favoris: favoris, jeunes: jeunes, evenements: evenements}
}

func (h *DeleteFavoriHandler) Authorize(
	ctx context.Context,
	cmd DeleteFavoriCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.jeunes.AutoriserLeJeune(ctx, cmd.IDJeune, u)
}

func (h *DeleteFavoriHandler) GetAggregate(ctx context.Context, cmd DeleteFavoriCommand) (*favoridomain.Favori, error) {
	return h.favoris.Get(ctx, cmd.IDJeune, cmd.IDOffre)
}

func (h *DeleteFavoriHandler) Handle(
	ctx context.Context,
	cmd DeleteFavoriCommand,
	_ authentification.Utilisateur,
	f *favoridomain.Favori,
) (appcore.Result[appcore.Unit], error) {
	if f == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("Favori", cmd.IDOffre)), nil
	}
	if err := h.favoris.Delete(ctx, cmd.IDJeune, cmd.IDOffre); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("delete favori: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *DeleteFavoriHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ DeleteFavoriCommand,
	_ *favoridomain.Favori,
) error {
	return h.evenements.Creer(ctx, evenement.CodeFavoriSupprime, u)
}
