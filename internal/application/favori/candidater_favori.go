package favori

import (
	"context"
	"fmt"
	"time"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	favoridomain "github.com/lllypuk/passemploi/internal/domain/favori"
)

// CandidaterFavoriHandler marks a favori as applied to.
type CandidaterFavoriHandler struct {
	favoris    favoridomain.Repository
	jeunes     JeuneAuthorizer
	evenements *evenement.Service
}

func NewCandidaterFavoriHandler(
	favoris favoridomain.Repository,
	jeunes JeuneAuthorizer,
	evenements *evenement.Service,
) *CandidaterFavoriHandler {
	return &CandidaterFavoriHandler{favoris: favoris, jeunes: jeunes, evenements: evenements}
}

func (h *CandidaterFavoriHandler) Authorize(
	ctx context.Context,
	cmd CandidaterFavoriCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.jeunes.AutoriserLeJeune(ctx, cmd.IDBeneficiaire, u)
}

func (h *CandidaterFavoriHandler) GetAggregate(
	ctx context.Context,
	cmd CandidaterFavoriCommand,
) (*favoridomain.Favori, error) {
	return h.favoris.Get(ctx, cmd.IDBeneficiaire, cmd.IDOffre)
}

func (h *CandidaterFavoriHandler) Handle(
	ctx context.Context,
	cmd CandidaterFavoriCommand,
	_ authentification.Utilisateur,
	f *favoridomain.Favori,
) (appcore.Result[favoridomain.Favori], error) {
	if f == nil {
		return appcore.Failure[favoridomain.Favori](errs.NotFound("Favori", cmd.IDOffre)), nil
	}

	f.Candidater(time.Now())
	if err := h.favoris.Save(ctx, f); err != nil {
		return appcore.Result[favoridomain.Favori]{}, fmt.Errorf("save favori: %w", err)
	}
	return appcore.Success(*f), nil
}

func (h *CandidaterFavoriHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ CandidaterFavoriCommand,
	_ *favoridomain.Favori,
) error {
	return h.evenements.Creer(ctx, evenement.CodeFavoriCandidature, u)
}
