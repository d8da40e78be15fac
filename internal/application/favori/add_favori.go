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

// AddFavoriHandler bookmarks an offer. The existing favori, if any, is the aggregate.
type AddFavoriHandler struct {
	favoris    favoridomain.Repository
	jeunes     JeuneAuthorizer
	evenements *evenement.Service
}

func NewAddFavoriHandler(
	favoris favoridomain.Repository,
	jeunes JeuneAuthorizer,
	evenements *evenement.Service,
) *AddFavoriHandler {
	return &AddFavoriHandler{favoris: favoris, jeunes: jeunes, evenements: evenements}
}

func (h *AddFavoriHandler) Authorize(
	ctx context.Context,
	cmd AddFavoriCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.jeunes.AutoriserLeJeune(ctx, cmd.IDJeune, u)
}

func (h *AddFavoriHandler) GetAggregate(ctx context.Context, cmd AddFavoriCommand) (*favoridomain.Favori, error) {
	return h.favoris.Get(ctx, cmd.IDJeune, cmd.IDOffre)
}

func (h *AddFavoriHandler) Handle(
	ctx context.Context,
	cmd AddFavoriCommand,
	_ authentification.Utilisateur,
	existing *favoridomain.Favori,
) (appcore.Result[favoridomain.Favori], error) {
	if invalid := appcore.FirstInvalid(
		appcore.ValidateRequired("idOffre", cmd.IDOffre),
		appcore.ValidateEnum("type", cmd.Type, favoridomain.TypesOffre),
		appcore.ValidateMaxLength("titre", cmd.Titre, appcore.MaxTitleLength),
	); invalid != nil {
		return appcore.Failure[favoridomain.Favori](invalid), nil
	}
	if existing != nil {
		return appcore.Failure[favoridomain.Favori](errs.FavoriExisteDeja(cmd.IDJeune, cmd.IDOffre)), nil
	}

	now := time.Now()
	f := favoridomain.Favori{
		IDBeneficiaire: cmd.IDJeune,
		IDOffre:        cmd.IDOffre,
		Type:           cmd.Type,
		Titre:          cmd.Titre,
		Organisation:   cmd.Organisation,
		Localisation:   cmd.Localisation,
		DateCreation:   now,
	}
	if cmd.AvecCandidature {
		f.Candidater(now)
	}

	if err := h.favoris.Save(ctx, &f); err != nil {
		return appcore.Result[favoridomain.Favori]{}, fmt.Errorf("save favori: %w", err)
	}
	return appcore.Success(f), nil
}

func (h *AddFavoriHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	cmd AddFavoriCommand,
	_ *favoridomain.Favori,
) error {
	if err := h.evenements.Creer(ctx, evenement.CodeFavoriCree, u); err != nil {
		return err
	}
	if cmd.AvecCandidature {
		return h.evenements.Creer(ctx, evenement.CodeFavoriCandidature, u)
	}
	return nil
}
