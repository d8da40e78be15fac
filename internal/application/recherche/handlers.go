package recherche

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	recherchedomain "github.com/lllypuk/passemploi/internal/domain/recherche"
)

type JeuneAuthorizer interface {
	AutoriserLeJeune(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

type ConseillerAuthorizer interface {
	AutoriserConseillerPourSonJeune(
		ctx context.Context,
		idJeune string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

type RechercheAuthorizer interface {
	AutoriserLeJeunePourSaRecherche(
		ctx context.Context,
		idJeune, idRecherche string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

// CreateRechercheHandler saves a search the jeune wants to be alerted on.
type CreateRechercheHandler struct {
	appcore.NoAggregate[CreateRechercheCommand, recherchedomain.Recherche]

	recherches recherchedomain.Repository
	jeunes     JeuneAuthorizer
	evenements *evenement.Service
}

func NewCreateRechercheHandler(
	recherches recherchedomain.Repository,
	jeunes JeuneAuthorizer,
	evenements *evenement.Service,
) *CreateRechercheHandler {
	return &CreateRechercheHandler{recherches: recherches, jeunes: jeunes, evenements: evenements}
}

func (h *CreateRechercheHandler) Authorize(
	ctx context.Context,
	cmd CreateRechercheCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.jeunes.AutoriserLeJeune(ctx, cmd.IDJeune, u)
}

func (h *CreateRechercheHandler) Handle(
	ctx context.Context,
	cmd CreateRechercheCommand,
	_ authentification.Utilisateur,
	_ *recherchedomain.Recherche,
) (appcore.Result[recherchedomain.Recherche], error) {
	if invalid := appcore.FirstInvalid(
		appcore.ValidateRequired("titre", cmd.Titre),
		appcore.ValidateMaxLength("titre", cmd.Titre, appcore.MaxTitleLength),
		appcore.ValidateEnum("type", cmd.Type, recherchedomain.Types),
	); invalid != nil {
		return appcore.Failure[recherchedomain.Recherche](invalid), nil
	}

	now := time.Now()
	r := recherchedomain.Recherche{
		ID:                    uuid.NewString(),
		IDJeune:               cmd.IDJeune,
		Titre:                 cmd.Titre,
		Type:                  cmd.Type,
		Metier:                cmd.Metier,
		Localisation:          cmd.Localisation,
		Criteres:              cmd.Criteres,
		DateCreation:          now,
		DateDerniereRecherche: now,
		Etat:                  recherchedomain.EtatSucces,
	}
	if err := h.recherches.Save(ctx, &r); err != nil {
		return appcore.Result[recherchedomain.Recherche]{}, fmt.Errorf("save recherche: %w", err)
	}
	return appcore.Success(r), nil
}

func (h *CreateRechercheHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ CreateRechercheCommand,
	_ *recherchedomain.Recherche,
) error {
	return h.evenements.Creer(ctx, evenement.CodeRechercheSauvegardee, u)
}

type DeleteRechercheHandler struct {
	recherches recherchedomain.Repository
	authorizer RechercheAuthorizer
	evenements *evenement.Service
}

func NewDeleteRechercheHandler(
	recherches recherchedomain.Repository,
	authorizer RechercheAuthorizer,
	evenements *evenement.Service,
) *DeleteRechercheHandler {
	return &DeleteRechercheHandler{recherches: recherches, authorizer: authorizer, evenements: evenements}
}

func (h *DeleteRechercheHandler) Authorize(
	ctx context.Context,
	cmd DeleteRechercheCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserLeJeunePourSaRecherche(ctx, cmd.IDJeune, cmd.IDRecherche, u)
}

func (h *DeleteRechercheHandler) GetAggregate(
	ctx context.Context,
	cmd DeleteRechercheCommand,
) (*recherchedomain.Recherche, error) {
	return h.recherches.Get(ctx, cmd.IDRecherche)
}

func (h *DeleteRechercheHandler) Handle(
	ctx context.Context,
	cmd DeleteRechercheCommand,
	_ authentification.Utilisateur,
	r *recherchedomain.Recherche,
) (appcore.Result[appcore.Unit], error) {
	if r == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("Recherche", cmd.IDRecherche)), nil
	}
	if err := h.recherches.Delete(ctx, r.ID); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("delete recherche: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *DeleteRechercheHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ DeleteRechercheCommand,
	_ *recherchedomain.Recherche,
) error {
	return h.evenements.Creer(ctx, evenement.CodeRechercheSupprimee, u)
}

// GetRecherchesJeuneHandler lists saved searches, newest first. The jeune and
// his own conseiller may read them.
type GetRecherchesJeuneHandler struct {
	recherches  recherchedomain.Repository
	jeunes      JeuneAuthorizer
	conseillers ConseillerAuthorizer
}

func NewGetRecherchesJeuneHandler(
	recherches recherchedomain.Repository,
	jeunes JeuneAuthorizer,
	conseillers ConseillerAuthorizer,
) *GetRecherchesJeuneHandler {
	return &GetRecherchesJeuneHandler{recherches: recherches, jeunes: jeunes, conseillers: conseillers}
}

func (h *GetRecherchesJeuneHandler) Authorize(
	ctx context.Context,
	q GetRecherchesJeuneQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstConseiller(u.Type) {
		return h.conseillers.AutoriserConseillerPourSonJeune(ctx, q.IDJeune, u)
	}
	return h.jeunes.AutoriserLeJeune(ctx, q.IDJeune, u)
}

func (h *GetRecherchesJeuneHandler) Handle(
	ctx context.Context,
	q GetRecherchesJeuneQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]recherchedomain.Recherche], error) {
	recherches, err := h.recherches.FindByJeune(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[[]recherchedomain.Recherche]{}, fmt.Errorf("find recherches: %w", err)
	}
	sort.Slice(recherches, func(i, j int) bool {
		return recherches[i].DateCreation.After(recherches[j].DateCreation)
	})
	return appcore.Success(recherches), nil
}
