package listediffusion

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
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	listedomain "github.com/lllypuk/passemploi/internal/domain/listediffusion"
)

type ConseillerAuthorizer interface {
	AutoriserLeConseiller(
		ctx context.Context,
		idConseiller string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
	AutoriserConseillerPourSesJeunesTransferes(
		ctx context.Context,
		idsJeunes []string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type ListeAuthorizer interface {
	AutoriserConseillerPourSaListeDeDiffusion(
		ctx context.Context,
		idListe string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type JeunesFinder interface {
	FindAll(ctx context.Context, ids []string) ([]jeune.Jeune, error)
}

// autoriserBeneficiaires chains a first check with the check that every member is a
// jeune of the conseiller, possibly transferred.
func autoriserBeneficiaires(
	ctx context.Context,
	conseiller ConseillerAuthorizer,
	first appcore.Result[appcore.Unit],
	err error,
	ids []string,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if err != nil || first.IsFailure() || len(ids) == 0 {
		return first, err
	}
	return conseiller.AutoriserConseillerPourSesJeunesTransferes(ctx, ids, u)
}

func chargerJeunes(ctx context.Context, finder JeunesFinder, ids []string) ([]jeune.Jeune, *errs.DomainError, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	jeunes, err := finder.FindAll(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("find jeunes: %w", err)
	}
	if len(jeunes) != len(ids) {
		return nil, errs.NotFound("Jeune", fmt.Sprint(ids)), nil
	}
	return jeunes, nil, nil
}

// CreateListeHandler creates a liste de diffusion and returns its id.
type CreateListeHandler struct {
	appcore.NoAggregate[CreateListeCommand, listedomain.ListeDeDiffusion]

	listes     listedomain.Repository
	jeunes     JeunesFinder
	conseiller ConseillerAuthorizer
	evenements *evenement.Service
}

func NewCreateListeHandler(
	listes listedomain.Repository,
	jeunes JeunesFinder,
	conseiller ConseillerAuthorizer,
	evenements *evenement.Service,
) *CreateListeHandler {
	return &CreateListeHandler{listes: listes, jeunes: jeunes, conseiller: conseiller, evenements: evenements}
}

func (h *CreateListeHandler) Authorize(
	ctx context.Context,
	cmd CreateListeCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	result, err := h.conseiller.AutoriserLeConseiller(ctx, cmd.IDConseiller, u)
	return autoriserBeneficiaires(ctx, h.conseiller, result, err, cmd.IDsBeneficiaires, u)
}

func (h *CreateListeHandler) Handle(
	ctx context.Context,
	cmd CreateListeCommand,
	_ authentification.Utilisateur,
	_ *listedomain.ListeDeDiffusion,
) (appcore.Result[string], error) {
	if invalid := appcore.FirstInvalid(
		appcore.ValidateRequired("titre", cmd.Titre),
		appcore.ValidateMaxLength("titre", cmd.Titre, appcore.MaxTitleLength),
	); invalid != nil {
		return appcore.Failure[string](invalid), nil
	}

	jeunes, notFound, err := chargerJeunes(ctx, h.jeunes, cmd.IDsBeneficiaires)
	if err != nil {
		return appcore.Result[string]{}, err
	}
	if notFound != nil {
		return appcore.Failure[string](notFound), nil
	}

	l := listedomain.Creer(uuid.NewString(), cmd.IDConseiller, cmd.Titre, jeunes, time.Now())
	if err := h.listes.Save(ctx, l); err != nil {
		return appcore.Result[string]{}, fmt.Errorf("save liste de diffusion: %w", err)
	}
	return appcore.Success(l.ID), nil
}

func (h *CreateListeHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ CreateListeCommand,
	_ *listedomain.ListeDeDiffusion,
) error {
	return h.evenements.Creer(ctx, evenement.CodeListeDiffusionCreee, u)
}

type UpdateListeHandler struct {
	listes     listedomain.Repository
	jeunes     JeunesFinder
	liste      ListeAuthorizer
	conseiller ConseillerAuthorizer
	evenements *evenement.Service
}

func NewUpdateListeHandler(
	listes listedomain.Repository,
	jeunes JeunesFinder,
	liste ListeAuthorizer,
	conseiller ConseillerAuthorizer,
	evenements *evenement.Service,
) *UpdateListeHandler {
	return &UpdateListeHandler{
		listes:     listes,
		jeunes:     jeunes,
		liste:      liste,
		conseiller: conseiller,
		evenements: evenements,
	}
}

func (h *UpdateListeHandler) Authorize(
	ctx context.Context,
	cmd UpdateListeCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	result, err := h.liste.AutoriserConseillerPourSaListeDeDiffusion(ctx, cmd.IDListe, u)
	return autoriserBeneficiaires(ctx, h.conseiller, result, err, cmd.IDsBeneficiaires, u)
}

func (h *UpdateListeHandler) GetAggregate(
	ctx context.Context,
	cmd UpdateListeCommand,
) (*listedomain.ListeDeDiffusion, error) {
	return h.listes.Get(ctx, cmd.IDListe)
}

func (h *UpdateListeHandler) Handle(
	ctx context.Context,
	cmd UpdateListeCommand,
	_ authentification.Utilisateur,
	l *listedomain.ListeDeDiffusion,
) (appcore.Result[appcore.Unit], error) {
	if invalid := appcore.FirstInvalid(
		appcore.ValidateRequired("titre", cmd.Titre),
		appcore.ValidateMaxLength("titre", cmd.Titre, appcore.MaxTitleLength),
	); invalid != nil {
		return appcore.Failure[appcore.Unit](invalid), nil
	}
	if l == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("ListeDeDiffusion", cmd.IDListe)), nil
	}

	jeunes, notFound, err := chargerJeunes(ctx, h.jeunes, cmd.IDsBeneficiaires)
	if err != nil {
		return appcore.Result[appcore.Unit]{}, err
	}
	if notFound != nil {
		return appcore.Failure[appcore.Unit](notFound), nil
	}

	l.MettreAJour(cmd.Titre, jeunes, time.Now())
	if err := h.listes.Save(ctx, l); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("save liste de diffusion: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *UpdateListeHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ UpdateListeCommand,
	_ *listedomain.ListeDeDiffusion,
) error {
	return h.evenements.Creer(ctx, evenement.CodeListeDiffusionModifiee, u)
}

type DeleteListeHandler struct {
	listes     listedomain.Repository
	liste      ListeAuthorizer
	evenements *evenement.Service
}

func NewDeleteListeHandler(
	listes listedomain.Repository,
	liste ListeAuthorizer,
	evenements *evenement.Service,
) *DeleteListeHandler {
	return &DeleteListeHandler{listes: listes, liste: liste, evenements: evenements}
}

func (h *DeleteListeHandler) Authorize(
	ctx context.Context,
	cmd DeleteListeCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.liste.AutoriserConseillerPourSaListeDeDiffusion(ctx, cmd.IDListe, u)
}

func (h *DeleteListeHandler) GetAggregate(
	ctx context.Context,
	cmd DeleteListeCommand,
) (*listedomain.ListeDeDiffusion, error) {
	return h.listes.Get(ctx, cmd.IDListe)
}

func (h *DeleteListeHandler) Handle(
	ctx context.Context,
	cmd DeleteListeCommand,
	_ authentification.Utilisateur,
	l *listedomain.ListeDeDiffusion,
) (appcore.Result[appcore.Unit], error) {
	if l == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("ListeDeDiffusion", cmd.IDListe)), nil
	}
	if err := h.listes.Delete(ctx, l.ID); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("delete liste de diffusion: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *DeleteListeHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ DeleteListeCommand,
	_ *listedomain.ListeDeDiffusion,
) error {
	return h.evenements.Creer(ctx, evenement.CodeListeDiffusionSupprimee, u)
}

// GetListesDeDiffusionHandler lists the listes of a conseiller by title.
type GetListesDeDiffusionHandler struct {
	listes     listedomain.Repository
	conseiller ConseillerAuthorizer
}

func NewGetListesDeDiffusionHandler(
	listes listedomain.Repository,
	conseiller ConseillerAuthorizer,
) *GetListesDeDiffusionHandler {
	return &GetListesDeDiffusionHandler{listes: listes, conseiller: conseiller}
}

func (h *GetListesDeDiffusionHandler) Authorize(
	ctx context.Context,
	q GetListesDeDiffusionQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.conseiller.AutoriserLeConseiller(ctx, q.IDConseiller, u)
}

func (h *GetListesDeDiffusionHandler) Handle(
	ctx context.Context,
	q GetListesDeDiffusionQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]listedomain.ListeDeDiffusion], error) {
	listes, err := h.listes.FindByConseiller(ctx, q.IDConseiller)
	if err != nil {
		return appcore.Result[[]listedomain.ListeDeDiffusion]{}, fmt.Errorf("find listes: %w", err)
	}
	sort.Slice(listes, func(i, j int) bool { return listes[i].Titre < listes[j].Titre })
	return appcore.Success(listes), nil
}
