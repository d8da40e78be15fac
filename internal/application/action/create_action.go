package action

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	actiondomain "github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

// JeuneGetter loads the jeune an action is created for.
type JeuneGetter interface {
	Get(ctx context.Context, id string) (*jeune.Jeune, error)
}

// CreateActionHandler creates an action and returns its id.
type CreateActionHandler struct {
	appcore.NoAggregate[CreateActionCommand, actiondomain.Action]

	actions    actiondomain.Repository
	jeunes     JeuneGetter
	jeune      JeuneAuthorizer
	conseiller ConseillerAuthorizer
	evenements *evenement.Service
}

func NewCreateActionHandler(
	actions actiondomain.Repository,
	jeunes JeuneGetter,
	jeuneAuthorizer JeuneAuthorizer,
	conseillerAuthorizer ConseillerAuthorizer,
	evenements *evenement.Service,
) *CreateActionHandler {
	return &CreateActionHandler{
		actions:    actions,
		jeunes:     jeunes,
		jeune:      jeuneAuthorizer,
		conseiller: conseillerAuthorizer,
		evenements: evenements,
	}
}

func (h *CreateActionHandler) Authorize(
	ctx context.Context,
	cmd CreateActionCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstJeune(u.Type) {
		return h.jeune.AutoriserLeJeune(ctx, cmd.IDJeune, u)
	}
	return h.conseiller.AutoriserLeConseillerPourSonJeune(ctx, cmd.IDCreateur, cmd.IDJeune, u)
}

func (h *CreateActionHandler) Handle(
	ctx context.Context,
	cmd CreateActionCommand,
	_ authentification.Utilisateur,
	_ *actiondomain.Action,
) (appcore.Result[string], error) {
	checks := []*errs.DomainError{
		appcore.ValidateRequired("contenu", cmd.Contenu),
		appcore.ValidateMaxLength("contenu", cmd.Contenu, appcore.MaxTitleLength),
		appcore.ValidateEnum("typeCreateur", cmd.TypeCreateur,
			[]actiondomain.TypeCreateur{actiondomain.TypeCreateurJeune, actiondomain.TypeCreateurConseiller}),
		appcore.ValidateDateNotZero("dateEcheance", cmd.DateEcheance),
	}
	if cmd.Statut != "" {
		checks = append(checks, appcore.ValidateEnum("statut", cmd.Statut, actiondomain.Statuts))
	}
	if invalid := appcore.FirstInvalid(checks...); invalid != nil {
		return appcore.Failure[string](invalid), nil
	}

	j, err := h.jeunes.Get(ctx, cmd.IDJeune)
	if err != nil {
		return appcore.Result[string]{}, fmt.Errorf("get jeune: %w", err)
	}
	if j == nil {
		return appcore.Failure[string](errs.NotFound("Jeune", cmd.IDJeune)), nil
	}

	a, domainErr := actiondomain.New(actiondomain.NouvelleAction{
		ID:           uuid.NewString(),
		Contenu:      cmd.Contenu,
		Commentaire:  cmd.Commentaire,
		Statut:       cmd.Statut,
		TypeCreateur: cmd.TypeCreateur,
		DateEcheance: cmd.DateEcheance,
		Rappel:       cmd.Rappel,
		Code:         cmd.CodeQualification,
	}, j, time.Now())
	if domainErr != nil {
		return appcore.Failure[string](domainErr), nil
	}

	if err := h.actions.Save(ctx, a); err != nil {
		return appcore.Result[string]{}, fmt.Errorf("save action: %w", err)
	}
	return appcore.Success(a.ID), nil
}

// Monitor distinguishes suggested and referential actions from free-form ones.
func (h *CreateActionHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	cmd CreateActionCommand,
	_ *actiondomain.Action,
) error {
	var code evenement.Code
	switch {
	case authentification.EstJeune(u.Type) && cmd.CodeQualification != "":
		code = evenement.CodeActionCreeeSuggestion
	case authentification.EstJeune(u.Type):
		code = evenement.CodeActionCreeeHorsSuggestion
	case actiondomain.VientDuReferentiel(cmd.Contenu):
		code = evenement.CodeActionCreeeReferentiel
	default:
		code = evenement.CodeActionCreeeHorsReferentiel
	}
	return h.evenements.Creer(ctx, code, u)
}
