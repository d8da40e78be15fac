package action

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	actiondomain "github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

// ActionsParPage is the page size of GetActionsJeune.
const ActionsParPage = 10

// GetActionsJeuneHandler lists the actions of a jeune, open ones first then by due date.
type GetActionsJeuneHandler struct {
	actions actiondomain.Repository
	jeune   JeuneAuthorizer
	agence  AgenceAuthorizer
}

func NewGetActionsJeuneHandler(
	actions actiondomain.Repository,
	jeuneAuthorizer JeuneAuthorizer,
	agenceAuthorizer AgenceAuthorizer,
) *GetActionsJeuneHandler {
	return &GetActionsJeuneHandler{actions: actions, jeune: jeuneAuthorizer, agence: agenceAuthorizer}
}

func (h *GetActionsJeuneHandler) Authorize(
	ctx context.Context,
	q GetActionsJeuneQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstConseiller(u.Type) {
		return h.agence.AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(ctx, q.IDJeune, u)
	}
	return h.jeune.AutoriserLeJeune(ctx, q.IDJeune, u)
}

func (h *GetActionsJeuneHandler) Handle(
	ctx context.Context,
	q GetActionsJeuneQuery,
	_ authentification.Utilisateur,
) (appcore.Result[ActionsJeune], error) {
	all, err := h.actions.FindByJeune(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[ActionsJeune]{}, fmt.Errorf("find actions: %w", err)
	}

	filtrees := all
	if len(q.Statuts) > 0 {
		filtrees = slices.DeleteFunc(slices.Clone(all), func(a actiondomain.Action) bool {
			return !slices.Contains(q.Statuts, a.Statut)
		})
	}

	page := max(q.Page, 1)
	offset := (page - 1) * ActionsParPage
	if page > 1 && offset >= len(filtrees) {
		return appcore.Failure[ActionsJeune](errs.NotFound("Page", strconv.Itoa(q.Page))), nil
	}

	sort.SliceStable(filtrees, func(i, j int) bool {
		ri, rj := rangStatut(filtrees[i].Statut), rangStatut(filtrees[j].Statut)
		if ri != rj {
			return ri < rj
		}
		return filtrees[i].DateEcheance.Before(filtrees[j].DateEcheance)
	})
	end := min(offset+ActionsParPage, len(filtrees))

	return appcore.Success(ActionsJeune{
		Actions: append([]actiondomain.Action{}, filtrees[offset:end]...),
		Metadonnees: Metadonnees{
			NombreTotal:          len(all),
			NombreFiltrees:       len(filtrees),
			NombreActionsParPage: ActionsParPage,
		},
	}), nil
}

func rangStatut(s actiondomain.Statut) int {
	switch s {
	case actiondomain.StatutEnCours:
		return 0
	case actiondomain.StatutPasCommencee:
		return 1
	case actiondomain.StatutTerminee:
		return 2
	default:
		return 3
	}
}
