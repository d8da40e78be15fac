package rendezvous

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	rdvdomain "github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// GetRendezVousJeuneHandler lists the rendez-vous of a jeune. Future ones come
// soonest first, past ones most recent first.
type GetRendezVousJeuneHandler struct {
	rendezVous rdvdomain.Repository
	jeune      JeuneAuthorizer
	agence     AgenceAuthorizer
	now        func() time.Time
}

func NewGetRendezVousJeuneHandler(
	rendezVous rdvdomain.Repository,
	jeuneAuthorizer JeuneAuthorizer,
	agenceAuthorizer AgenceAuthorizer,
) *GetRendezVousJeuneHandler {
	return &GetRendezVousJeuneHandler{
		rendezVous: rendezVous,
		jeune:      jeuneAuthorizer,
		agence:     agenceAuthorizer,
		now:        time.Now,
	}
}

func (h *GetRendezVousJeuneHandler) Authorize(
	ctx context.Context,
	q GetRendezVousJeuneQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstConseiller(u.Type) {
		return h.agence.AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(ctx, q.IDJeune, u)
	}
	return h.jeune.AutoriserLeJeune(ctx, q.IDJeune, u)
}

func (h *GetRendezVousJeuneHandler) Handle(
	ctx context.Context,
	q GetRendezVousJeuneQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]rdvdomain.RendezVous], error) {
	all, err := h.rendezVous.FindByJeune(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[[]rdvdomain.RendezVous]{}, fmt.Errorf("find rendez-vous: %w", err)
	}

	now := h.now()
	switch q.Periode {
	case PeriodePasses:
		all = slices.DeleteFunc(all, func(r rdvdomain.RendezVous) bool { return !r.Date.Before(now) })
		sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	case PeriodeFuturs:
		all = slices.DeleteFunc(all, func(r rdvdomain.RendezVous) bool { return r.Date.Before(now) })
		sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	default:
		sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	}
	return appcore.Success(all), nil
}
