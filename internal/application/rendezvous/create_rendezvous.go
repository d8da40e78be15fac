package rendezvous

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	rdvdomain "github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

type ConseillerGetter interface {
	Get(ctx context.Context, id string) (*conseiller.Conseiller, error)
}

type JeunesFinder interface {
	FindAll(ctx context.Context, ids []string) ([]jeune.Jeune, error)
}

// CreateRendezVousHandler creates an individual rendez-vous or an animation collective.
type CreateRendezVousHandler struct {
	appcore.NoAggregate[CreateRendezVousCommand, rdvdomain.RendezVous]

	rendezVous  rdvdomain.Repository
	conseillers ConseillerGetter
	jeunes      JeunesFinder
	authorizer  ConseillerAuthorizer
	evenements  *evenement.Service
}

func NewCreateRendezVousHandler(
	rendezVous rdvdomain.Repository,
	conseillers ConseillerGetter,
	jeunes JeunesFinder,
	authorizer ConseillerAuthorizer,
	evenements *evenement.Service,
) *CreateRendezVousHandler {
	return &CreateRendezVousHandler{
		rendezVous:  rendezVous,
		conseillers: conseillers,
		jeunes:      jeunes,
		authorizer:  authorizer,
		evenements:  evenements,
	}
}

func (h *CreateRendezVousHandler) Authorize(
	ctx context.Context,
	cmd CreateRendezVousCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserLeConseiller(ctx, cmd.IDConseiller, u)
}

func (h *CreateRendezVousHandler) Handle(
	ctx context.Context,
	cmd CreateRendezVousCommand,
	_ authentification.Utilisateur,
	_ *rdvdomain.RendezVous,
) (appcore.Result[string], error) {
	checks := []*errs.DomainError{
		appcore.ValidateDateNotZero("date", cmd.Date),
		appcore.ValidatePositive("duree", cmd.Duree),
		appcore.ValidateMaxLength("titre", cmd.Titre, appcore.MaxTitleLength),
	}
	if cmd.Type != "" {
		checks = append(checks, appcore.ValidateEnum("type", cmd.Type, rdvdomain.Types))
	}
	if !rdvdomain.EstUnTypeAnimationCollective(cmd.Type) {
		checks = append(checks, appcore.ValidateNotEmpty("jeunesIds", cmd.IDsJeunes))
	}
	if invalid := appcore.FirstInvalid(checks...); invalid != nil {
		return appcore.Failure[string](invalid), nil
	}

	c, err := h.conseillers.Get(ctx, cmd.IDConseiller)
	if err != nil {
		return appcore.Result[string]{}, fmt.Errorf("get conseiller: %w", err)
	}
	if c == nil {
		return appcore.Failure[string](errs.NotFound("Conseiller", cmd.IDConseiller)), nil
	}

	jeunes, notFound, err := chargerJeunes(ctx, h.jeunes, cmd.IDsJeunes)
	if err != nil {
		return appcore.Result[string]{}, err
	}
	if notFound != nil {
		return appcore.Failure[string](notFound), nil
	}

	rdv, domainErr := rdvdomain.Creer(rdvdomain.InfosACreer{
		ID:                 uuid.NewString(),
		Commentaire:        cmd.Commentaire,
		Date:               cmd.Date,
		Duree:              cmd.Duree,
		Modalite:           cmd.Modalite,
		Titre:              cmd.Titre,
		Type:               cmd.Type,
		Precision:          cmd.Precision,
		Adresse:            cmd.Adresse,
		Organisme:          cmd.Organisme,
		PresenceConseiller: cmd.PresenceConseiller,
		Invitation:         cmd.Invitation,
	}, jeunes, c)
	if domainErr != nil {
		return appcore.Failure[string](domainErr), nil
	}

	if err := h.rendezVous.Save(ctx, rdv); err != nil {
		return appcore.Result[string]{}, fmt.Errorf("save rendez-vous: %w", err)
	}
	return appcore.Success(rdv.ID), nil
}

func (h *CreateRendezVousHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	cmd CreateRendezVousCommand,
	_ *rdvdomain.RendezVous,
) error {
	code := evenement.CodeRendezVousCree
	if rdvdomain.EstUnTypeAnimationCollective(cmd.Type) {
		code = evenement.CodeAnimationCollectiveCreee
	}
	return h.evenements.Creer(ctx, code, u)
}

// chargerJeunes loads every id or fails with NotFound naming the missing ones.
func chargerJeunes(ctx context.Context, finder JeunesFinder, ids []string) ([]jeune.Jeune, *errs.DomainError, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	jeunes, err := finder.FindAll(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("find jeunes: %w", err)
	}
	if len(jeunes) == len(ids) {
		return jeunes, nil, nil
	}

	found := make(map[string]bool, len(jeunes))
	for _, j := range jeunes {
		found[j.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return nil, errs.NotFound("Jeune", strings.Join(missing, ", ")), nil
}
