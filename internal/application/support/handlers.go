// Package support holds the back-office operations of the support team and
// of establishment supervisors.
package support

import (
	"context"
	"fmt"
	"sort"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/agence"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

type UpdateAgenceConseillerCommand struct {
	IDConseiller  string
	IDAgenceCible string
}

// ChangementAgence reports the move performed by UpdateAgenceConseiller.
type ChangementAgence struct {
	IDConseiller     string
	IDAncienneAgence string
	IDNouvelleAgence string
}

type GetConseillersDeLAgenceQuery struct {
	IDAgence string
}

type SupportAuthorizer interface {
	AutoriserSupport(utilisateur authentification.Utilisateur) (appcore.Result[appcore.Unit], error)
}

type EtablissementAuthorizer interface {
	AutoriserConseillerSuperviseurDeLEtablissement(
		ctx context.Context,
		utilisateur authentification.Utilisateur,
		idAgence string,
	) (appcore.Result[appcore.Unit], error)
}

type AgenceGetter interface {
	Get(ctx context.Context, id string, structure core.Structure) (*agence.Agence, error)
}

// UpdateAgenceConseillerHandler moves a conseiller to another agence of his structure.
type UpdateAgenceConseillerHandler struct {
	appcore.NoMonitor[UpdateAgenceConseillerCommand, conseiller.Conseiller]

	conseillers conseiller.Repository
	agences     AgenceGetter
	support     SupportAuthorizer
}

func NewUpdateAgenceConseillerHandler(
	conseillers conseiller.Repository,
	agences AgenceGetter,
	support SupportAuthorizer,
) *UpdateAgenceConseillerHandler {
	return &UpdateAgenceConseillerHandler{conseillers: conseillers, agences: agences, support: support}
}

func (h *UpdateAgenceConseillerHandler) Authorize(
	_ context.Context,
	_ UpdateAgenceConseillerCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.support.AutoriserSupport(u)
}

func (h *UpdateAgenceConseillerHandler) GetAggregate(
	ctx context.Context,
	cmd UpdateAgenceConseillerCommand,
) (*conseiller.Conseiller, error) {
	return h.conseillers.Get(ctx, cmd.IDConseiller)
}

func (h *UpdateAgenceConseillerHandler) Handle(
	ctx context.Context,
	cmd UpdateAgenceConseillerCommand,
	_ authentification.Utilisateur,
	c *conseiller.Conseiller,
) (appcore.Result[ChangementAgence], error) {
	if c == nil {
		return appcore.Failure[ChangementAgence](errs.NotFound("Conseiller", cmd.IDConseiller)), nil
	}
	cible, err := h.agences.Get(ctx, cmd.IDAgenceCible, c.Structure)
	if err != nil {
		return appcore.Result[ChangementAgence]{}, fmt.Errorf("get agence: %w", err)
	}
	if cible == nil {
		return appcore.Failure[ChangementAgence](errs.NotFound("Agence", cmd.IDAgenceCible)), nil
	}
	if c.Agence == nil {
		return appcore.Failure[ChangementAgence](
			errs.BadCommand(fmt.Sprintf("Le conseiller %s n'a pas d'agence", c.ID))), nil
	}
	if c.Agence.ID == cible.ID {
		return appcore.Failure[ChangementAgence](
			errs.BadCommand(fmt.Sprintf("Le conseiller %s est déjà dans l'agence %s", c.ID, cible.ID))), nil
	}

	changement := ChangementAgence{
		IDConseiller:     c.ID,
		IDAncienneAgence: c.Agence.ID,
		IDNouvelleAgence: cible.ID,
	}
	c.Agence = &conseiller.Agence{ID: cible.ID, Nom: cible.Nom}
	if err := h.conseillers.Save(ctx, c); err != nil {
		return appcore.Result[ChangementAgence]{}, fmt.Errorf("save conseiller: %w", err)
	}
	return appcore.Success(changement), nil
}

// GetConseillersDeLAgenceHandler lists the conseillers of an agence for its
// supervisors and for the support team.
type GetConseillersDeLAgenceHandler struct {
	conseillers   conseiller.Repository
	support       SupportAuthorizer
	etablissement EtablissementAuthorizer
}

func NewGetConseillersDeLAgenceHandler(
	conseillers conseiller.Repository,
	support SupportAuthorizer,
	etablissement EtablissementAuthorizer,
) *GetConseillersDeLAgenceHandler {
	return &GetConseillersDeLAgenceHandler{conseillers: conseillers, support: support, etablissement: etablissement}
}

func (h *GetConseillersDeLAgenceHandler) Authorize(
	ctx context.Context,
	q GetConseillersDeLAgenceQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	if authentification.EstSupport(u.Type) {
		return h.support.AutoriserSupport(u)
	}
	return h.etablissement.AutoriserConseillerSuperviseurDeLEtablissement(ctx, u, q.IDAgence)
}

func (h *GetConseillersDeLAgenceHandler) Handle(
	ctx context.Context,
	q GetConseillersDeLAgenceQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]conseiller.Conseiller], error) {
	conseillers, err := h.conseillers.FindByAgence(ctx, q.IDAgence)
	if err != nil {
		return appcore.Result[[]conseiller.Conseiller]{}, fmt.Errorf("find conseillers: %w", err)
	}
	sort.Slice(conseillers, func(i, j int) bool {
		if conseillers[i].Nom != conseillers[j].Nom {
			return conseillers[i].Nom < conseillers[j].Nom
		}
		return conseillers[i].Prenom < conseillers[j].Prenom
	})
	return appcore.Success(conseillers), nil
}
