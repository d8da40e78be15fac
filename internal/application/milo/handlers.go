package milo

import (
	"context"
	"fmt"
	"sort"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	milodomain "github.com/lllypuk/passemploi/internal/domain/milo"
)

type GetSessionsConseillerMiloQuery struct {
	IDConseiller string
}

type GetJeunesByStructureMiloQuery struct {
	IDStructureMilo string
}

type ConseillerAuthorizer interface {
	AutoriserLeConseiller(
		ctx context.Context,
		idConseiller string,
		utilisateur authentification.Utilisateur,
		conditions ...authorizer.Condition,
	) (appcore.Result[appcore.Unit], error)
}

type StructureMiloAuthorizer interface {
	AutoriserConseillerPourUneStructureMilo(
		ctx context.Context,
		idStructureMilo string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

// SessionsClient reads the partner. A non-2xx answer is an ERREUR_HTTP failure;
// the error return is left to transport failures.
type SessionsClient interface {
	GetSessionsStructure(ctx context.Context, idStructureMilo string) (appcore.Result[[]milodomain.Session], error)
}

type ConseillerGetter interface {
	Get(ctx context.Context, id string) (*conseiller.Conseiller, error)
}

type JeunesByStructureFinder interface {
	FindByStructureMilo(ctx context.Context, idStructureMilo string) ([]jeune.Jeune, error)
}

// GetSessionsConseillerMiloHandler reads the sessions of the conseiller's structure
// from the partner. Partner errors are returned as ERREUR_HTTP failures.
type GetSessionsConseillerMiloHandler struct {
	conseillers ConseillerGetter
	client      SessionsClient
	authorizer  ConseillerAuthorizer
	evenements  *evenement.Service
}

func NewGetSessionsConseillerMiloHandler(
	conseillers ConseillerGetter,
	client SessionsClient,
	authorizer ConseillerAuthorizer,
	evenements *evenement.Service,
) *GetSessionsConseillerMiloHandler {
	return &GetSessionsConseillerMiloHandler{
		conseillers: conseillers,
		client:      client,
		authorizer:  authorizer,
		evenements:  evenements,
	}
}

func (h *GetSessionsConseillerMiloHandler) Authorize(
	ctx context.Context,
	q GetSessionsConseillerMiloQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserLeConseiller(ctx, q.IDConseiller, u, authorizer.SiStructure(core.EstMilo))
}

func (h *GetSessionsConseillerMiloHandler) Handle(
	ctx context.Context,
	q GetSessionsConseillerMiloQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]milodomain.Session], error) {
	c, err := h.conseillers.Get(ctx, q.IDConseiller)
	if err != nil {
		return appcore.Result[[]milodomain.Session]{}, fmt.Errorf("get conseiller: %w", err)
	}
	if c == nil {
		return appcore.Failure[[]milodomain.Session](errs.NotFound("Conseiller", q.IDConseiller)), nil
	}
	if c.IDStructureMilo == "" {
		return appcore.Failure[[]milodomain.Session](
			errs.NotFound("Structure Milo du conseiller", q.IDConseiller)), nil
	}

	result, err := h.client.GetSessionsStructure(ctx, c.IDStructureMilo)
	if err != nil {
		return appcore.Result[[]milodomain.Session]{}, fmt.Errorf("get sessions milo: %w", err)
	}
	if result.IsFailure() {
		return result, nil
	}

	sessions := result.Data()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].DateHeureDebut.Before(sessions[j].DateHeureDebut)
	})
	return appcore.Success(sessions), nil
}

func (h *GetSessionsConseillerMiloHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ GetSessionsConseillerMiloQuery,
) error {
	return h.evenements.Creer(ctx, evenement.CodeSessionsMiloConsultees, u)
}

// GetJeunesByStructureMiloHandler lists the jeunes attached to a Milo structure.
type GetJeunesByStructureMiloHandler struct {
	jeunes    JeunesByStructureFinder
	structure StructureMiloAuthorizer
}

func NewGetJeunesByStructureMiloHandler(
	jeunes JeunesByStructureFinder,
	structure StructureMiloAuthorizer,
) *GetJeunesByStructureMiloHandler {
	return &GetJeunesByStructureMiloHandler{jeunes: jeunes, structure: structure}
}

// Authorize requires a conseiller attached to the structure, supervisors included.
func (h *GetJeunesByStructureMiloHandler) Authorize(
	ctx context.Context,
	q GetJeunesByStructureMiloQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.structure.AutoriserConseillerPourUneStructureMilo(ctx, q.IDStructureMilo, u)
}

func (h *GetJeunesByStructureMiloHandler) Handle(
	ctx context.Context,
	q GetJeunesByStructureMiloQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]jeune.Jeune], error) {
	jeunes, err := h.jeunes.FindByStructureMilo(ctx, q.IDStructureMilo)
	if err != nil {
		return appcore.Result[[]jeune.Jeune]{}, fmt.Errorf("find jeunes: %w", err)
	}
	sort.Slice(jeunes, func(i, j int) bool {
		if jeunes[i].Nom != jeunes[j].Nom {
			return jeunes[i].Nom < jeunes[j].Nom
		}
		return jeunes[i].Prenom < jeunes[j].Prenom
	})
	return appcore.Success(jeunes), nil
}
