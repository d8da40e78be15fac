// Package authorizer holds one access-control strategy per protected resource.
//
// Every method answers "may this utilisateur act on this resource" with a
// Result: EmptySuccess when allowed, DROITS_INSUFFISANTS otherwise. A missing
// ownership fact is reported as DROITS_INSUFFISANTS as well, so callers cannot
// probe for the existence of resources they do not own. The error return only
// carries infrastructure failures. Authorizers never write.
package authorizer

import (
	"context"
	"slices"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/domain/fichier"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// ConseillerReader is the read side of conseiller.Repository used by authorizers.
type ConseillerReader interface {
	Get(ctx context.Context, id string) (*conseiller.Conseiller, error)
}

// JeuneReader is the read side of jeune.Repository used by authorizers.
type JeuneReader interface {
	Get(ctx context.Context, id string) (*jeune.Jeune, error)
	FindAll(ctx context.Context, ids []string) ([]jeune.Jeune, error)
	FindAllJeunesByIdsAndConseiller(ctx context.Context, ids []string, idConseiller string) ([]jeune.Jeune, error)
}

type ActionReader interface {
	Get(ctx context.Context, id string) (*action.Action, error)
	GetConseillerEtJeune(ctx context.Context, id string) (*action.ConseillerEtJeune, error)
}

type RendezVousReader interface {
	Get(ctx context.Context, id string) (*rendezvous.RendezVous, error)
}

type FavoriReader interface {
	Get(ctx context.Context, idBeneficiaire, idOffre string) (*favori.Favori, error)
}

type RechercheReader interface {
	ExisteRecherche(ctx context.Context, idJeune, idRecherche string) (bool, error)
}

type ListeDeDiffusionReader interface {
	Get(ctx context.Context, id string) (*listediffusion.ListeDeDiffusion, error)
}

type FichierReader interface {
	Get(ctx context.Context, id string) (*fichier.Metadonnees, error)
}

// Condition is an extra requirement on the utilisateur, checked before any read.
type Condition func(utilisateur authentification.Utilisateur) bool

// SiStructure requires the utilisateur's structure to satisfy accept.
func SiStructure(accept func(core.Structure) bool) Condition {
	return func(u authentification.Utilisateur) bool {
		return accept(u.Structure)
	}
}

// SiStructureParmi requires the utilisateur's structure to be one of structures.
func SiStructureParmi(structures ...core.Structure) Condition {
	return func(u authentification.Utilisateur) bool {
		return slices.Contains(structures, u.Structure)
	}
}

func satisfies(u authentification.Utilisateur, conditions []Condition) bool {
	for _, condition := range conditions {
		if !condition(u) {
			return false
		}
	}
	return true
}

func autorise() (appcore.Result[appcore.Unit], error) {
	return appcore.EmptySuccess(), nil
}

func refuse() (appcore.Result[appcore.Unit], error) {
	return appcore.Failure[appcore.Unit](errs.Forbidden()), nil
}

func fail(err error) (appcore.Result[appcore.Unit], error) {
	return appcore.Result[appcore.Unit]{}, err
}
