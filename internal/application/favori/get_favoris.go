package favori

import (
	"context"
	"fmt"
	"sort"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	favoridomain "github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/recherche"
)

// GetFavorisJeuneHandler lists the favoris of a jeune, most recent first.
// Conseillers need the jeune to share his favoris.
type GetFavorisJeuneHandler struct {
	favoris     favoridomain.Repository
	jeunes      JeuneAuthorizer
	conseillers PartageAuthorizer
	evenements  *evenement.Service
}

func NewGetFavorisJeuneHandler(
	favoris favoridomain.Repository,
	jeunes JeuneAuthorizer,
	conseillers PartageAuthorizer,
	evenements *evenement.Service,
) *GetFavorisJeuneHandler {
	return &GetFavorisJeuneHandler{favoris: favoris, jeunes: jeunes, conseillers: conseillers, evenements: evenements}
}

func (h *GetFavorisJeuneHandler) Authorize(
	ctx context.Context,
	q GetFavorisJeuneQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return autoriserJeuneOuConseiller(ctx, h.jeunes, h.conseillers, q.IDJeune, u, true)
}

func (h *GetFavorisJeuneHandler) Handle(
	ctx context.Context,
	q GetFavorisJeuneQuery,
	_ authentification.Utilisateur,
) (appcore.Result[[]favoridomain.Favori], error) {
	favoris, err := h.favoris.FindByBeneficiaire(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[[]favoridomain.Favori]{}, fmt.Errorf("find favoris: %w", err)
	}
	sort.SliceStable(favoris, func(i, j int) bool {
		return favoris[i].DateCreation.After(favoris[j].DateCreation)
	})
	if favoris == nil {
		favoris = []favoridomain.Favori{}
	}
	return appcore.Success(favoris), nil
}

// Monitor records the consultation only when a conseiller reads them.
func (h *GetFavorisJeuneHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ GetFavorisJeuneQuery,
) error {
	if !authentification.EstConseiller(u.Type) {
		return nil
	}
	return h.evenements.Creer(ctx, evenement.CodeFavorisConsultes, u)
}

// GetFavoriHandler returns one favori of the jeune.
type GetFavoriHandler struct {
	favoris favoridomain.Repository
	offres  OffreAuthorizer
}

func NewGetFavoriHandler(favoris favoridomain.Repository, offres OffreAuthorizer) *GetFavoriHandler {
	return &GetFavoriHandler{favoris: favoris, offres: offres}
}

func (h *GetFavoriHandler) Authorize(
	ctx context.Context,
	q GetFavoriQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.offres.AutoriserLeJeunePourSonOffre(ctx, q.IDJeune, q.IDOffre, u)
}

func (h *GetFavoriHandler) Handle(
	ctx context.Context,
	q GetFavoriQuery,
	_ authentification.Utilisateur,
) (appcore.Result[favoridomain.Favori], error) {
	f, err := h.favoris.Get(ctx, q.IDJeune, q.IDOffre)
	if err != nil {
		return appcore.Result[favoridomain.Favori]{}, fmt.Errorf("get favori: %w", err)
	}
	if f == nil {
		return appcore.Failure[favoridomain.Favori](errs.NotFound("Favori", q.IDOffre)), nil
	}
	return appcore.Success(*f), nil
}

// MetadonneesFavoris summarises the favoris and saved searches of a jeune.
type MetadonneesFavoris struct {
	AutoriseLePartage bool
	Offres            favoridomain.Metadonnees
	Recherches        MetadonneesRecherches
}

type MetadonneesRecherches struct {
	Total   int
	ParType map[recherche.Type]int
}

// JeuneGetter loads the jeune whose favoris are summarised.
type JeuneGetter interface {
	Get(ctx context.Context, id string) (*jeune.Jeune, error)
}

// RechercheFinder lists saved searches.
type RechercheFinder interface {
	FindByJeune(ctx context.Context, idJeune string) ([]recherche.Recherche, error)
}

type GetMetadonneesFavorisHandler struct {
	favoris     favoridomain.Repository
	recherches  RechercheFinder
	jeunes      JeuneGetter
	conseillers PartageAuthorizer
}

func NewGetMetadonneesFavorisHandler(
	favoris favoridomain.Repository,
	recherches RechercheFinder,
	jeunes JeuneGetter,
	conseillers PartageAuthorizer,
) *GetMetadonneesFavorisHandler {
	return &GetMetadonneesFavorisHandler{favoris: favoris, recherches: recherches, jeunes: jeunes, conseillers: conseillers}
}

func (h *GetMetadonneesFavorisHandler) Authorize(
	ctx context.Context,
	q GetMetadonneesFavorisQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.conseillers.AutoriserConseillerPourSonJeuneOuUnJeuneDeSonAgenceMilo(ctx, q.IDJeune, u)
}

func (h *GetMetadonneesFavorisHandler) Handle(
	ctx context.Context,
	q GetMetadonneesFavorisQuery,
	_ authentification.Utilisateur,
) (appcore.Result[MetadonneesFavoris], error) {
	j, err := h.jeunes.Get(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[MetadonneesFavoris]{}, fmt.Errorf("get jeune: %w", err)
	}
	if j == nil {
		return appcore.Failure[MetadonneesFavoris](errs.NotFound("Jeune", q.IDJeune)), nil
	}

	favoris, err := h.favoris.FindByBeneficiaire(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[MetadonneesFavoris]{}, fmt.Errorf("find favoris: %w", err)
	}
	recherches, err := h.recherches.FindByJeune(ctx, q.IDJeune)
	if err != nil {
		return appcore.Result[MetadonneesFavoris]{}, fmt.Errorf("find recherches: %w", err)
	}

	parType := make(map[recherche.Type]int, len(recherche.Types))
	for _, t := range recherche.Types {
		parType[t] = 0
	}
	for _, r := range recherches {
		parType[r.Type]++
	}

	return appcore.Success(MetadonneesFavoris{
		AutoriseLePartage: j.Preferences.PartageFavoris,
		Offres:            favoridomain.CompterMetadonnees(favoris),
		Recherches:        MetadonneesRecherches{Total: len(recherches), ParType: parType},
	}), nil
}
