package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	favoriapp "github.com/lllypuk/passemploi/internal/application/favori"
	"github.com/lllypuk/passemploi/internal/domain/favori"
)

// FavoriExecutors groups the favori commands and queries.
type FavoriExecutors struct {
	Add         Executor[favoriapp.AddFavoriCommand, favori.Favori]
	Candidater  Executor[favoriapp.CandidaterFavoriCommand, favori.Favori]
	Delete      Executor[favoriapp.DeleteFavoriCommand, appcore.Unit]
	List        Executor[favoriapp.GetFavorisJeuneQuery, []favori.Favori]
	Get         Executor[favoriapp.GetFavoriQuery, favori.Favori]
	Metadonnees Executor[favoriapp.GetMetadonneesFavorisQuery, favoriapp.MetadonneesFavoris]
}

// AddFavoriRequest is the body of POST /jeunes/:idJeune/favoris.
type AddFavoriRequest struct {
	IDOffre         string `json:"idOffre"`
	Type            string `json:"type"`
	Titre           string `json:"titre"`
	Organisation    string `json:"organisation"`
	Localisation    string `json:"localisation"`
	AvecCandidature bool   `json:"aPostule"`
}

// FavoriHandler handles the bookmarked offers of a jeune.
type FavoriHandler struct {
	executors FavoriExecutors
}

func NewFavoriHandler(executors FavoriExecutors) *FavoriHandler {
	return &FavoriHandler{executors: executors}
}

// RegisterRoutes registers favori routes on the API group.
func (h *FavoriHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/jeunes/:idJeune/favoris")
	g.GET("", h.List)
	g.POST("", h.Add)
	g.GET("/metadonnees", h.Metadonnees)
	g.GET("/:idOffre", h.Get)
	g.POST("/:idOffre/candidature", h.Candidater)
	g.DELETE("/:idOffre", h.Delete)
}

// List handles GET /api/v1/jeunes/:idJeune/favoris.
func (h *FavoriHandler) List(c echo.Context) error {
	query := favoriapp.GetFavorisJeuneQuery{IDJeune: c.Param("idJeune")}
	return execute(c, h.executors.List, query, http.StatusOK, toFavorisResponse)
}

// Get handles GET /api/v1/jeunes/:idJeune/favoris/:idOffre.
func (h *FavoriHandler) Get(c echo.Context) error {
	query := favoriapp.GetFavoriQuery{IDJeune: c.Param("idJeune"), IDOffre: c.Param("idOffre")}
	return execute(c, h.executors.Get, query, http.StatusOK, toFavoriResponse)
}

// Metadonnees handles GET /api/v1/jeunes/:idJeune/favoris/metadonnees.
func (h *FavoriHandler) Metadonnees(c echo.Context) error {
	query := favoriapp.GetMetadonneesFavorisQuery{IDJeune: c.Param("idJeune")}
	return execute(c, h.executors.Metadonnees, query, http.StatusOK, toMetadonneesFavorisResponse)
}

// Add handles POST /api/v1/jeunes/:idJeune/favoris.
func (h *FavoriHandler) Add(c echo.Context) error {
	var req AddFavoriRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := favoriapp.AddFavoriCommand{
		IDJeune:         c.Param("idJeune"),
		IDOffre:         req.IDOffre,
		Type:            favori.TypeOffre(req.Type),
		Titre:           req.Titre,
		Organisation:    req.Organisation,
		Localisation:    req.Localisation,
		AvecCandidature: req.AvecCandidature,
	}
	return execute(c, h.executors.Add, cmd, http.StatusCreated, toFavoriResponse)
}

// Candidater handles POST /api/v1/jeunes/:idJeune/favoris/:idOffre/candidature.
func (h *FavoriHandler) Candidater(c echo.Context) error {
	cmd := favoriapp.CandidaterFavoriCommand{IDBeneficiaire: c.Param("idJeune"), IDOffre: c.Param("idOffre")}
	return execute(c, h.executors.Candidater, cmd, http.StatusOK, toFavoriResponse)
}

// Delete handles DELETE /api/v1/jeunes/:idJeune/favoris/:idOffre.
func (h *FavoriHandler) Delete(c echo.Context) error {
	cmd := favoriapp.DeleteFavoriCommand{IDJeune: c.Param("idJeune"), IDOffre: c.Param("idOffre")}
	return execute[favoriapp.DeleteFavoriCommand, appcore.Unit](c, h.executors.Delete, cmd, http.StatusNoContent, nil)
}
