package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	rechercheapp "github.com/lllypuk/passemploi/internal/application/recherche"
	"github.com/lllypuk/passemploi/internal/domain/recherche"
)

type RechercheExecutors struct {
	Create Executor[rechercheapp.CreateRechercheCommand, recherche.Recherche]
	Delete Executor[rechercheapp.DeleteRechercheCommand, appcore.Unit]
	List   Executor[rechercheapp.GetRecherchesJeuneQuery, []recherche.Recherche]
}

// CreateRechercheRequest is the body of POST /jeunes/:idJeune/recherches.
type CreateRechercheRequest struct {
	Titre        string         `json:"titre"`
	Type         string         `json:"type"`
	Metier       string         `json:"metier"`
	Localisation string         `json:"localisation"`
	Criteres     map[string]any `json:"criteres"`
}

// RechercheHandler handles the saved searches of a jeune.
type RechercheHandler struct {
	executors RechercheExecutors
}

func NewRechercheHandler(executors RechercheExecutors) *RechercheHandler {
	return &RechercheHandler{executors: executors}
}

func (h *RechercheHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/jeunes/:idJeune/recherches")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:idRecherche", h.Delete)
}

// List handles GET /api/v1/jeunes/:idJeune/recherches.
func (h *RechercheHandler) List(c echo.Context) error {
	query := rechercheapp.GetRecherchesJeuneQuery{IDJeune: c.Param("idJeune")}
	return execute(c, h.executors.List, query, http.StatusOK, toRecherchesResponse)
}

// Create handles POST /api/v1/jeunes/:idJeune/recherches.
func (h *RechercheHandler) Create(c echo.Context) error {
	var req CreateRechercheRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := rechercheapp.CreateRechercheCommand{
		IDJeune:      c.Param("idJeune"),
		Titre:        req.Titre,
		Type:         recherche.Type(req.Type),
		Metier:       req.Metier,
		Localisation: req.Localisation,
		Criteres:     req.Criteres,
	}
	return execute(c, h.executors.Create, cmd, http.StatusCreated, toRechercheResponse)
}

// Delete handles DELETE /api/v1/jeunes/:idJeune/recherches/:idRecherche.
func (h *RechercheHandler) Delete(c echo.Context) error {
	cmd := rechercheapp.DeleteRechercheCommand{IDJeune: c.Param("idJeune"), IDRecherche: c.Param("idRecherche")}
	return execute[rechercheapp.DeleteRechercheCommand, appcore.Unit](c, h.executors.Delete, cmd, http.StatusNoContent, nil)
}
