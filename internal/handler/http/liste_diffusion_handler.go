package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	listeapp "github.com/lllypuk/passemploi/internal/application/listediffusion"
	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
)

type ListeDeDiffusionExecutors struct {
	Create Executor[listeapp.CreateListeCommand, string]
	Update Executor[listeapp.UpdateListeCommand, appcore.Unit]
	Delete Executor[listeapp.DeleteListeCommand, appcore.Unit]
	List   Executor[listeapp.GetListesDeDiffusionQuery, []listediffusion.ListeDeDiffusion]
}

// ListeDeDiffusionRequest is the body of both creation and update.
type ListeDeDiffusionRequest struct {
	Titre            string   `json:"titre"`
	IDsBeneficiaires []string `json:"idsBeneficiaires"`
}

// ListeDeDiffusionHandler handles the broadcast lists of a conseiller.
type ListeDeDiffusionHandler struct {
	executors ListeDeDiffusionExecutors
}

func NewListeDeDiffusionHandler(executors ListeDeDiffusionExecutors) *ListeDeDiffusionHandler {
	return &ListeDeDiffusionHandler{executors: executors}
}

func (h *ListeDeDiffusionHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/conseillers/:idConseiller/listes-de-diffusion", h.List)
	api.POST("/conseillers/:idConseiller/listes-de-diffusion", h.Create)
	api.PUT("/listes-de-diffusion/:idListe", h.Update)
	api.DELETE("/listes-de-diffusion/:idListe", h.Delete)
}

// List handles GET /api/v1/conseillers/:idConseiller/listes-de-diffusion.
func (h *ListeDeDiffusionHandler) List(c echo.Context) error {
	query := listeapp.GetListesDeDiffusionQuery{IDConseiller: c.Param("idConseiller")}
	return execute(c, h.executors.List, query, http.StatusOK, toListesResponse)
}

// Create handles POST /api/v1/conseillers/:idConseiller/listes-de-diffusion.
func (h *ListeDeDiffusionHandler) Create(c echo.Context) error {
	var req ListeDeDiffusionRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := listeapp.CreateListeCommand{
		IDConseiller:     c.Param("idConseiller"),
		Titre:            req.Titre,
		IDsBeneficiaires: req.IDsBeneficiaires,
	}
	return execute(c, h.executors.Create, cmd, http.StatusCreated, asID)
}

// Update handles PUT /api/v1/listes-de-diffusion/:idListe.
func (h *ListeDeDiffusionHandler) Update(c echo.Context) error {
	var req ListeDeDiffusionRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := listeapp.UpdateListeCommand{
		IDListe:          c.Param("idListe"),
		Titre:            req.Titre,
		IDsBeneficiaires: req.IDsBeneficiaires,
	}
	return execute[listeapp.UpdateListeCommand, appcore.Unit](c, h.executors.Update, cmd, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/v1/listes-de-diffusion/:idListe.
func (h *ListeDeDiffusionHandler) Delete(c echo.Context) error {
	cmd := listeapp.DeleteListeCommand{IDListe: c.Param("idListe")}
	return execute[listeapp.DeleteListeCommand, appcore.Unit](c, h.executors.Delete, cmd, http.StatusNoContent, nil)
}
