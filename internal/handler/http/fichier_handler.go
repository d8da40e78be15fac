package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	fichierapp "github.com/lllypuk/passemploi/internal/application/fichier"
	"github.com/lllypuk/passemploi/internal/domain/fichier"
)

type FichierExecutors struct {
	Televerser  Executor[fichierapp.TeleverserFichierCommand, fichier.Metadonnees]
	Supprimer   Executor[fichierapp.SupprimerFichierCommand, appcore.Unit]
	Telecharger Executor[fichierapp.TelechargerFichierQuery, fichier.Metadonnees]
}

// TeleverserFichierRequest describes an uploaded file. The content itself goes
// to object storage and never transits through this API.
type TeleverserFichierRequest struct {
	IDsJeunes []string `json:"jeunesIds"`
	IDsListes []string `json:"listesIds"`
	Nom       string   `json:"nom"`
	MimeType  string   `json:"mimeType"`
	Taille    int64    `json:"taille"`
}

// FichierHandler handles the metadata of files shared by conseillers.
type FichierHandler struct {
	executors FichierExecutors
}

func NewFichierHandler(executors FichierExecutors) *FichierHandler {
	return &FichierHandler{executors: executors}
}

func (h *FichierHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/fichiers", h.Televerser)
	api.GET("/fichiers/:idFichier", h.Telecharger)
	api.DELETE("/fichiers/:idFichier", h.Supprimer)
}

// Televerser handles POST /api/v1/fichiers.
func (h *FichierHandler) Televerser(c echo.Context) error {
	var req TeleverserFichierRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := fichierapp.TeleverserFichierCommand{
		IDsJeunes: req.IDsJeunes,
		IDsListes: req.IDsListes,
		Nom:       req.Nom,
		MimeType:  req.MimeType,
		Taille:    req.Taille,
	}
	return execute(c, h.executors.Televerser, cmd, http.StatusCreated, toFichierResponse)
}

// Telecharger handles GET /api/v1/fichiers/:idFichier.
func (h *FichierHandler) Telecharger(c echo.Context) error {
	query := fichierapp.TelechargerFichierQuery{IDFichier: c.Param("idFichier")}
	return execute(c, h.executors.Telecharger, query, http.StatusOK, toFichierResponse)
}

// Supprimer handles DELETE /api/v1/fichiers/:idFichier.
func (h *FichierHandler) Supprimer(c echo.Context) error {
	cmd := fichierapp.SupprimerFichierCommand{IDFichier: c.Param("idFichier")}
	return execute[fichierapp.SupprimerFichierCommand, appcore.Unit](c, h.executors.Supprimer, cmd, http.StatusNoContent, nil)
}
