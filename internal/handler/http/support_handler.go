package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	supportapp "github.com/lllypuk/passemploi/internal/application/support"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
)

type SupportExecutors struct {
	ChangerAgence     Executor[supportapp.UpdateAgenceConseillerCommand, supportapp.ChangementAgence]
	ConseillersAgence Executor[supportapp.GetConseillersDeLAgenceQuery, []conseiller.Conseiller]
}

type ChangerAgenceRequest struct {
	IDConseiller  string `json:"idConseiller"`
	IDAgenceCible string `json:"idNouvelleAgence"`
}

// SupportHandler serves the support team and establishment supervisors.
type SupportHandler struct {
	executors SupportExecutors
}

func NewSupportHandler(executors SupportExecutors) *SupportHandler {
	return &SupportHandler{executors: executors}
}

func (h *SupportHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/support/changer-agence-conseiller", h.ChangerAgence)
	api.GET("/etablissements/:idAgence/conseillers", h.ConseillersAgence)
}

// ChangerAgence handles POST /api/v1/support/changer-agence-conseiller.
func (h *SupportHandler) ChangerAgence(c echo.Context) error {
	var req ChangerAgenceRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := supportapp.UpdateAgenceConseillerCommand{IDConseiller: req.IDConseiller, IDAgenceCible: req.IDAgenceCible}
	return execute(c, h.executors.ChangerAgence, cmd, http.StatusOK, toChangementAgenceResponse)
}

// ConseillersAgence handles GET /api/v1/etablissements/:idAgence/conseillers.
func (h *SupportHandler) ConseillersAgence(c echo.Context) error {
	query := supportapp.GetConseillersDeLAgenceQuery{IDAgence: c.Param("idAgence")}
	return execute(c, h.executors.ConseillersAgence, query, http.StatusOK, toConseillersResponse)
}
