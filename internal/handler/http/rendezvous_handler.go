package httphandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	rdvapp "github.com/lllypuk/passemploi/internal/application/rendezvous"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
)

type RendezVousExecutors struct {
	Create                Executor[rdvapp.CreateRendezVousCommand, string]
	Update                Executor[rdvapp.UpdateRendezVousCommand, appcore.Unit]
	Delete                Executor[rdvapp.DeleteRendezVousCommand, appcore.Unit]
	List                  Executor[rdvapp.GetRendezVousJeuneQuery, []rendezvous.RendezVous]
	Detail                Executor[rdvapp.GetDetailRendezVousQuery, rendezvous.RendezVous]
	AnimationsCollectives Executor[rdvapp.GetAnimationsCollectivesQuery, []rendezvous.RendezVous]
}

// CreateRendezVousRequest is the body of POST /conseillers/:idConseiller/rendezvous.
type CreateRendezVousRequest struct {
	IDsJeunes          []string  `json:"jeunesIds"`
	Commentaire        string    `json:"comment"`
	Date               time.Time `json:"date"`
	Duree              int       `json:"duration"`
	Modalite           string    `json:"modality"`
	Titre              string    `json:"titre"`
	Type               string    `json:"type"`
	Precision          string    `json:"precision"`
	Adresse            string    `json:"adresse"`
	Organisme          string    `json:"organisme"`
	PresenceConseiller *bool     `json:"presenceConseiller"`
	Invitation         bool      `json:"invitation"`
}

type UpdateRendezVousRequest struct {
	IDsJeunes          []string  `json:"jeunesIds"`
	Commentaire        string    `json:"comment"`
	Date               time.Time `json:"date"`
	Duree              int       `json:"duration"`
	Modalite           string    `json:"modality"`
	Adresse            string    `json:"adresse"`
	Organisme          string    `json:"organisme"`
	PresenceConseiller bool      `json:"presenceConseiller"`
}

// RendezVousHandler handles rendez-vous and animations collectives.
type RendezVousHandler struct {
	executors RendezVousExecutors
}

func NewRendezVousHandler(executors RendezVousExecutors) *RendezVousHandler {
	return &RendezVousHandler{executors: executors}
}

func (h *RendezVousHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/conseillers/:idConseiller/rendezvous", h.Create)
	api.GET("/rendezvous/:idRendezVous", h.Detail)
	api.PUT("/rendezvous/:idRendezVous", h.Update)
	api.DELETE("/rendezvous/:idRendezVous", h.Delete)
	api.GET("/jeunes/:idJeune/rendezvous", h.List)
	api.GET("/etablissements/:idAgence/animations-collectives", h.AnimationsCollectives)
}

// List handles GET /api/v1/jeunes/:idJeune/rendezvous?periode=PASSES|FUTURS.
func (h *RendezVousHandler) List(c echo.Context) error {
	periode := rdvapp.Periode(strings.ToUpper(c.QueryParam("periode")))
	switch periode {
	case rdvapp.PeriodeToutes, rdvapp.PeriodePasses, rdvapp.PeriodeFuturs:
	default:
		return httpserver.RespondDomainError(c, errs.BadCommand("periode doit valoir PASSES ou FUTURS"))
	}

	query := rdvapp.GetRendezVousJeuneQuery{IDJeune: c.Param("idJeune"), Periode: periode}
	return execute(c, h.executors.List, query, http.StatusOK, toRendezVousListResponse)
}

// Detail handles GET /api/v1/rendezvous/:idRendezVous.
func (h *RendezVousHandler) Detail(c echo.Context) error {
	query := rdvapp.GetDetailRendezVousQuery{IDRendezVous: c.Param("idRendezVous")}
	return execute(c, h.executors.Detail, query, http.StatusOK, func(r rendezvous.RendezVous) any {
		return newRendezVousResponse(r)
	})
}

// AnimationsCollectives handles GET /api/v1/etablissements/:idAgence/animations-collectives.
func (h *RendezVousHandler) AnimationsCollectives(c echo.Context) error {
	query := rdvapp.GetAnimationsCollectivesQuery{IDAgence: c.Param("idAgence")}
	return execute(c, h.executors.AnimationsCollectives, query, http.StatusOK, toRendezVousListResponse)
}

// Create handles POST /api/v1/conseillers/:idConseiller/rendezvous.
func (h *RendezVousHandler) Create(c echo.Context) error {
	var req CreateRendezVousRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := rdvapp.CreateRendezVousCommand{
		IDConseiller:       c.Param("idConseiller"),
		IDsJeunes:          req.IDsJeunes,
		Commentaire:        req.Commentaire,
		Date:               req.Date,
		Duree:              req.Duree,
		Modalite:           req.Modalite,
		Titre:              req.Titre,
		Type:               rendezvous.CodeType(req.Type),
		Precision:          req.Precision,
		Adresse:            req.Adresse,
		Organisme:          req.Organisme,
		PresenceConseiller: req.PresenceConseiller,
		Invitation:         req.Invitation,
	}
	return execute(c, h.executors.Create, cmd, http.StatusCreated, asID)
}

// Update handles PUT /api/v1/rendezvous/:idRendezVous.
func (h *RendezVousHandler) Update(c echo.Context) error {
	var req UpdateRendezVousRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := rdvapp.UpdateRendezVousCommand{
		IDRendezVous:       c.Param("idRendezVous"),
		IDsJeunes:          req.IDsJeunes,
		Commentaire:        req.Commentaire,
		Date:               req.Date,
		Duree:              req.Duree,
		Modalite:           req.Modalite,
		Adresse:            req.Adresse,
		Organisme:          req.Organisme,
		PresenceConseiller: req.PresenceConseiller,
	}
	return execute[rdvapp.UpdateRendezVousCommand, appcore.Unit](c, h.executors.Update, cmd, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/v1/rendezvous/:idRendezVous.
func (h *RendezVousHandler) Delete(c echo.Context) error {
	cmd := rdvapp.DeleteRendezVousCommand{IDRendezVous: c.Param("idRendezVous")}
	return execute[rdvapp.DeleteRendezVousCommand, appcore.Unit](c, h.executors.Delete, cmd, http.StatusNoContent, nil)
}
