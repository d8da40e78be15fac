package httphandler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	actionapp "github.com/lllypuk/passemploi/internal/application/action"
	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	"github.com/lllypuk/passemploi/internal/middleware"
)

type ActionExecutors struct {
	Create       Executor[actionapp.CreateActionCommand, string]
	UpdateStatut Executor[actionapp.UpdateStatutActionCommand, appcore.Unit]
	Delete       Executor[actionapp.DeleteActionCommand, appcore.Unit]
	List         Executor[actionapp.GetActionsJeuneQuery, actionapp.ActionsJeune]
	Detail       Executor[actionapp.GetDetailActionQuery, action.Action]
}

// CreateActionRequest is the body of POST /jeunes/:idJeune/actions.
type CreateActionRequest struct {
	Contenu           string    `json:"content"`
	Commentaire       string    `json:"comment"`
	Statut            string    `json:"status"`
	DateEcheance      time.Time `json:"dateEcheance"`
	Rappel            *bool     `json:"rappel"`
	CodeQualification string    `json:"codeQualification"`
}

type UpdateStatutActionRequest struct {
	Statut string `json:"status"`
}

// ActionHandler handles the actions of a jeune.
type ActionHandler struct {
	executors ActionExecutors
}

func NewActionHandler(executors ActionExecutors) *ActionHandler {
	return &ActionHandler{executors: executors}
}

func (h *ActionHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/jeunes/:idJeune/actions", h.List)
	api.POST("/jeunes/:idJeune/actions", h.Create)
	api.GET("/actions/:idAction", h.Detail)
	api.PUT("/actions/:idAction", h.UpdateStatut)
	api.DELETE("/actions/:idAction", h.Delete)
}

// List handles GET /api/v1/jeunes/:idJeune/actions?page=&statuts=.
func (h *ActionHandler) List(c echo.Context) error {
	page := 0
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return httpserver.RespondDomainError(c, errs.BadCommand("page doit être un entier positif"))
		}
		page = parsed
	}

	var statuts []action.Statut
	for _, raw := range c.QueryParams()["statuts"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuts = append(statuts, action.Statut(s))
			}
		}
	}

	query := actionapp.GetActionsJeuneQuery{IDJeune: c.Param("idJeune"), Page: page, Statuts: statuts}
	return execute(c, h.executors.List, query, http.StatusOK, toActionsJeuneResponse)
}

// Create handles POST /api/v1/jeunes/:idJeune/actions. The creator is the
// authenticated utilisateur, either the jeune or one of his conseillers.
func (h *ActionHandler) Create(c echo.Context) error {
	var req CreateActionRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	u, _ := middleware.GetUtilisateur(c)
	typeCreateur := action.TypeCreateurConseiller
	if authentification.EstJeune(u.Type) {
		typeCreateur = action.TypeCreateurJeune
	}

	cmd := actionapp.CreateActionCommand{
		IDJeune:           c.Param("idJeune"),
		Contenu:           req.Contenu,
		Commentaire:       req.Commentaire,
		IDCreateur:        u.ID,
		TypeCreateur:      typeCreateur,
		Statut:            action.Statut(req.Statut),
		DateEcheance:      req.DateEcheance,
		Rappel:            req.Rappel,
		CodeQualification: action.CodeQualification(req.CodeQualification),
	}
	return execute(c, h.executors.Create, cmd, http.StatusCreated, asID)
}

// Detail handles GET /api/v1/actions/:idAction.
func (h *ActionHandler) Detail(c echo.Context) error {
	query := actionapp.GetDetailActionQuery{IDAction: c.Param("idAction")}
	return execute(c, h.executors.Detail, query, http.StatusOK, func(a action.Action) any {
		return newActionResponse(a)
	})
}

// UpdateStatut handles PUT /api/v1/actions/:idAction.
func (h *ActionHandler) UpdateStatut(c echo.Context) error {
	var req UpdateStatutActionRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	cmd := actionapp.UpdateStatutActionCommand{IDAction: c.Param("idAction"), Statut: action.Statut(req.Statut)}
	return execute[actionapp.UpdateStatutActionCommand, appcore.Unit](c, h.executors.UpdateStatut, cmd, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/v1/actions/:idAction.
func (h *ActionHandler) Delete(c echo.Context) error {
	cmd := actionapp.DeleteActionCommand{IDAction: c.Param("idAction")}
	return execute[actionapp.DeleteActionCommand, appcore.Unit](c, h.executors.Delete, cmd, http.StatusNoContent, nil)
}
