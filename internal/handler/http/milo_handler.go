package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	miloapp "github.com/lllypuk/passemploi/internal/application/milo"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/milo"
)

type MiloExecutors struct {
	Sessions Executor[miloapp.GetSessionsConseillerMiloQuery, []milo.Session]
	Jeunes   Executor[miloapp.GetJeunesByStructureMiloQuery, []jeune.Jeune]
}

// MiloHandler exposes the Milo structures and their sessions.
type MiloHandler struct {
	executors MiloExecutors
}

func NewMiloHandler(executors MiloExecutors) *MiloHandler {
	return &MiloHandler{executors: executors}
}

func (h *MiloHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/conseillers/milo/:idConseiller/sessions", h.Sessions)
	api.GET("/structures-milo/:idStructureMilo/jeunes", h.Jeunes)
}

// Sessions handles GET /api/v1/conseillers/milo/:idConseiller/sessions.
func (h *MiloHandler) Sessions(c echo.Context) error {
	query := miloapp.GetSessionsConseillerMiloQuery{IDConseiller: c.Param("idConseiller")}
	return execute(c, h.executors.Sessions, query, http.StatusOK, toSessionsResponse)
}

// Jeunes handles GET /api/v1/structures-milo/:idStructureMilo/jeunes.
func (h *MiloHandler) Jeunes(c echo.Context) error {
	query := miloapp.GetJeunesByStructureMiloQuery{IDStructureMilo: c.Param("idStructureMilo")}
	return execute(c, h.executors.Jeunes, query, http.StatusOK, toJeunesResponse)
}
