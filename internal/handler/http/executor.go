// Package httphandler exposes the command and query executors over HTTP.
package httphandler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	"github.com/lllypuk/passemploi/internal/middleware"
)

// Executor is satisfied by appcore.CommandExecutor and appcore.QueryExecutor.
// Declared on the consumer side so handlers can be tested with fakes.
type Executor[I, R any] interface {
	Execute(ctx context.Context, input I, utilisateur authentification.Utilisateur) (appcore.Result[R], error)
}

// execute runs exec for the authenticated utilisateur and renders its Result.
// The response body is built from the Result data by render.
func execute[I, R any](
	c echo.Context,
	exec Executor[I, R],
	input I,
	status int,
	render func(R) any,
) error {
	utilisateur, ok := middleware.GetUtilisateur(c)
	if !ok {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	// Unexpected errors are already logged by the executor.
	result, err := exec.Execute(c.Request().Context(), input, utilisateur)
	if err != nil {
		return httpserver.RespondError(c, err)
	}
	if result.IsFailure() || render == nil {
		return httpserver.RespondResult(c, status, result, nil)
	}
	return httpserver.RespondResult(c, status, appcore.Success(render(result.Data())), nil)
}

// bindBody decodes the JSON body into req. On failure it writes a
// MAUVAISE_COMMANDE response and returns false with the write error.
func bindBody(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, httpserver.RespondDomainError(c, errs.BadCommand("Corps de requête invalide"))
	}
	return true, nil
}

type idResponse struct {
	ID string `json:"id"`
}

func asID(id string) any {
	return idResponse{ID: id}
}
