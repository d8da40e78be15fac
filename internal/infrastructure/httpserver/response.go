package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents an error in the API response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

const (
	codeInternalError     = "INTERNAL_ERROR"
	internalErrorMessage  = "An internal error occurred"
	minUpstreamStatusCode = 400
	maxUpstreamStatusCode = 599
)

// RespondJSON sends a successful JSON response.
func RespondJSON(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{
		Success: true,
		Data:    data,
	})
}

// RespondOK sends a 200 OK response with data.
func RespondOK(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data.
func RespondCreated(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response.
func RespondNoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// RespondResult renders the outcome of an executor. An unexpected error becomes a 500,
// a failed Result is mapped from its DomainError and a success is written with
// successStatus (204 writes no body).
func RespondResult[T any](c echo.Context, successStatus int, result appcore.Result[T], err error) error {
	if err != nil {
		return RespondError(c, err)
	}
	if result.IsFailure() {
		return RespondDomainError(c, result.Error())
	}
	if successStatus == http.StatusNoContent {
		return RespondNoContent(c)
	}
	return RespondJSON(c, successStatus, result.Data())
}

// RespondError sends an error JSON response. A DomainError anywhere in the chain
// is rendered as such; anything else is an internal error whose details stay in the logs.
func RespondError(c echo.Context, err error) error {
	var domainErr *errs.DomainError
	if errors.As(err, &domainErr) {
		return RespondDomainError(c, domainErr)
	}
	return RespondErrorWithCode(c, http.StatusInternalServerError, codeInternalError, internalErrorMessage)
}

// RespondDomainError maps a DomainError onto its HTTP status.
func RespondDomainError(c echo.Context, err *errs.DomainError) error {
	return c.JSON(StatusOf(err), Response{
		Success: false,
		Error: &Error{
			Code:    string(err.Code),
			Message: err.Message,
			Reason:  string(err.Reason),
		},
	})
}

// RespondErrorWithCode sends an error JSON response with a specific HTTP status code.
func RespondErrorWithCode(c echo.Context, code int, errorCode, message string) error {
	return c.JSON(code, Response{
		Success: false,
		Error: &Error{
			Code:    errorCode,
			Message: message,
		},
	})
}

// StatusOf returns the HTTP status of a DomainError. ERREUR_HTTP keeps the partner
// status when it is an error status and falls back to 502 otherwise.
func StatusOf(err *errs.DomainError) int {
	switch err.Code {
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeForbidden:
		return http.StatusForbidden
	case errs.CodeBadCommand:
		return http.StatusBadRequest
	case errs.CodeNonTraitable:
		return http.StatusUnprocessableEntity
	case errs.CodeAlreadyExists:
		return http.StatusConflict
	case errs.CodeUpstream:
		if err.StatusCode >= minUpstreamStatusCode && err.StatusCode <= maxUpstreamStatusCode {
			return err.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
