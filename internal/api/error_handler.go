package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<reason>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMissingParameters):
		return http.StatusBadRequest, "Invalid Request, Missing Parameters"
	case errors.Is(err, domain.ErrInvalidEmailDomain):
		return http.StatusBadRequest, "Please Enter the College Email ID"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid Token"
	case errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusForbidden, "Invalid Role"
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusForbidden, "Please verify your email"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, "This account is already verified"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrNameExists):
		return http.StatusConflict, "Name Already Exists"
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "The email already exists"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, domain.ErrDocumentExists):
		return http.StatusConflict, "File with the Same Name Exists"
	case errors.Is(err, domain.ErrInvalidScheme):
		return http.StatusBadRequest, "Invalid Scheme or Subject Provided"
	case errors.Is(err, domain.ErrSchemeNotFound):
		return http.StatusNotFound, "Scheme Not Found"
	case errors.Is(err, domain.ErrSchemeExists):
		return http.StatusConflict, "Scheme Already Exists"
	case errors.Is(err, domain.ErrMetadataResidue):
		// The blob is gone but the record remains; operators reconcile from
		// the service logs. The client still gets a generic failure.
		log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("metadata residue after blob deletion")
		return http.StatusInternalServerError, "Internal Server Error"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal Server Error"
}
