package http

import (
	"errors"
	"net/http"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/session"
	"parcelbridge/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// statusFor maps use case errors onto HTTP statuses. State conflicts are
// checked before validation errors because transition failures wrap both.
func statusFor(err error) int {
	var mismatch *commands.RouteMismatchError
	var feeErr *commands.FeeEstimateError

	switch {
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.As(err, &feeErr):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionExpired), errors.Is(err, session.ErrSessionEnded):
		return http.StatusUnauthorized
	case errors.Is(err, journey.ErrNotOwnedByCarrier), errors.Is(err, commands.ErrNotParcelParticipant):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrParcelNotPending),
		errors.Is(err, commands.ErrInvalidStatusTransition),
		errors.Is(err, commands.ErrJourneyNotActive):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Server errors are logged and their text
// is not returned.
func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	body := Error{Code: status, Message: err.Error()}

	var mismatch *commands.RouteMismatchError
	var feeErr *commands.FeeEstimateError
	switch {
	case errors.As(err, &mismatch):
		body.Message = "journey does not cover the parcel route"
		body.Details = mismatch.Result
	case errors.As(err, &feeErr):
		body.Message = feeErr.Estimate.Error
		body.Details = feeErr.Estimate
	}

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		body.Message = "internal server error"
	}

	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: msg})
}
