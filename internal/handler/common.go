// Package handler exposes the HTTP surface: auth, destinations, bookings
// and admin management. Handlers bind request DTOs, call repositories or the
// booking service with a bounded context, and translate domain errors to
// status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/repository"
	"github.com/safarnama/tourism-booking/internal/service"
)

// dbCtx bounds a request-scoped database call.
func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// actorFrom reads the identity injected by the JWT middleware.
func actorFrom(c echo.Context) booking.Actor {
	id, _ := c.Get("user_id").(uint64)
	role, _ := c.Get("role").(string)
	return booking.Actor{ID: id, Role: role}
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// respondDomainErr maps domain and repository errors onto the API's error
// taxonomy: validation and illegal transitions are 400, authorization 403,
// missing rows 404, uniqueness and state conflicts 409.
func respondDomainErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrEvidenceMissing),
		errors.Is(err, booking.ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
