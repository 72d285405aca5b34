package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/middleware"
	"github.com/iliyamo/airline-booking/internal/repository"
)

const dbTimeout = 5 * time.Second

var errNoUser = errors.New("invalid user_id in context")

// invalidInput is a request validation failure rendered as 400.
type invalidInput string

func (e invalidInput) Error() string { return string(e) }

// getUserID returns the id JWTAuth stored for the caller.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := middleware.UserID(c); ok {
		return id, nil
	}
	return 0, errNoUser
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// renderError maps domain and repository errors onto HTTP responses.
// Ticket errors name the offending ticket and field so clients can point
// at the seat that failed.
func renderError(c echo.Context, err error) error {
	var bad invalidInput
	if errors.As(err, &bad) {
		return badRequest(c, bad.Error())
	}
	var te *booking.TicketError
	if errors.As(err, &te) {
		return c.JSON(ticketStatus(te.Err), echo.Map{
			"error":        ticketCode(te.Err),
			"ticket_index": te.Index,
			"field":        te.Field,
			"message":      te.Error(),
		})
	}
	switch {
	case errors.Is(err, booking.ErrEmptyOrder):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty_order", "message": err.Error()})
	case errors.Is(err, booking.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat_taken", "message": booking.ErrSeatTaken.Error()})
	case errors.Is(err, booking.ErrUnknownFlight):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	case errors.Is(err, booking.ErrSameAirports), errors.Is(err, booking.ErrArrivalBeforeDeparture):
		return badRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrTicketsOutsideGrid):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrProtected):
		return c.JSON(http.StatusConflict, echo.Map{"error": "resource is still referenced"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict with existing data"})
	case errors.Is(err, context.DeadlineExceeded), repository.IsContention(err):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database busy, try again"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func ticketStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrSeatTaken):
		return http.StatusConflict
	case errors.Is(err, booking.ErrUnknownFlight):
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func ticketCode(err error) string {
	switch {
	case errors.Is(err, booking.ErrSeatTaken):
		return "seat_taken"
	case errors.Is(err, booking.ErrUnknownFlight):
		return "unknown_flight"
	case errors.Is(err, booking.ErrOutOfRange):
		return "out_of_range"
	}
	return "invalid_ticket"
}
