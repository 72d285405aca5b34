package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/model"
	"github.com/iliyamo/airline-booking/internal/repository"
)

// FlightStore is the flight persistence FlightHandler needs.
type FlightStore interface {
	Search(ctx context.Context, q repository.FlightSearch) ([]repository.FlightRow, error)
	Detail(ctx context.Context, id uint64) (repository.FlightDetail, error)
	Create(ctx context.Context, f *model.Flight) error
	Update(ctx context.Context, f model.Flight) error
	Delete(ctx context.Context, id uint64) error
}

// Availability counts free seats of a flight.
type Availability interface {
	SeatsAvailable(ctx context.Context, flightID uint64) (int, error)
}

// FlightHandler serves /v1/flights.  Responses are never cached since
// they carry live seat counts.
type FlightHandler struct {
	Flights FlightStore
	Seats   Availability
}

func NewFlightHandler(flights FlightStore, seats Availability) *FlightHandler {
	return &FlightHandler{Flights: flights, Seats: seats}
}

type flightReq struct {
	Number        string    `json:"number"`
	Route         uint64    `json:"route"`
	Airplane      uint64    `json:"airplane"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Crew          []uint64  `json:"crew"`
}

func (r flightReq) toModel(id uint64) (model.Flight, error) {
	f := model.Flight{
		ID:            id,
		Number:        strings.TrimSpace(r.Number),
		RouteID:       r.Route,
		AirplaneID:    r.Airplane,
		DepartureTime: r.DepartureTime.UTC(),
		ArrivalTime:   r.ArrivalTime.UTC(),
		CrewIDs:       r.Crew,
	}
	switch {
	case f.Number == "":
		return f, invalidInput("number required")
	case f.RouteID == 0:
		return f, invalidInput("route required")
	case f.AirplaneID == 0:
		return f, invalidInput("airplane required")
	case f.DepartureTime.IsZero() || f.ArrivalTime.IsZero():
		return f, invalidInput("departure_time and arrival_time required (RFC 3339)")
	}
	if f.CrewIDs == nil {
		f.CrewIDs = []uint64{}
	}
	return f, booking.ValidateSchedule(f.DepartureTime, f.ArrivalTime)
}

// parseFlightSearch reads ?source, ?destination (comma separated airport
// ids) and ?departure_date, ?arrival_date (YYYY-MM-DD).
func parseFlightSearch(c echo.Context) (repository.FlightSearch, string) {
	var q repository.FlightSearch
	var ok bool
	if q.Sources, ok = parseIDList(c.QueryParam("source")); !ok {
		return q, "source must be a comma separated list of airport ids"
	}
	if q.Destinations, ok = parseIDList(c.QueryParam("destination")); !ok {
		return q, "destination must be a comma separated list of airport ids"
	}
	if q.DepartureDate, ok = parseDate(c.QueryParam("departure_date")); !ok {
		return q, "departure_date must be YYYY-MM-DD"
	}
	if q.ArrivalDate, ok = parseDate(c.QueryParam("arrival_date")); !ok {
		return q, "arrival_date must be YYYY-MM-DD"
	}
	return q, ""
}

func parseIDList(s string) ([]uint64, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	var out []uint64
	for _, p := range strings.Split(s, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// List returns flights matching the query filters with seats_available.
func (h *FlightHandler) List(c echo.Context) error {
	q, msg := parseFlightSearch(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rows, err := h.Flights.Search(ctx, q)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Get returns one flight with route, airplane, crew and taken seats.
func (h *FlightHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	fd, err := h.Flights.Detail(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, fd)
}

// SeatsAvailable returns the live free-seat count of a flight.
func (h *FlightHandler) SeatsAvailable(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Seats.SeatsAvailable(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flight": id, "seats_available": n})
}

func (h *FlightHandler) Create(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	f, err := req.toModel(0)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Flights.Create(ctx, &f); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *FlightHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	f, err := req.toModel(id)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Flights.Update(ctx, f); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a flight together with its tickets.
func (h *FlightHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Flights.Delete(ctx, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
