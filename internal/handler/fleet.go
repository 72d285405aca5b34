package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/model"
)

// FleetStore is the airplane persistence FleetHandler needs.
type FleetStore interface {
	ListTypes(ctx context.Context) ([]model.AirplaneType, error)
	GetType(ctx context.Context, id uint64) (model.AirplaneType, error)
	CreateType(ctx context.Context, t *model.AirplaneType) error
	UpdateType(ctx context.Context, t model.AirplaneType) error
	DeleteType(ctx context.Context, id uint64) error
	ListAirplanes(ctx context.Context) ([]model.Airplane, error)
	GetAirplane(ctx context.Context, id uint64) (model.Airplane, error)
	CreateAirplane(ctx context.Context, p *model.Airplane) error
	UpdateAirplane(ctx context.Context, p model.Airplane) error
	DeleteAirplane(ctx context.Context, id uint64) error
}

// FleetHandler serves /v1/airplane-types and /v1/airplanes.
type FleetHandler struct {
	Fleet FleetStore
}

func NewFleetHandler(fleet FleetStore) *FleetHandler { return &FleetHandler{Fleet: fleet} }

// airplaneView adds the derived capacity to an airplane.
type airplaneView struct {
	model.Airplane
	PlaneCapacity int `json:"plane_capacity"`
}

func viewAirplane(p model.Airplane) airplaneView {
	return airplaneView{Airplane: p, PlaneCapacity: p.Capacity()}
}

// ----- airplane types -----

func bindType(c echo.Context, id uint64) (model.AirplaneType, error) {
	var t model.AirplaneType
	if err := c.Bind(&t); err != nil {
		return t, invalidInput("invalid body")
	}
	t.ID = id
	if t.Name = strings.TrimSpace(t.Name); t.Name == "" {
		return t, invalidInput("name required")
	}
	return t, nil
}

func (h *FleetHandler) ListTypes(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	out, err := h.Fleet.ListTypes(ctx)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FleetHandler) GetType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid airplane type id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Fleet.GetType(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *FleetHandler) CreateType(c echo.Context) error {
	t, err := bindType(c, 0)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Fleet.CreateType(ctx, &t); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *FleetHandler) UpdateType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid airplane type id")
	}
	t, err := bindType(c, id)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Fleet.UpdateType(ctx, t); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *FleetHandler) DeleteType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid airplane type id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Fleet.DeleteType(ctx, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- airplanes -----

func bindAirplane(c echo.Context, id uint64) (model.Airplane, error) {
	var p model.Airplane
	if err := c.Bind(&p); err != nil {
		return p, invalidInput("invalid body")
	}
	p.ID = id
	p.TypeName = ""
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return p, invalidInput("name required")
	case p.Rows < 1:
		return p, invalidInput("rows must be at least 1")
	case p.SeatsInRow < 1:
		return p, invalidInput("seats_in_row must be at least 1")
	case p.AirplaneTypeID == 0:
		return p, invalidInput("airplane_type required")
	}
	return p, nil
}

func (h *FleetHandler) ListAirplanes(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	planes, err := h.Fleet.ListAirplanes(ctx)
	if err != nil {
		return renderError(c, err)
	}
	out := make([]airplaneView, 0, len(planes))
	for _, p := range planes {
		out = append(out, viewAirplane(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FleetHandler) GetAirplane(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid airplane id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	p, err := h.Fleet.GetAirplane(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, viewAirplane(p))
}

func (h *FleetHandler) CreateAirplane(c echo.Context) error {
	p, err := bindAirplane(c, 0)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Fleet.CreateAirplane(ctx, &p); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, viewAirplane(p))
}

func (h *FleetHandler) UpdateAirplane(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid airplane id")
	}
	p, err := bindAirplane(c, id)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Fleet.UpdateAirplane(ctx, p); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, viewAirplane(p))
}

// DeleteAirplane answers 409 while flights still use the airplane.
func (h *FleetHandler) DeleteAirplane(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid airplane id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Fleet.DeleteAirplane(ctx, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
