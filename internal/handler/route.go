package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/model"
)

// RouteStore is the route persistence RouteHandler needs.
type RouteStore interface {
	List(ctx context.Context) ([]model.Route, error)
	Get(ctx context.Context, id uint64) (model.Route, error)
	Create(ctx context.Context, r *model.Route) error
	Update(ctx context.Context, r model.Route) error
	Delete(ctx context.Context, id uint64) error
}

// RouteHandler serves /v1/routes.
type RouteHandler struct {
	Routes RouteStore
}

func NewRouteHandler(routes RouteStore) *RouteHandler { return &RouteHandler{Routes: routes} }

type routeReq struct {
	Source      uint64 `json:"source"`
	Destination uint64 `json:"destination"`
	Distance    int    `json:"distance"`
}

// bindRoute reads and validates a route body; the two airports must differ.
func bindRoute(c echo.Context, id uint64) (model.Route, error) {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return model.Route{}, invalidInput("invalid body")
	}
	if req.Source == 0 || req.Destination == 0 {
		return model.Route{}, invalidInput("source and destination required")
	}
	if req.Distance <= 0 {
		return model.Route{}, invalidInput("distance must be positive")
	}
	if err := booking.ValidateRoute(req.Source, req.Destination); err != nil {
		return model.Route{}, err
	}
	return model.Route{ID: id, SourceID: req.Source, DestinationID: req.Destination, Distance: req.Distance}, nil
}

func (h *RouteHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	out, err := h.Routes.List(ctx)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RouteHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid route id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rt, err := h.Routes.Get(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, rt)
}

func (h *RouteHandler) Create(c echo.Context) error {
	rt, err := bindRoute(c, 0)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Routes.Create(ctx, &rt); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, rt)
}

func (h *RouteHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid route id")
	}
	rt, err := bindRoute(c, id)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Routes.Update(ctx, rt); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, rt)
}

// Delete removes a route with its flights and their tickets.
func (h *RouteHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid route id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Routes.Delete(ctx, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
