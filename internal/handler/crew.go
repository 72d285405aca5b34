package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/model"
)

// CrewStore is the crew persistence CrewHandler needs.
type CrewStore interface {
	List(ctx context.Context) ([]model.Crew, error)
	Get(ctx context.Context, id uint64) (model.Crew, error)
	Create(ctx context.Context, m *model.Crew) error
	Update(ctx context.Context, m model.Crew) error
	Delete(ctx context.Context, id uint64) error
}

// CrewHandler serves /v1/crew; every endpoint is admin only.
type CrewHandler struct {
	Crew CrewStore
}

func NewCrewHandler(crew CrewStore) *CrewHandler { return &CrewHandler{Crew: crew} }

func bindCrew(c echo.Context, id uint64) (model.Crew, error) {
	var m model.Crew
	if err := c.Bind(&m); err != nil {
		return m, invalidInput("invalid body")
	}
	m.ID = id
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	if m.FirstName == "" || m.LastName == "" {
		return m, invalidInput("first_name and last_name required")
	}
	return m, nil
}

func (h *CrewHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	out, err := h.Crew.List(ctx)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CrewHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid crew id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	m, err := h.Crew.Get(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *CrewHandler) Create(c echo.Context) error {
	m, err := bindCrew(c, 0)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Crew.Create(ctx, &m); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *CrewHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid crew id")
	}
	m, err := bindCrew(c, id)
	if err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Crew.Update(ctx, m); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *CrewHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid crew id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Crew.Delete(ctx, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
