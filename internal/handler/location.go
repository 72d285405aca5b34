package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/model"
)

// LocationStore is the geography persistence LocationHandler needs.
type LocationStore interface {
	ListCountries(ctx context.Context) ([]model.Country, error)
	GetCountry(ctx context.Context, id uint64) (model.Country, error)
	CreateCountry(ctx context.Context, c *model.Country) error
	UpdateCountry(ctx context.Context, c model.Country) error
	DeleteCountry(ctx context.Context, id uint64) error

	ListCities(ctx context.Context) ([]model.City, error)
	GetCity(ctx context.Context, id uint64) (model.City, error)
	CreateCity(ctx context.Context, c *model.City) error
	UpdateCity(ctx context.Context, c model.City) error
	DeleteCity(ctx context.Context, id uint64) error

	ListAirports(ctx context.Context) ([]model.Airport, error)
	GetAirport(ctx context.Context, id uint64) (model.Airport, error)
	CreateAirport(ctx context.Context, a *model.Airport) error
	UpdateAirport(ctx context.Context, a model.Airport) error
	DeleteAirport(ctx context.Context, id uint64) error
}

// LocationHandler serves /v1/countries, /v1/cities and /v1/airports.
type LocationHandler struct {
	Locations LocationStore
}

func NewLocationHandler(l LocationStore) *LocationHandler { return &LocationHandler{Locations: l} }

// list, get and remove wrap the shared shape of the read and delete
// endpoints of all three resources.
func list[T any](c echo.Context, fn func(context.Context) ([]T, error)) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	out, err := fn(ctx)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func get[T any](c echo.Context, fn func(context.Context, uint64) (T, error)) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	v, err := fn(ctx, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func remove(c echo.Context, fn func(context.Context, uint64) error) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := fn(ctx, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// save binds v, validates it and stores it with create (id 0) or update.
func save[T any](c echo.Context, v *T, validate func(*T, uint64) error, create func(context.Context, *T) error, update func(context.Context, T) error) error {
	var id uint64
	if c.Param("id") != "" {
		var ok bool
		if id, ok = parseID(c, "id"); !ok {
			return badRequest(c, "invalid id")
		}
	}
	if err := c.Bind(v); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := validate(v, id); err != nil {
		return renderError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if id == 0 {
		if err := create(ctx, v); err != nil {
			return renderError(c, err)
		}
		return c.JSON(http.StatusCreated, v)
	}
	if err := update(ctx, *v); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func validCountry(v *model.Country, id uint64) error {
	v.ID = id
	if v.Name = strings.TrimSpace(v.Name); v.Name == "" {
		return invalidInput("name required")
	}
	return nil
}

func validCity(v *model.City, id uint64) error {
	v.ID = id
	if v.Name = strings.TrimSpace(v.Name); v.Name == "" {
		return invalidInput("name required")
	}
	if v.CountryID == 0 {
		return invalidInput("country_id required")
	}
	return nil
}

func validAirport(v *model.Airport, id uint64) error {
	v.ID = id
	v.ClosestCity, v.ClosestCountry = "", ""
	if v.Name = strings.TrimSpace(v.Name); v.Name == "" {
		return invalidInput("name required")
	}
	if v.ClosestCityID == 0 {
		return invalidInput("closest_big_city required")
	}
	return nil
}

func (h *LocationHandler) ListCountries(c echo.Context) error {
	return list(c, h.Locations.ListCountries)
}
func (h *LocationHandler) GetCountry(c echo.Context) error { return get(c, h.Locations.GetCountry) }
func (h *LocationHandler) SaveCountry(c echo.Context) error {
	return save(c, &model.Country{}, validCountry, h.Locations.CreateCountry, h.Locations.UpdateCountry)
}
func (h *LocationHandler) DeleteCountry(c echo.Context) error {
	return remove(c, h.Locations.DeleteCountry)
}

func (h *LocationHandler) ListCities(c echo.Context) error { return list(c, h.Locations.ListCities) }
func (h *LocationHandler) GetCity(c echo.Context) error    { return get(c, h.Locations.GetCity) }
func (h *LocationHandler) SaveCity(c echo.Context) error {
	return save(c, &model.City{}, validCity, h.Locations.CreateCity, h.Locations.UpdateCity)
}
func (h *LocationHandler) DeleteCity(c echo.Context) error { return remove(c, h.Locations.DeleteCity) }

func (h *LocationHandler) ListAirports(c echo.Context) error {
	return list(c, h.Locations.ListAirports)
}
func (h *LocationHandler) GetAirport(c echo.Context) error { return get(c, h.Locations.GetAirport) }
func (h *LocationHandler) SaveAirport(c echo.Context) error {
	return save(c, &model.Airport{}, validAirport, h.Locations.CreateAirport, h.Locations.UpdateAirport)
}
func (h *LocationHandler) DeleteAirport(c echo.Context) error {
	return remove(c, h.Locations.DeleteAirport)
}
