package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/handler"
	"github.com/iliyamo/airline-booking/internal/middleware"
	"github.com/iliyamo/airline-booking/internal/model"
)

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers token endpoints under /v1/auth and the caller's
// own profile under /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// logout works with a refresh token in the body; a bearer token is optional
	g.POST("/logout", a.Logout, optionalJWT(jwtSecret))

	me := e.Group("/v1/me",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleCustomer),
	)
	me.GET("", a.Me)
	me.PUT("", a.UpdateMe)
	me.DELETE("", a.DeleteMe)
}

// RegisterOrders registers the order endpoints.  Any authenticated role may
// book; each caller only ever sees their own orders.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/orders",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleCustomer),
	)
	if limiter != nil {
		g.Use(limiter)
	}
	g.GET("", o.List)
	g.POST("", o.Create)
	g.DELETE("/:id", o.Delete)
}

// RegisterFlights registers flight browsing and admin maintenance.  Flight
// responses carry live availability and are never cached.
func RegisterFlights(e *echo.Echo, f *handler.FlightHandler, jwtSecret string) {
	g := e.Group("/v1/flights", middleware.AdminOrReadOnly(jwtSecret))
	g.GET("", f.List)
	g.GET("/:id", f.Get)
	g.GET("/:id/seats-available", f.SeatsAvailable)
	g.POST("", f.Create)
	g.PUT("/:id", f.Update)
	g.DELETE("/:id", f.Delete)
}

// Catalog groups the read-mostly handlers served through the response cache.
type Catalog struct {
	Routes    *handler.RouteHandler
	Fleet     *handler.FleetHandler
	Locations *handler.LocationHandler
}

// RegisterCatalog registers routes, fleet and locations.  Reads are public
// and cached; writes need the ADMIN role and flush the cache.
func RegisterCatalog(e *echo.Echo, cat Catalog, jwtSecret string, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{middleware.AdminOrReadOnly(jwtSecret)}
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)

	// ---- Routes ----
	g.GET("/routes", cat.Routes.List)
	g.GET("/routes/:id", cat.Routes.Get)
	g.POST("/routes", cat.Routes.Create)
	g.PUT("/routes/:id", cat.Routes.Update)
	g.DELETE("/routes/:id", cat.Routes.Delete)

	// ---- Fleet ----
	g.GET("/airplane-types", cat.Fleet.ListTypes)
	g.GET("/airplane-types/:id", cat.Fleet.GetType)
	g.POST("/airplane-types", cat.Fleet.CreateType)
	g.PUT("/airplane-types/:id", cat.Fleet.UpdateType)
	g.DELETE("/airplane-types/:id", cat.Fleet.DeleteType)

	g.GET("/airplanes", cat.Fleet.ListAirplanes)
	g.GET("/airplanes/:id", cat.Fleet.GetAirplane)
	g.POST("/airplanes", cat.Fleet.CreateAirplane)
	g.PUT("/airplanes/:id", cat.Fleet.UpdateAirplane)
	g.DELETE("/airplanes/:id", cat.Fleet.DeleteAirplane)

	// ---- Locations ----
	l := cat.Locations
	g.GET("/countries", l.ListCountries)
	g.GET("/countries/:id", l.GetCountry)
	g.POST("/countries", l.SaveCountry)
	g.PUT("/countries/:id", l.SaveCountry)
	g.DELETE("/countries/:id", l.DeleteCountry)

	g.GET("/cities", l.ListCities)
	g.GET("/cities/:id", l.GetCity)
	g.POST("/cities", l.SaveCity)
	g.PUT("/cities/:id", l.SaveCity)
	g.DELETE("/cities/:id", l.DeleteCity)

	g.GET("/airports", l.ListAirports)
	g.GET("/airports/:id", l.GetAirport)
	g.POST("/airports", l.SaveAirport)
	g.PUT("/airports/:id", l.SaveAirport)
	g.DELETE("/airports/:id", l.DeleteAirport)
}

// RegisterCrew registers crew maintenance.  Every operation, reads included,
// is ADMIN-only.
func RegisterCrew(e *echo.Echo, h *handler.CrewHandler, jwtSecret string) {
	g := e.Group("/v1/crew",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// optionalJWT runs JWTAuth only when an Authorization header is present.
func optionalJWT(secret string) echo.MiddlewareFunc {
	auth := middleware.JWTAuth(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withAuth := auth(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			return withAuth(c)
		}
	}
}
