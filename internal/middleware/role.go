package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-booking/internal/model"
)

// RequireRole aborts with 403 unless the role stored by JWTAuth is one of
// roles.  It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// AdminOrReadOnly lets safe methods through untouched and requires an
// admin access token for everything else.
func AdminOrReadOnly(secret string) echo.MiddlewareFunc {
	auth := JWTAuth(secret)
	admin := RequireRole(model.RoleAdmin)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := auth(admin(next))
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			return guarded(c)
		}
	}
}
