package auth

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// Allowed is the role-membership decision: an empty required set allows
// everyone, a user without a role is denied everything restricted.
func Allowed(role string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if role == "" {
		return false
	}
	return slices.Contains(required, role)
}

// RequireRoles gates a route on the authenticated user's current role.
// Must run after RequireAuth has populated the context.
func (m *Middleware) RequireRoles(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(required) == 0 {
				return next(c)
			}

			user := UserFromContext(c)
			if user == nil || user.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "user role not found")
			}

			if !Allowed(user.Role, required) {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}

			return next(c)
		}
	}
}
