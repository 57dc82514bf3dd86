package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuth verifies the access token and attaches the freshly loaded
// user to the request context.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := extractToken(c, "accessToken")
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		user, err := m.Svc.VerifyAccess(c.Request().Context(), tokenStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		setUserContext(c, user)
		return next(c)
	}
}
