package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRefresh verifies a presented refresh token, including the exact
// match against the stored one. A mismatch means the token was already
// superseded by a newer login.
func (m *Middleware) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := extractToken(c, "refreshToken")
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
		}

		user, err := m.Svc.VerifyRefresh(c.Request().Context(), tokenStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}

		setUserContext(c, user)
		return next(c)
	}
}
