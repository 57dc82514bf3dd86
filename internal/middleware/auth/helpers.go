package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mbelyaev/taskboard/internal/models"
	"github.com/mbelyaev/taskboard/internal/service"
)

const userContextKey = "user"

type Middleware struct {
	Svc *service.AuthService
}

func New(svc *service.AuthService) *Middleware {
	return &Middleware{Svc: svc}
}

// extractToken pulls a bearer token from the Authorization header, falling
// back to a same-named cookie. The header wins when both are present.
func extractToken(c echo.Context, cookieName string) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

func setUserContext(c echo.Context, user *models.User) {
	c.Set(userContextKey, user)
}

func UserFromContext(c echo.Context) *models.User {
	if v, ok := c.Get(userContextKey).(*models.User); ok {
		return v
	}
	return nil
}
