package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/logging"
	mwauth "github.com/mbelyaev/taskboard/internal/middleware/auth"
	"github.com/mbelyaev/taskboard/internal/repo"
	"github.com/mbelyaev/taskboard/internal/service"
	"github.com/mbelyaev/taskboard/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		case errors.Is(err, repo.ErrUserAlreadyExist):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return respond(c, http.StatusOK, "User registered successfully", echo.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.ValidateUser(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("login_failed", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	res, err := h.Svc.Login(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))
	l.Info("login_successful", "user_id", user.ID)

	return respond(c, http.StatusOK, "Login successful", echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"is_admin":      res.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	res, err := h.Svc.Refresh(ctx, user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	c.SetCookie(CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))

	return respond(c, http.StatusOK, "Refresh token successful", echo.Map{
		"access_token": res.AccessToken,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	user := mwauth.UserFromContext(c)
	if user != nil {
		if err := h.Svc.LogOut(ctx, user); err != nil {
			c.SetCookie(DeleteCookie("accessToken", "/"))
			c.SetCookie(DeleteCookie("refreshToken", "/"))
			l.Error("logout_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
		}
	}

	c.SetCookie(DeleteCookie("accessToken", "/"))
	c.SetCookie(DeleteCookie("refreshToken", "/"))

	return respond(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	return respond(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (h *AuthHTTP) AssignRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_assign_role")

	var req transport.AssignRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.AssignRole(ctx, req.UserID, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "role is required")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		default:
			l.Error("assign_role_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to assign role")
		}
	}

	return respond(c, http.StatusOK, "Role assigned successfully", nil)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_change_password")

	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ChangePassword(ctx, user.ID, req.Password); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "password is required")
		}
		l.Error("change_password_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to change password")
	}

	return respond(c, http.StatusOK, "Password changed successfully", nil)
}

// ForgotPassword answers identically whether or not the email exists.
func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		l.Error("forgot_password_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process request")
	}

	return respond(c, http.StatusOK, "Forgot password email sent successfully", nil)
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ResetPassword(ctx, req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "token and password are required")
		case errors.Is(err, service.ErrInvalidResetToken):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid reset password token")
		case errors.Is(err, service.ErrExpiredResetToken):
			return echo.NewHTTPError(http.StatusUnauthorized, "reset password token has expired")
		default:
			l.Error("reset_password_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset password")
		}
	}

	return respond(c, http.StatusOK, "Password reset successfully", nil)
}
