package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/hash"
	"github.com/mbelyaev/taskboard/internal/logging"
	"github.com/mbelyaev/taskboard/internal/models"
	"github.com/mbelyaev/taskboard/internal/repo"
	"github.com/mbelyaev/taskboard/internal/tokens"
	"github.com/mbelyaev/taskboard/internal/transport"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
	Producer      EventPublisher

	now func() time.Time
}

func NewAuthService(r *repo.GormRepo, jwtSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, bcryptCost int, producer EventPublisher) *AuthService {
	return &AuthService{
		Repo:          r,
		JWTSecret:     jwtSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		BcryptCost:    bcryptCost,
		Producer:      producer,
		now:           time.Now,
	}
}

// WithClock replaces the time source, for tests that need to move a reset
// token past its expiry.
func (h *AuthService) WithClock(now func() time.Time) *AuthService {
	h.now = now
	return h
}

// ValidateUser authenticates a credential pair. An unknown email and a
// wrong password fail with the same error so callers cannot probe which
// emails are registered.
func (h *AuthService) ValidateUser(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.validate")

	user, err := h.Repo.FindUserByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("validate_error", "reason", "user lookup failed", "error", err)
		return nil, ErrInvalidCredentials
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (h *AuthService) CreateAccessToken(user *models.User, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Username: user.Name,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(h.now()),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	return tokens.SignAccess(accessClaims, h.JWTSecret)
}

func (h *AuthService) CreateRefreshToken(user *models.User, refreshExp time.Time) (string, error) {
	refreshClaims := tokens.RefreshClaims{
		Username: user.Name,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(h.now()),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        uuid.NewString(),
		},
	}

	return tokens.SignRefresh(refreshClaims, h.RefreshSecret)
}

// Login issues a fresh token pair for an already validated user. The new
// refresh token is persisted before anything is returned, overwriting the
// previous one: a single refresh token is active per user.
func (h *AuthService) Login(ctx context.Context, user *models.User) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "user_id", user.ID)

	refreshExp := h.now().Add(h.RefreshTTL)
	refreshToken, err := h.CreateRefreshToken(user, refreshExp)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign refresh token", "error", err)
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := h.Repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		l.Error("login_failed", "reason", "cannot persist refresh token", "error", err)
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	accessExp := h.now().Add(h.AccessTTL)
	accessToken, err := h.CreateAccessToken(user, accessExp)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign access token", "error", err)
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	h.publish(ctx, "user_logged_in", user)

	return &transport.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == "admin",
	}, nil
}

// Refresh re-issues an access token only. The stored refresh token stays
// in place until the next login overwrites it.
func (h *AuthService) Refresh(ctx context.Context, user *models.User) (*transport.RefreshResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh", "user_id", user.ID)

	accessExp := h.now().Add(h.AccessTTL)
	accessToken, err := h.CreateAccessToken(user, accessExp)
	if err != nil {
		l.Error("refresh_failed", "reason", "cannot sign access token", "error", err)
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &transport.RefreshResult{AccessToken: accessToken, AccessExp: accessExp}, nil
}

// VerifyAccess validates an access token and re-fetches the user so that
// authorization always sees the current role, not the one baked into the
// claims at issue time.
func (h *AuthService) VerifyAccess(ctx context.Context, tokenStr string) (*models.User, error) {
	claims, err := tokens.AccessClaimsFromToken(tokenStr, h.JWTSecret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := h.userFromSubject(ctx, claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// VerifyRefresh validates a presented refresh token and requires it to
// match the stored one exactly. A token from before the last login is
// cryptographically valid but no longer stored, so it is rejected here.
func (h *AuthService) VerifyRefresh(ctx context.Context, tokenStr string) (*models.User, error) {
	claims, err := tokens.RefreshClaimsFromToken(tokenStr, h.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := h.userFromSubject(ctx, claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if user.RefreshToken == nil || *user.RefreshToken != tokenStr {
		return nil, ErrInvalidRefreshToken
	}

	return user, nil
}

func (h *AuthService) userFromSubject(ctx context.Context, subject string) (*models.User, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, err
	}
	return h.Repo.FindUserByID(ctx, uint(id))
}

func (h *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password, h.BcryptCost)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         username,
		Email:        username,
		PasswordHash: pwHash,
		Role:         "user",
	}

	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, repo.ErrUserAlreadyExist
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	h.publish(ctx, "user_registered", &user)

	return &user, nil
}

// LogOut clears the stored refresh token so the current session cannot be
// refreshed anymore.
func (h *AuthService) LogOut(ctx context.Context, user *models.User) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", user.ID)

	if err := h.Repo.ClearRefreshToken(ctx, user.ID); err != nil {
		l.Error("logout_failed", "reason", "cannot clear refresh token", "error", err)
		return fmt.Errorf("clear refresh token: %w", err)
	}

	h.publish(ctx, "user_logged_out", user)
	return nil
}

func (h *AuthService) AssignRole(ctx context.Context, targetID uint, role string) error {
	l := logging.FromContext(ctx).With("svc", "auth.assign_role", "target_id", targetID, "role", role)

	if role == "" {
		return ErrValidation
	}

	if err := h.Repo.SetRole(ctx, targetID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		l.Error("assign_role_failed", "error", err)
		return fmt.Errorf("set role: %w", err)
	}

	return nil
}

func (h *AuthService) ChangePassword(ctx context.Context, userID uint, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", userID)

	if password == "" {
		return ErrValidation
	}

	pwHash, err := hash.HashPassword(password, h.BcryptCost)
	if err != nil {
		l.Error("change_password_failed", "reason", "cannot hash the password", "error", err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := h.Repo.SetPassword(ctx, userID, pwHash); err != nil {
		l.Error("change_password_failed", "error", err)
		return fmt.Errorf("set password: %w", err)
	}

	return nil
}

// ForgotPassword stores a one-time reset token for the account. An unknown
// email is a silent no-op: the caller always sees the same outcome, so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	user, err := h.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		l.Error("forgot_password_failed", "reason", "user lookup failed", "error", err)
		return nil
	}

	resetToken := uuid.NewString()
	expires := h.now().Add(resetTokenTTL)

	if err := h.Repo.SetResetToken(ctx, user.ID, resetToken, expires); err != nil {
		l.Error("forgot_password_failed", "reason", "cannot persist reset token", "error", err)
		return fmt.Errorf("persist reset token: %w", err)
	}

	// TODO: deliver the token by email; until the mailer exists it is only
	// written to the server log.
	l.Info("reset_token_issued", "user_id", user.ID)

	h.publish(ctx, "password_reset_requested", user)
	return nil
}

// ResetPassword exchanges a valid reset token for a new password hash. The
// hash update and the token clear land in one row update, and a used token
// can never pass the lookup again.
func (h *AuthService) ResetPassword(ctx context.Context, resetToken, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	if resetToken == "" || password == "" {
		return ErrValidation
	}

	user, err := h.Repo.FindUserByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		l.Error("reset_password_failed", "reason", "token lookup failed", "error", err)
		return ErrInvalidResetToken
	}

	if user.ResetPasswordExpires == nil || user.ResetPasswordExpires.Before(h.now()) {
		return ErrExpiredResetToken
	}

	pwHash, err := hash.HashPassword(password, h.BcryptCost)
	if err != nil {
		l.Error("reset_password_failed", "reason", "cannot hash the password", "error", err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := h.Repo.ResetPassword(ctx, user.ID, pwHash); err != nil {
		l.Error("reset_password_failed", "reason", "cannot persist new password", "error", err)
		return fmt.Errorf("persist new password: %w", err)
	}

	h.publish(ctx, "password_reset_completed", user)
	return nil
}

func (h *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	if h.Producer == nil {
		return
	}

	event := map[string]interface{}{
		"type":    eventType,
		"user_id": user.ID,
		"email":   user.Email,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(pubCtx, UserEventsTopic, strconv.FormatUint(uint64(user.ID), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "type", eventType, "error", err)
	}
}
