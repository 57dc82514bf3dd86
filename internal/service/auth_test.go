package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/models"
	"github.com/mbelyaev/taskboard/internal/repo"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := event.(map[string]interface{})
	e["_topic"] = topic
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e["type"].(string))
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.TaskTable{}, &models.Task{}))
	return gdb
}

func newTestAuthService(t *testing.T) (*AuthService, *fakePublisher) {
	t.Helper()

	pub := &fakePublisher{}
	svc := NewAuthService(
		repo.New(newTestDB(t)),
		[]byte("test-jwt-secret"),
		[]byte("test-refresh-secret"),
		15*time.Minute,
		7*24*time.Hour,
		bcrypt.MinCost,
		pub,
	)
	return svc, pub
}

func TestAuthService_RegisterAndValidate(t *testing.T) {
	t.Parallel()

	svc, pub := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	got, err := svc.ValidateUser(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	assert.Contains(t, pub.types(), "user_registered")
}

func TestAuthService_Validate_NoEmailOracle(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	res1, err1 := svc.ValidateUser(ctx, "alice@x.com", "wrong")
	res2, err2 := svc.ValidateUser(ctx, "nobody@x.com", "whatever")

	assert.Nil(t, res1)
	assert.Nil(t, res2)
	assert.ErrorIs(t, err1, ErrInvalidCredentials)
	assert.ErrorIs(t, err2, ErrInvalidCredentials)
	assert.Equal(t, err1, err2, "unknown email and wrong password must be indistinguishable")
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@x.com", "pw2")
	assert.ErrorIs(t, err, repo.ErrUserAlreadyExist)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "user@x.com", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login_SingleActiveRefreshToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	first, err := svc.Login(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, first.AccessToken)
	require.NotEmpty(t, first.RefreshToken)

	// First token is the stored one and verifies.
	got, err := svc.VerifyRefresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	second, err := svc.Login(ctx, user)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The overwritten token is still a valid JWT but no longer stored.
	_, err = svc.VerifyRefresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.VerifyRefresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_DoesNotRotate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	login, err := svc.Login(ctx, user)
	require.NoError(t, err)

	res, err := svc.Refresh(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	// The refresh token survives a refresh untouched.
	_, err = svc.VerifyRefresh(ctx, login.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_VerifyAccess(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	login, err := svc.Login(ctx, user)
	require.NoError(t, err)

	got, err := svc.VerifyAccess(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Role changes after issue are visible immediately: the user is
	// re-fetched, not trusted from the claims.
	require.NoError(t, svc.AssignRole(ctx, user.ID, "admin"))
	got, err = svc.VerifyAccess(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)
}

func TestAuthService_VerifyAccess_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	login, err := svc.Login(ctx, user)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.VerifyRefresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_VerifyRefresh_NoStoredToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	// Never logged in: a forged-but-valid token must not pass.
	refreshExp := time.Now().Add(time.Hour)
	token, err := svc.CreateRefreshToken(user, refreshExp)
	require.NoError(t, err)

	_, err = svc.VerifyRefresh(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogOut_ClearsRefreshToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	login, err := svc.Login(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, user))

	_, err = svc.VerifyRefresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_ForgotReset_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "alice@x.com"))

	stored, err := svc.Repo.FindUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpires)
	token := *stored.ResetPasswordToken

	require.NoError(t, svc.ResetPassword(ctx, token, "pw2"))

	// New password works, old one fails.
	_, err = svc.ValidateUser(ctx, "alice@x.com", "pw2")
	assert.NoError(t, err)
	_, err = svc.ValidateUser(ctx, "alice@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Token and expiry are cleared together.
	stored, err = svc.Repo.FindUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpires)

	// Single use: the same token cannot reset twice.
	err = svc.ResetPassword(ctx, token, "pw3")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ForgotPassword_UnknownEmail_NoOp(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "nonexistent@x.com"))

	stored, err := svc.Repo.FindUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpires)
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	base := time.Now()
	svc.WithClock(func() time.Time { return base })
	require.NoError(t, svc.ForgotPassword(ctx, "alice@x.com"))

	stored, err := svc.Repo.FindUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	token := *stored.ResetPasswordToken

	svc.WithClock(func() time.Time { return base.Add(2 * time.Hour) })

	err = svc.ResetPassword(ctx, token, "pw2")
	assert.ErrorIs(t, err, ErrExpiredResetToken)

	// Old password still valid after a failed reset.
	_, err = svc.ValidateUser(ctx, "alice@x.com", "pw1")
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_UnknownToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	err := svc.ResetPassword(context.Background(), "no-such-token", "pw")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_AssignRole(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.AssignRole(ctx, user.ID, "admin"))

	stored, err := svc.Repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", stored.Role)

	err = svc.AssignRole(ctx, user.ID+999, "admin")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.AssignRole(ctx, user.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "pw2"))

	_, err = svc.ValidateUser(ctx, "alice@x.com", "pw2")
	assert.NoError(t, err)
	_, err = svc.ValidateUser(ctx, "alice@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, user.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}
