package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/internal/users"
	pkgAuth "github.com/cardchase/location-portal/pkg/auth"
	"github.com/cardchase/location-portal/pkg/auth/session"
	"github.com/cardchase/location-portal/pkg/config"
	"github.com/cardchase/location-portal/pkg/db/models"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "cardchase-portal",
	ExpirationMinutes: 30,
}

type memorySessions struct {
	active map[string]session.Session
}

func (m *memorySessions) Start(_ context.Context, userID uuid.UUID) (session.Session, error) {
	sess := session.Session{AccessID: uuid.NewString(), UserID: userID, RefreshToken: uuid.NewString()}
	m.active[sess.AccessID] = sess
	return sess, nil
}

func (m *memorySessions) Rotate(ctx context.Context, oldAccessID, token string) (session.Session, error) {
	current, ok := m.active[oldAccessID]
	if !ok || current.RefreshToken != token {
		return session.Session{}, session.ErrInvalidRefreshToken
	}
	delete(m.active, oldAccessID)
	return m.Start(ctx, current.UserID)
}

func (m *memorySessions) Revoke(_ context.Context, accessID string) error {
	delete(m.active, accessID)
	return nil
}

func newTestService(t *testing.T) (Service, *gorm.DB, *memorySessions) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	sessions := &memorySessions{active: map[string]session.Session{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      testJWT,
	})
	require.NoError(t, err)
	return svc, conn, sessions
}

func signup(t *testing.T, svc Service, email string) *TokenResponse {
	t.Helper()
	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:           email,
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	})
	require.NoError(t, err)
	return resp
}

func TestSignupCreatesLocationAccount(t *testing.T) {
	svc, conn, sessions := newTestService(t)

	resp := signup(t, svc, "  Shop@Example.com ")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "shop@example.com", resp.User.Email)
	assert.True(t, resp.User.IsLocation)
	assert.Len(t, sessions.active, 1)

	var stored models.User
	require.NoError(t, conn.First(&stored, "email = ?", "shop@example.com").Error)
	assert.True(t, stored.IsLocation)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	cases := map[string]struct {
		req  SignupRequest
		want string
	}{
		"missing field": {SignupRequest{Email: "a@example.com", Password: "abcdefgh"}, "Please fill in all fields"},
		"mismatch":      {SignupRequest{Email: "a@example.com", Password: "abcdefgh", ConfirmPassword: "abcdefgi"}, "Passwords do not match"},
		"too short":     {SignupRequest{Email: "a@example.com", Password: "abc", ConfirmPassword: "abc"}, "Password must be at least 8 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.req)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tc.want, typed.Message())
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	signup(t, svc, "dup@example.com")

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:           "DUP@example.com",
		Password:        "abcdefgh",
		ConfirmPassword: "abcdefgh",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	svc, conn, _ := newTestService(t)
	created := signup(t, svc, "shop@example.com")
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", created.User.ID).Update("is_admin", true).Error)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "shop@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "shop@example.com", Password: "wrong-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, conn, _ := newTestService(t)
	created := signup(t, svc, "gone@example.com")
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", created.User.ID).Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "gone@example.com", Password: "hunter2hunter2"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)
	first := signup(t, svc, "shop@example.com")

	next, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: first.AccessToken, RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, next.RefreshToken)
	assert.Len(t, sessions.active, 1)

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: first.AccessToken, RefreshToken: first.RefreshToken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: "garbage", RefreshToken: next.RefreshToken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)
	resp := signup(t, svc, "shop@example.com")

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	assert.Empty(t, sessions.active)

	_, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	svc, conn, sessions := newTestService(t)
	created := signup(t, svc, "shop@example.com")

	var before models.User
	require.NoError(t, conn.First(&before, "id = ?", created.User.ID).Error)

	stronger, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      testJWT,
		PasswordConfig: config.PasswordConfig{ArgonTime: 2},
	})
	require.NoError(t, err)

	_, err = stronger.Login(context.Background(), LoginRequest{Email: "shop@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	var after models.User
	require.NoError(t, conn.First(&after, "id = ?", created.User.ID).Error)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "shop@example.com", Password: "hunter2hunter2"})
	assert.NoError(t, err)
}
