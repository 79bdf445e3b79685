package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel-ops/apperr"
	"hotel-ops/auth"
	"hotel-ops/models"
)

func newAuthService(t *testing.T, f *fixture, ttl time.Duration) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", "HS256", ttl)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, err := NewAuthService(f.db, tokens, auth.NewRedisRevoker(client), zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func withPassword(t *testing.T, f *fixture, user *models.User, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(user).Update("hashed_password", string(hash)).Error)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, "2024-05-20")
	svc := newAuthService(t, f, 30*time.Minute)
	withPassword(t, f, f.staff, "correct horse")
	ctx := context.Background()

	token, err := svc.Authenticate(ctx, "desk", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	user, claims, err := svc.Resolve(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.staff.ID, user.ID)
	assert.Equal(t, string(models.RoleStaff), claims.Role)
}

func TestUnknownUserHashMatchesDefaultCost(t *testing.T) {
	f := newFixture(t, "2024-05-20")
	svc := newAuthService(t, f, 30*time.Minute)

	cost, err := bcrypt.Cost(svc.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	f := newFixture(t, "2024-05-20")
	svc := newAuthService(t, f, 30*time.Minute)
	withPassword(t, f, f.staff, "correct horse")
	ctx := context.Background()

	_, wrongPassword := svc.Authenticate(ctx, "desk", "battery staple")
	_, unknownUser := svc.Authenticate(ctx, "nobody", "battery staple")
	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)

	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(wrongPassword))
	assert.Equal(t, apperr.KindOf(wrongPassword), apperr.KindOf(unknownUser))
	assert.Equal(t, apperr.Message(wrongPassword), apperr.Message(unknownUser))
}

func TestResolveRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage", func(t *testing.T) {
		f := newFixture(t, "2024-05-20")
		svc := newAuthService(t, f, 30*time.Minute)
		_, _, err := svc.Resolve(ctx, "not-a-token")
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		f := newFixture(t, "2024-05-20")
		svc := newAuthService(t, f, -time.Minute)
		raw, _, err := svc.Tokens.Issue(f.staff.ID, string(f.staff.Role))
		require.NoError(t, err)
		_, _, err = svc.Resolve(ctx, raw)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newFixture(t, "2024-05-20")
		svc := newAuthService(t, f, 30*time.Minute)
		raw, _, err := svc.Tokens.Issue(f.staff.ID, string(f.staff.Role))
		require.NoError(t, err)
		require.NoError(t, f.users.Delete(ctx, f.admin, f.staff.ID))
		_, _, err = svc.Resolve(ctx, raw)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("logged out", func(t *testing.T) {
		f := newFixture(t, "2024-05-20")
		svc := newAuthService(t, f, 30*time.Minute)
		raw, claims, err := svc.Tokens.Issue(f.staff.ID, string(f.staff.Role))
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, claims))
		_, _, err = svc.Resolve(ctx, raw)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})
}

func TestRequireRole(t *testing.T) {
	staff := &models.User{ID: 1, Role: models.RoleStaff}
	admin := &models.User{ID: 2, Role: models.RoleAdmin}

	got, err := RequireRole(admin, models.RoleAdmin)
	require.NoError(t, err)
	assert.Same(t, admin, got)

	_, err = RequireRole(staff, models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = RequireRole(nil, models.RoleAdmin, models.RoleStaff)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
