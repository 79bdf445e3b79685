package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	raw, issued, err := tokens.Issue(42, "staff")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokensRejects(t *testing.T) {
	tokens, err := NewTokens("test-secret", "HS256", time.Minute)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		tokens.now = func() time.Time { return past }
		raw, _, err := tokens.Issue(1, "admin")
		require.NoError(t, err)
		tokens.now = time.Now

		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokens("other-secret", "HS256", time.Minute)
		require.NoError(t, err)
		raw, _, err := other.Issue(1, "admin")
		require.NoError(t, err)

		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokensValidation(t *testing.T) {
	_, err := NewTokens("", "HS256", time.Minute)
	assert.Error(t, err)

	_, err = NewTokens("secret", "RS256", time.Minute)
	assert.Error(t, err)
}
