package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestValidator(t *testing.T) *JWTValidator {
	t.Helper()
	v, err := NewJWTValidator(JWTConfig{
		SecretKey: testSecret,
		Issuer:    "plenum",
		Audience:  []string{"plenum-api"},
	})
	require.NoError(t, err)
	return v
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		UserID: "user-1",
		Email:  "moderator@example.org",
		Roles:  []string{"moderator"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "plenum",
			Audience:  jwt.ClaimStrings{"plenum-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestJWTValidator(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := NewJWTValidator(JWTConfig{})
		assert.Error(t, err)
	})

	t.Run("accepts a valid token and strips the Bearer prefix", func(t *testing.T) {
		v := newTestValidator(t)
		token := signToken(t, testSecret, validClaims())

		claims, err := v.ValidateToken("Bearer " + token)

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "moderator@example.org", claims.Email)
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		v := newTestValidator(t)

		_, err := v.ValidateToken("Bearer ")

		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		v := newTestValidator(t)
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := v.ValidateToken(signToken(t, testSecret, claims))

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token signed with the wrong secret", func(t *testing.T) {
		v := newTestValidator(t)

		_, err := v.ValidateToken(signToken(t, "some-other-secret", validClaims()))

		assert.Error(t, err)
	})

	t.Run("rejects the wrong issuer", func(t *testing.T) {
		v := newTestValidator(t)
		claims := validClaims()
		claims.Issuer = "someone-else"

		_, err := v.ValidateToken(signToken(t, testSecret, claims))

		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects the wrong audience", func(t *testing.T) {
		v := newTestValidator(t)
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"other-api"}

		_, err := v.ValidateToken(signToken(t, testSecret, claims))

		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects a token without a subject", func(t *testing.T) {
		v := newTestValidator(t)
		claims := validClaims()
		claims.UserID = ""

		_, err := v.ValidateToken(signToken(t, testSecret, claims))

		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestUserContext(t *testing.T) {
	t.Run("round-trips through the context", func(t *testing.T) {
		user := &UserContext{UserID: "user-1", Email: "moderator@example.org"}
		ctx := SetUserInContext(context.Background(), user)

		got, err := GetUserFromContext(ctx)

		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("missing caller is an error", func(t *testing.T) {
		_, err := GetUserFromContext(context.Background())
		assert.Error(t, err)
	})
}

func TestIPRateLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewIPRateLimiter(3)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within the budget", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "budget exhausted")

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other clients keep their own budget")
}
