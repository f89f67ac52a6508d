package auth_test

import (
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: testSecret, Issuer: "gestor-test"}
}

func validClaims() *auth.Claims {
	now := time.Now()
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Issuer:    "gestor-test",
			Subject:   "7",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		UserID:    7,
		Username:  "ana",
		Role:      "ADMIN_EMPRESA",
		TenantID:  3,
		TokenType: auth.TokenTypeAccess,
	}
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims *auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_ValidateAccessToken(t *testing.T) {
	verifier := auth.NewJWTVerifier(testJWTConfig())

	t.Run("valid token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

		claims, err := verifier.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "ana", claims.Username)
		assert.Equal(t, int64(3), claims.TenantID)
		assert.Equal(t, "jti-1", claims.ID)
	})

	t.Run("expired token", func(t *testing.T) {
		c := validClaims()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := validClaims()
		c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrTokenNotYetValid)
	})

	t.Run("missing expiration", func(t *testing.T) {
		c := validClaims()
		c.ExpiresAt = nil
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("another-secret-key-that-is-long-enough"), validClaims())

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := validClaims()
		c.Issuer = "someone-else"
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		c := validClaims()
		c.TokenType = auth.TokenTypeRefresh
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
	})

	t.Run("missing user id", func(t *testing.T) {
		c := validClaims()
		c.UserID = 0
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := verifier.ValidateAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrMissingUserID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestClaims_Caller(t *testing.T) {
	t.Run("tenant admin", func(t *testing.T) {
		caller, err := validClaims().Caller()
		require.NoError(t, err)
		assert.Equal(t, identity.RoleTenantAdmin, caller.Role)
		require.True(t, caller.HasTenant())
		assert.Equal(t, int64(3), *caller.TenantID)
	})

	t.Run("chief admin without tenant", func(t *testing.T) {
		c := validClaims()
		c.Role = "ADMIN_CHEFE"
		c.TenantID = 0

		caller, err := c.Caller()
		require.NoError(t, err)
		assert.True(t, caller.IsChiefAdmin())
		assert.False(t, caller.HasTenant())
	})

	t.Run("unknown role", func(t *testing.T) {
		c := validClaims()
		c.Role = "SUPERUSER"

		_, err := c.Caller()
		assert.Error(t, err)
	})
}

func TestClaims_RemainingTTL(t *testing.T) {
	c := validClaims()
	now := c.IssuedAt.Time

	assert.Equal(t, 15*time.Minute, c.RemainingTTL(now))
	assert.Equal(t, time.Duration(0), c.RemainingTTL(now.Add(time.Hour)))

	c.ExpiresAt = nil
	assert.Equal(t, time.Duration(0), c.RemainingTTL(now))
}
