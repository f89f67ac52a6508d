package auth_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *auth.RedisTokenBlacklist) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, auth.NewRedisTokenBlacklist(client)
}

func TestNewRedisClient(t *testing.T) {
	t.Run("connects", func(t *testing.T) {
		server := miniredis.RunT(t)
		port, err := strconv.Atoi(server.Port())
		require.NoError(t, err)

		client, err := auth.NewRedisClient(context.Background(), config.RedisConfig{Host: server.Host(), Port: port})
		require.NoError(t, err)
		defer client.Close()
		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("unreachable", func(t *testing.T) {
		server := miniredis.RunT(t)
		port, err := strconv.Atoi(server.Port())
		require.NoError(t, err)
		server.Close()

		_, err = auth.NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: port})
		assert.Error(t, err)
	})
}

func TestRedisTokenBlacklist_IsBlacklisted(t *testing.T) {
	server, blacklist := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, server.Set("token:blacklist:jti:revoked", "1"))

	revoked, err := blacklist.IsBlacklisted(ctx, "revoked")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenBlacklist_ExpiredEntry(t *testing.T) {
	server, blacklist := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, server.Set("token:blacklist:jti:short", "1"))
	server.SetTTL("token:blacklist:jti:short", time.Second)
	server.FastForward(2 * time.Second)

	revoked, err := blacklist.IsBlacklisted(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenBlacklist_IsUserTokenInvalidated(t *testing.T) {
	server, blacklist := setupRedis(t)
	ctx := context.Background()
	invalidatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, 7, invalidatedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, invalidated, "no invalidation stored")

	require.NoError(t, server.Set("token:blacklist:user:7", strconv.FormatInt(invalidatedAt.Unix(), 10)))

	tests := []struct {
		name     string
		userID   int64
		issuedAt time.Time
		want     bool
	}{
		{name: "issued before", userID: 7, issuedAt: invalidatedAt.Add(-time.Hour), want: true},
		{name: "issued at the same second", userID: 7, issuedAt: invalidatedAt, want: true},
		{name: "issued after", userID: 7, issuedAt: invalidatedAt.Add(time.Second), want: false},
		{name: "other user", userID: 8, issuedAt: invalidatedAt.Add(-time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := blacklist.IsUserTokenInvalidated(ctx, tt.userID, tt.issuedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("corrupt timestamp", func(t *testing.T) {
		require.NoError(t, server.Set("token:blacklist:user:9", "yesterday"))
		_, err := blacklist.IsUserTokenInvalidated(ctx, 9, invalidatedAt)
		assert.Error(t, err)
	})
}

func TestCheckRevoked(t *testing.T) {
	server, blacklist := setupRedis(t)
	ctx := context.Background()

	t.Run("nil blacklist accepts", func(t *testing.T) {
		assert.NoError(t, auth.CheckRevoked(ctx, nil, validClaims()))
	})

	t.Run("clean token", func(t *testing.T) {
		assert.NoError(t, auth.CheckRevoked(ctx, blacklist, validClaims()))
	})

	t.Run("revoked jti", func(t *testing.T) {
		require.NoError(t, server.Set("token:blacklist:jti:jti-1", "1"))
		t.Cleanup(func() { server.Del("token:blacklist:jti:jti-1") })

		assert.ErrorIs(t, auth.CheckRevoked(ctx, blacklist, validClaims()), auth.ErrTokenRevoked)
	})

	t.Run("user-wide invalidation", func(t *testing.T) {
		claims := validClaims()
		cutoff := claims.IssuedAtTime().Add(time.Minute).Unix()
		require.NoError(t, server.Set("token:blacklist:user:7", strconv.FormatInt(cutoff, 10)))
		t.Cleanup(func() { server.Del("token:blacklist:user:7") })

		assert.ErrorIs(t, auth.CheckRevoked(ctx, blacklist, claims), auth.ErrTokenRevoked)
	})

	t.Run("store failure", func(t *testing.T) {
		server.SetError("LOADING")
		t.Cleanup(func() { server.SetError("") })

		err := auth.CheckRevoked(ctx, blacklist, validClaims())
		require.Error(t, err)
		assert.False(t, errors.Is(err, auth.ErrTokenRevoked))
	})
}
