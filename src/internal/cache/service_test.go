package cache

import (
	"context"
	"testing"
	"time"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/models"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*mr.Miniredis, Service) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	cfg := &config.Configuration{}
	cfg.Session.CacheKeyPrefix = "test:session:"
	return m, NewCacheService(redis.NewClient(&redis.Options{Addr: m.Addr()}), cfg)
}

func TestCacheSession_RoundTrip(t *testing.T) {
	m, svc := newTestCache(t)
	ctx := context.Background()

	s := &models.Session{
		SessionID:  "sid-1",
		LoggedIn:   true,
		Username:   "bob",
		CustomerID: "42",
		ExpiresAt:  time.Now().Add(15 * time.Minute).UTC().Truncate(time.Millisecond),
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, svc.CacheSession(ctx, s))
	require.True(t, m.Exists("test:session:sid-1"))

	ttl := m.TTL("test:session:sid-1")
	require.Greater(t, ttl, 14*time.Minute)
	require.LessOrEqual(t, ttl, 15*time.Minute)

	got, err := svc.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "bob", got.Username)
	require.Equal(t, "42", got.CustomerID)
	require.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, svc.DeleteSession(ctx, "sid-1"))
	got, err = svc.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCacheSession_TTLFollowsExpiry(t *testing.T) {
	m, svc := newTestCache(t)
	ctx := context.Background()

	s := &models.Session{SessionID: "sid-2", LoggedIn: true, Username: "amy", ExpiresAt: time.Now().Add(2 * time.Second)}
	require.NoError(t, svc.CacheSession(ctx, s))

	m.FastForward(3 * time.Second)

	got, err := svc.GetSession(ctx, "sid-2")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCacheSession_SkipsExpired(t *testing.T) {
	m, svc := newTestCache(t)

	s := &models.Session{SessionID: "sid-3", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, svc.CacheSession(context.Background(), s))
	require.False(t, m.Exists("test:session:sid-3"))
}

func TestGetSession_CorruptPayload(t *testing.T) {
	m, svc := newTestCache(t)
	require.NoError(t, m.Set("test:session:bad", "{not json"))

	_, err := svc.GetSession(context.Background(), "bad")
	require.ErrorIs(t, err, models.ErrRedisGet)
}

func TestGetSession_RedisDown(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	svc := NewCacheService(redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1}), &config.Configuration{})
	m.Close()

	_, err = svc.GetSession(context.Background(), "sid")
	require.ErrorIs(t, err, models.ErrRedisGet)
}

func TestNilClientAlwaysMisses(t *testing.T) {
	svc := NewCacheService(nil, &config.Configuration{})
	ctx := context.Background()

	require.NoError(t, svc.CacheSession(ctx, &models.Session{SessionID: "x", ExpiresAt: time.Now().Add(time.Hour)}))
	got, err := svc.GetSession(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, svc.DeleteSession(ctx, "x"))
}
