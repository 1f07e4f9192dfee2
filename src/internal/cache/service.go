package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Service interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	CacheSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type cacheService struct {
	client *redis.Client
	prefix string
}

// NewCacheService returns a Redis-backed session cache. A nil client yields a
// cache that always misses.
func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	prefix := cfg.Session.CacheKeyPrefix
	if prefix == "" {
		prefix = "session:"
	}
	return &cacheService{
		client: client,
		prefix: prefix,
	}
}

func (c *cacheService) key(sessionID string) string {
	return c.prefix + sessionID
}

func (c *cacheService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if c.client == nil {
		return nil, nil
	}
	key := c.key(sessionID)
	logrus.WithField("key", key).Debug("Getting session from cache")

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", key).Debug("Session not found in cache")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("key", key).Debug("Session retrieved from cache successfully")
	return &session, nil
}

func (c *cacheService) CacheSession(ctx context.Context, session *models.Session) error {
	if c.client == nil {
		return nil
	}

	expiration := time.Until(session.ExpiresAt)
	if expiration <= 0 {
		logrus.WithField("session_id", session.SessionID).Warn("Session already expired, not caching")
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to marshal session for cache")
		return models.ErrRedisSet
	}

	if err := c.client.Set(ctx, c.key(session.SessionID), data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to cache session")
		return models.ErrRedisSet
	}

	logrus.WithField("session_id", session.SessionID).Debug("Session cached successfully")
	return nil
}

func (c *cacheService) DeleteSession(ctx context.Context, sessionID string) error {
	if c.client == nil {
		return nil
	}

	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to delete session from cache")
		return models.ErrRedisDelete
	}
	return nil
}
