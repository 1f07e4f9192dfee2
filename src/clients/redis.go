package clients

import (
	"context"
	"fmt"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(ctx context.Context, cfg *config.Redis) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.Db != 0 {
		opts.DB = cfg.Db
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("%w: ping: %v (close: %v)", models.ErrRedisConnection, err, closeErr)
		}
		return nil, fmt.Errorf("%w: ping: %v", models.ErrRedisConnection, err)
	}

	log.WithField("addr", opts.Addr).Info("Connected to Redis")
	return &RedisClient{Client: client}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	if err := r.Client.Close(); err != nil {
		log.WithError(err).Error("Failed to close Redis client")
		return err
	}
	log.Info("Redis client closed")
	return nil
}
