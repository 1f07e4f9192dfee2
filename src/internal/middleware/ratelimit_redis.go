package middleware

import (
	"fmt"
	"time"

	"customer-dashboard-svc/src/internal/metrics"
	"customer-dashboard-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every instance
// of the service. Each client IP may make floor(rps*window)+burst requests per window.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowedPerWindow := int(rps*float64(windowSeconds)) + burst
	ttl := time.Duration(windowSeconds+1) * time.Second

	return func(c *gin.Context) {
		bucket := time.Now().Unix() / int64(windowSeconds)
		redisKey := fmt.Sprintf("rl:ip:%s:%d", clientKey(c), bucket)

		// INCR and EXPIRE share one MULTI so a counter never outlives its window
		var incr *redis.IntCmd
		_, err := client.TxPipelined(c.Request.Context(), func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(c.Request.Context(), redisKey)
			pipe.Expire(c.Request.Context(), redisKey, ttl)
			return nil
		})
		if err != nil {
			logrus.WithError(err).Error("Rate limit check failed")
			_ = c.Error(fmt.Errorf("%w: %v", models.ErrRedisConnection, err))
			c.Abort()
			return
		}
		if cnt := incr.Val(); int(cnt) > allowedPerWindow {
			c.Header("Retry-After", fmt.Sprintf("%d", windowSeconds))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			rejectRateLimited(c)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
