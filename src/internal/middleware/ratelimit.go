package middleware

import (
	"fmt"
	"sync"
	"time"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/metrics"
	"customer-dashboard-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// LoginRateLimit picks the limiter configured for the login endpoint: a Redis
// fixed window when a client is available, otherwise an in-memory token bucket.
func LoginRateLimit(cfg *config.RateLimitConfig, client *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.UseRedis && client != nil {
		return RedisRateLimitMiddleware(client, cfg.RPS, cfg.Burst, time.Duration(cfg.WindowSeconds)*time.Second)
	}
	return RateLimitMiddleware(cfg.RPS, cfg.Burst)
}

// RateLimitMiddleware enforces a per-client-IP token bucket.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	var limiters sync.Map // map[string]*rate.Limiter

	return func(c *gin.Context) {
		key := "ip:" + clientKey(c)

		v, _ := limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(rps), burst))
		lim := v.(*rate.Limiter)

		if !lim.Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			rejectRateLimited(c)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

// clientKey is the peer address, or a forwarded address only when the peer
// is one of the router's trusted proxies.
func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return ip
}

func rejectRateLimited(c *gin.Context) {
	_ = c.Error(fmt.Errorf("%w: %s", models.ErrRateLimited, c.Request.URL.Path))
	c.Abort()
}
