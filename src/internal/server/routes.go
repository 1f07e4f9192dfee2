package server

import (
	"context"
	"time"

	"customer-dashboard-svc/src/internal/dependency"
	"customer-dashboard-svc/src/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	cfg := deps.Config

	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.Recovery(), middleware.RequestLogger())
	if cfg.Server.PublicDir != "" {
		router.Use(static.Serve("/", static.LocalFile(cfg.Server.PublicDir, false)))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Security.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	setupHealthEndpoint(deps)
	setupCustomerRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	cfg := deps.Config

	router.GET("/health", setRouteName("health"), func(c *gin.Context) {
		log.Debug("Health check endpoint requested")

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   pingStatus(c.Request.Context(), isMongoConnected(deps)),
			"redis":     pingStatus(c.Request.Context(), isRedisConnected(deps)),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/health/detailed", setRouteName("healthDetailed"), func(c *gin.Context) {
		log.Debug("Detailed health check endpoint requested")

		c.JSON(200, gin.H{
			"status":  "operational",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"components": gin.H{
				"database": gin.H{
					"mongodb": getStatus(isMongoConnected(deps)(c.Request.Context()) == nil),
					"redis":   getStatus(isRedisConnected(deps)(c.Request.Context()) == nil),
				},
				"services": gin.H{
					"auth":     "operational",
					"session":  "operational",
					"cache":    optionalStatus(deps.Redis != nil),
					"activity": optionalStatus(deps.RabbitMQ != nil),
				},
			},
		})
	})

	router.GET("/metrics", setRouteName("metrics"), gin.WrapH(promhttp.Handler()))
}

func setupCustomerRoutes(router *gin.Engine, deps *dependency.Manager) {
	timeout := deps.RequestTimeout()

	app := router.Group("/",
		middleware.ErrorHandler(),
		middleware.Sessions(deps.Sessions, timeout),
		middleware.SessionTimeout(deps.Sessions, deps.ActivityClient, timeout),
	)

	// signoff completes even when the session store is down
	exit := router.Group("/",
		middleware.ErrorHandler(),
		middleware.TolerantSessions(deps.Sessions, timeout),
		middleware.SessionTimeout(deps.Sessions, deps.ActivityClient, timeout),
	)

	loginLimiter := middleware.LoginRateLimit(&deps.Config.RateLimit, deps.RedisClient())
	customerHandler := deps.CustomerHandler
	transactionHandler := deps.TransactionHandler

	{
		app.GET("/", setRouteName("loginPage"), customerHandler.ShowLogin)
		app.POST("/auth", setRouteName("authenticate"), loginLimiter, customerHandler.Authenticate)
		app.GET("/dashboard", setRouteName("dashboard"), middleware.RequireLogin(), transactionHandler.Dashboard)
		exit.GET("/signoff", setRouteName("signoff"), customerHandler.Signoff)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

type pinger func(ctx context.Context) error

func isMongoConnected(deps *dependency.Manager) pinger {
	return func(ctx context.Context) error {
		if deps.Mongodb == nil {
			return errNotConfigured
		}
		return deps.Mongodb.Ping(ctx)
	}
}

func isRedisConnected(deps *dependency.Manager) pinger {
	return func(ctx context.Context) error {
		if deps.Redis == nil {
			return errNotConfigured
		}
		return deps.Redis.Ping(ctx)
	}
}

func pingStatus(ctx context.Context, ping pinger) string {
	if err := ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}

func optionalStatus(enabled bool) string {
	if enabled {
		return "operational"
	}
	return "disabled"
}
