package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-dashboard-svc/src/clients"
	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/dependency"
	"customer-dashboard-svc/src/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

var errNotConfigured = errors.New("not configured")

const defaultShutdownPeriod = 30 * time.Second

type Server struct {
	cfg    *config.Configuration
	router *gin.Engine
}

func New(cfg *config.Configuration) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	return &Server{
		cfg:    cfg,
		router: gin.New(),
	}
}

// Start connects the backing stores, serves HTTP until SIGINT or SIGTERM and
// then shuts down gracefully.
func (s *Server) Start() error {
	deps, err := s.connect()
	if err != nil {
		return err
	}
	defer closeDependencies(deps)

	if s.cfg.Server.TemplatesGlob != "" {
		s.router.LoadHTMLGlob(s.cfg.Server.TemplatesGlob)
	}
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	SetupRoutes(deps)

	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  seconds(s.cfg.Server.ReadTimeout, 5*time.Second),
		WriteTimeout: seconds(s.cfg.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  seconds(s.cfg.Server.IdleTimeout, time.Minute),
	}

	shutdownErrorChan := make(chan error)

	go func() {
		quitChan := make(chan os.Signal, 1)
		signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quitChan
		log.WithField("signal", sig.String()).Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), seconds(s.cfg.Server.ShutdownTimeout, defaultShutdownPeriod))
		defer cancel()

		shutdownErrorChan <- srv.Shutdown(ctx)
	}()

	log.WithField("addr", srv.Addr).Infof("Server %s listening", s.cfg.App.Name)

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErrorChan; err != nil {
		return err
	}

	log.WithField("addr", srv.Addr).Info("Server stopped")
	return nil
}

// connect opens MongoDB, which is required, and Redis and RabbitMQ, which the
// service can run without.
func (s *Server) connect() (*dependency.Manager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), seconds(s.cfg.Database.Timeout, 10*time.Second))
	defer cancel()

	mongodb, err := clients.NewMongoDB(ctx, &s.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	var redisClient *clients.RedisClient
	if s.cfg.Redis.Url != "" {
		redisClient, err = clients.NewRedisClient(ctx, &s.cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, session cache and shared rate limiting disabled")
			redisClient = nil
		}
	}

	var rabbitMQ *clients.RabbitMQ
	if s.cfg.Queue.RabbitMQ.Url != "" {
		rabbitMQ, err = clients.NewRabbitMQ(&s.cfg.Queue)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, activity events will only be logged")
			rabbitMQ = nil
		} else if err := rabbitMQ.SetupExchange(); err != nil {
			log.WithError(err).Warn("Failed to declare activity exchange")
		}
	}

	deps := dependency.NewDependencyManager(s.router, mongodb, redisClient, rabbitMQ, s.cfg)

	if err := deps.SessionRepository.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Warn("Failed to ensure session indexes")
	}

	return deps, nil
}

func closeDependencies(deps *dependency.Manager) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if deps.RabbitMQ != nil {
		if err := deps.RabbitMQ.Close(); err != nil {
			log.WithError(err).Error("Error closing RabbitMQ")
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis")
		}
	}
	if deps.Mongodb != nil {
		if err := deps.Mongodb.Close(ctx); err != nil {
			log.WithError(err).Error("Error closing MongoDB")
		}
	}
}

func seconds(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}
