package dependency

import (
	"time"

	"customer-dashboard-svc/src/clients"
	"customer-dashboard-svc/src/internal/cache"
	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/customer"
	"customer-dashboard-svc/src/internal/models"
	"customer-dashboard-svc/src/internal/session"
	"customer-dashboard-svc/src/internal/transaction"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Stores groups the document-store repositories the services are built on.
type Stores struct {
	Customers    customer.Repository
	Transactions transaction.Repository
	Sessions     session.Repository
}

type Manager struct {
	Router             *gin.Engine
	Config             *config.Configuration
	Mongodb            *clients.MongoDB
	Redis              *clients.RedisClient
	RabbitMQ           *clients.RabbitMQ
	SessionRepository  session.Repository
	Sessions           *session.Manager
	CacheService       cache.Service
	CustomerService    customer.Service
	CustomerHandler    customer.Handler
	TransactionService transaction.Service
	TransactionHandler transaction.Handler
	ActivityClient     models.ActivityPublisher
}

// NewDependencyManager wires services on top of live clients. redisClient and
// rabbitMQ may be nil; the session cache and activity events then degrade to no-ops.
func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	stores := Stores{
		Customers:    customer.NewCustomerRepository(mongodb, cfg.Database.UserCollection),
		Transactions: transaction.NewTransactionRepository(mongodb, cfg.Database.TransactionCollection),
		Sessions:     session.NewSessionRepository(mongodb, cfg.Database.SessionCollection),
	}

	deps := NewManagerWithStores(router, stores, redisClient, rabbitMQ, cfg)
	deps.Mongodb = mongodb
	return deps
}

func NewManagerWithStores(router *gin.Engine,
	stores Stores,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	var rdb *redis.Client
	if redisClient != nil {
		rdb = redisClient.Client
	}
	activityClient := clients.NewActivityClient(cfg, nil)
	if rabbitMQ != nil {
		activityClient = clients.NewActivityClient(cfg, rabbitMQ.Channel)
	}

	timeout := cfg.App.RequestTimeout()
	cacheService := cache.NewCacheService(rdb, cfg)
	sessions := session.NewManager(stores.Sessions, cacheService, cfg)
	customerService := customer.NewCustomerService(stores.Customers)
	customerHandler := customer.NewHandler(cfg, customerService, sessions, activityClient, timeout)
	transactionService := transaction.NewTransactionService(customerService, stores.Transactions)
	transactionHandler := transaction.NewHandler(cfg, transactionService, activityClient, timeout)

	return &Manager{
		Router:             router,
		Config:             cfg,
		Redis:              redisClient,
		RabbitMQ:           rabbitMQ,
		SessionRepository:  stores.Sessions,
		Sessions:           sessions,
		CacheService:       cacheService,
		CustomerService:    customerService,
		CustomerHandler:    customerHandler,
		TransactionService: transactionService,
		TransactionHandler: transactionHandler,
		ActivityClient:     activityClient,
	}
}

// RequestTimeout bounds every store call made on behalf of a request.
func (m *Manager) RequestTimeout() time.Duration {
	return m.Config.App.RequestTimeout()
}

// RedisClient returns the raw client, or nil when Redis is not configured.
func (m *Manager) RedisClient() *redis.Client {
	if m.Redis == nil {
		return nil
	}
	return m.Redis.Client
}
