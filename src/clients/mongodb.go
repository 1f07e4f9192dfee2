package clients

import (
	"context"
	"fmt"
	"time"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = logrus.StandardLogger()

// MongoDB is the process-wide connection pool shared by every repository.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, cfg *config.Database) (*MongoDB, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.WithField("database", cfg.DbName).Info("Connecting to MongoDB...")

	opts := options.Client().
		ApplyURI(cfg.Url).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", models.ErrDatabaseConnection, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %v", models.ErrDatabaseConnection, err)
	}

	log.Infof("Connected to MongoDB database %s", cfg.DbName)

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.DbName),
	}, nil
}

// QueryError classifies a driver error: network failures and timeouts become
// ErrDatabaseConnection, everything else ErrDatabaseQuery.
func QueryError(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %v", models.ErrDatabaseConnection, err)
	}
	return fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

func (m *MongoDB) Close(ctx context.Context) error {
	if err := m.Client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Failed to disconnect from MongoDB")
		return err
	}
	log.Info("MongoDB connection closed")
	return nil
}
