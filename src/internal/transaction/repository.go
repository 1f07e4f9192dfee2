package transaction

import (
	"context"
	"fmt"

	"customer-dashboard-svc/src/clients"
	"customer-dashboard-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]Transaction, error)
}

type transactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return NewRepositoryFromCollection(mongoClient.Database.Collection(collectionName))
}

func NewRepositoryFromCollection(collection *mongo.Collection) Repository {
	return &transactionRepository{collection: collection}
}

// ListByCustomer returns the customer's transactions ordered by serial number.
func (r *transactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]Transaction, error) {
	filter := bson.M{"user_id": customerID}
	opts := options.Find().
		SetProjection(bson.M{
			"_id":                     0,
			"serial_number":           1,
			"date_of_transaction":     1,
			"transaction_description": 1,
			"amount":                  1,
			"user_id":                 1,
		}).
		SetSort(bson.D{{Key: "serial_number", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Error("Failed to query transactions")
		return nil, clients.QueryError(err)
	}
	defer cursor.Close(ctx)

	transactions := make([]Transaction, 0)
	for cursor.Next(ctx) {
		var t Transaction
		if err := cursor.Decode(&t); err != nil {
			logrus.WithError(err).Error("Failed to decode transaction")
			return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
		}
		transactions = append(transactions, t)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error while reading transactions")
		return nil, clients.QueryError(err)
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": customerID,
		"count":       len(transactions),
	}).Debug("Transactions loaded")

	return transactions, nil
}
