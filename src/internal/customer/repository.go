package customer

import (
	"context"
	"errors"

	"customer-dashboard-svc/src/clients"
	"customer-dashboard-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	FindCredentials(ctx context.Context, username string) (*Customer, error)
	FindByUsername(ctx context.Context, username string) (*Customer, error)
}

type customerRepository struct {
	collection *mongo.Collection
}

func NewCustomerRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return NewRepositoryFromCollection(mongoClient.Database.Collection(collectionName))
}

func NewRepositoryFromCollection(collection *mongo.Collection) Repository {
	return &customerRepository{collection: collection}
}

func profileProjection() bson.M {
	return bson.M{
		"_id":            0,
		"customer_id":    1,
		"first_name":     1,
		"last_name":      1,
		"username":       1,
		"account_number": 1,
	}
}

// FindCredentials loads the identity fields plus the password hash.
func (r *customerRepository) FindCredentials(ctx context.Context, username string) (*Customer, error) {
	projection := profileProjection()
	projection["password"] = 1
	return r.findOne(ctx, username, projection)
}

// FindByUsername loads identity fields only; the password is never read.
func (r *customerRepository) FindByUsername(ctx context.Context, username string) (*Customer, error) {
	return r.findOne(ctx, username, profileProjection())
}

func (r *customerRepository) findOne(ctx context.Context, username string, projection bson.M) (*Customer, error) {
	filter := bson.M{"username": username}
	opts := options.FindOne().SetProjection(projection)

	var customer Customer
	err := r.collection.FindOne(ctx, filter, opts).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		logrus.WithError(err).WithField("username", username).Error("Failed to find customer")
		return nil, clients.QueryError(err)
	}

	logrus.WithField("username", username).Debug("Customer record found")
	return &customer, nil
}
