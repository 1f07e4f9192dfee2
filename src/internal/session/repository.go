package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-dashboard-svc/src/clients"
	"customer-dashboard-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type repository struct {
	collection *mongo.Collection
}

type Repository interface {
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, sessionID string) error
	UpdateActivity(ctx context.Context, sessionID string, at time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewSessionRepository(db *clients.MongoDB, collectionName string) Repository {
	return NewRepositoryFromCollection(db.Database.Collection(collectionName))
}

func NewRepositoryFromCollection(collection *mongo.Collection) Repository {
	return &repository{collection: collection}
}

func (r *repository) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	filter := bson.M{"session_id": sessionID}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to get session")
		return nil, clients.QueryError(err)
	}

	return &session, nil
}

func (r *repository) Save(ctx context.Context, session *models.Session) error {
	filter := bson.M{"session_id": session.SessionID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, session, opts); err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to save session")
		return fmt.Errorf("%w: %v", models.ErrSessionCreating, err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to delete session")
		return fmt.Errorf("%w: %v", models.ErrSessionDeleting, err)
	}

	return nil
}

// UpdateActivity stamps last_active_at on an existing session. It never
// creates a document, so a session deleted meanwhile stays deleted.
func (r *repository) UpdateActivity(ctx context.Context, sessionID string, at time.Time) error {
	filter := bson.M{"session_id": sessionID}
	update := bson.M{"$set": bson.M{"last_active_at": at}}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to update session activity")
		return clients.QueryError(err)
	}

	return nil
}

// EnsureIndexes creates the unique lookup index and the TTL index that lets
// MongoDB reap sessions once expires_at has passed.
func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}
	return nil
}
