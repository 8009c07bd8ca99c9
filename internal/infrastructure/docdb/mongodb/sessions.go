// Package mongodb provides the sessions collection implementation.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

const (
	// SessionsCollectionName is the name of the sessions collection.
	SessionsCollectionName = "sessions"

	// sessionTTL is how long an idle session survives before MongoDB's TTL
	// monitor removes it.
	sessionTTL = 24 * time.Hour
)

// SessionsCollection implements the docdb.SessionsCollection interface for MongoDB.
type SessionsCollection struct {
	collection *mongo.Collection
}

// NewSessionsCollection creates a new sessions collection wrapper.
func NewSessionsCollection(db *mongo.Database) *SessionsCollection {
	return &SessionsCollection{
		collection: db.Collection(SessionsCollectionName),
	}
}

// Get retrieves the session for a user on a platform.
func (c *SessionsCollection) Get(ctx context.Context, userID string, platform models.Platform) (*models.Session, error) {
	var session models.Session
	err := c.collection.FindOne(ctx, bson.M{"userId": userID, "platform": platform}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("session", userID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Upsert stores the session, replacing any existing one for the same key.
// Concurrent upserts resolve last-writer-wins.
func (c *SessionsCollection) Upsert(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	filter := bson.M{"userId": session.UserID, "platform": session.Platform}
	opts := options.Replace().SetUpsert(true)
	if _, err := c.collection.ReplaceOne(ctx, filter, session, opts); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// Delete removes the session for a user on a platform.
func (c *SessionsCollection) Delete(ctx context.Context, userID string, platform models.Platform) (bool, error) {
	result, err := c.collection.DeleteOne(ctx, bson.M{"userId": userID, "platform": platform})
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique session key index and the idle TTL index.
func (c *SessionsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "platform", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_platform"),
		},
		{
			Keys: bson.D{{Key: "lastInteraction", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(sessionTTL.Seconds())).
				SetName("idx_last_interaction_ttl"),
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}
