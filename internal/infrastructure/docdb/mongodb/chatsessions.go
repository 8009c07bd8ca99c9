// Package mongodb provides the chat sessions collection implementation.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// ChatSessionsCollectionName is the name of the chat sessions collection.
const ChatSessionsCollectionName = "chat_sessions"

// ChatSessionsCollection implements the docdb.ChatSessionsCollection interface for MongoDB.
type ChatSessionsCollection struct {
	collection *mongo.Collection
}

// NewChatSessionsCollection creates a new chat sessions collection wrapper.
func NewChatSessionsCollection(db *mongo.Database) *ChatSessionsCollection {
	return &ChatSessionsCollection{collection: db.Collection(ChatSessionsCollectionName)}
}

// Insert stores a new chat session and returns its generated ID.
func (c *ChatSessionsCollection) Insert(ctx context.Context, chat *models.ChatSession) (string, error) {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	if chat.OpenedAt.IsZero() {
		chat.OpenedAt = time.Now().UTC()
	}

	if _, err := c.collection.InsertOne(ctx, chat); err != nil {
		return "", fmt.Errorf("failed to insert chat session: %w", err)
	}
	return chat.ID, nil
}

// Get retrieves a chat session by ID.
func (c *ChatSessionsCollection) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	var chat models.ChatSession
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("chat session", id)
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return &chat, nil
}

// GetActive retrieves the open chat session for a user, if any.
func (c *ChatSessionsCollection) GetActive(ctx context.Context, userID string, platform models.Platform) (*models.ChatSession, error) {
	var chat models.ChatSession
	filter := bson.M{
		"userId":   userID,
		"platform": platform,
		"status":   bson.M{"$ne": models.ChatSessionClosed},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "openedAt", Value: -1}})
	err := c.collection.FindOne(ctx, filter, opts).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active chat session: %w", err)
	}
	return &chat, nil
}

// AppendMessage adds a message to a chat session transcript.
func (c *ChatSessionsCollection) AppendMessage(ctx context.Context, id string, message models.ChatMessage) error {
	update := bson.M{"$push": bson.M{"messages": message}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("chat session", id)
	}
	return nil
}

// Close marks a chat session closed.
func (c *ChatSessionsCollection) Close(ctx context.Context, id string) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"status": models.ChatSessionClosed, "closedAt": now}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to close chat session: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("chat session", id)
	}
	return nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *ChatSessionsCollection) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "platform", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_user_platform_status"),
	}
	if _, err := c.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create chat session indexes: %w", err)
	}
	return nil
}
