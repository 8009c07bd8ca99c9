// Package mongodb provides the payments collection implementation.
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

// PaymentsCollectionName is the name of the payments collection.
const PaymentsCollectionName = "payments"

// PaymentsCollection implements the docdb.PaymentsCollection interface for MongoDB.
type PaymentsCollection struct {
	collection *mongo.Collection
}

// NewPaymentsCollection creates a new payments collection wrapper.
func NewPaymentsCollection(db *mongo.Database) *PaymentsCollection {
	return &PaymentsCollection{collection: db.Collection(PaymentsCollectionName)}
}

// Insert stores a new payment and returns its generated ID.
func (c *PaymentsCollection) Insert(ctx context.Context, payment *models.Payment) (string, error) {
	if payment.Reference == "" {
		return "", fmt.Errorf("payment reference is required")
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.CreatedAt = time.Now().UTC()
	payment.UpdatedAt = payment.CreatedAt

	if _, err := c.collection.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errors.NewConflictError("payment already exists", payment.Reference)
		}
		return "", fmt.Errorf("failed to insert payment: %w", err)
	}
	return payment.ID, nil
}

// GetByReference retrieves a payment by its merchant reference.
func (c *PaymentsCollection) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := c.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("payment", reference)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// FindPending retrieves the pending payment for a record, if any.
func (c *PaymentsCollection) FindPending(ctx context.Context, refType models.PaymentReferenceType, refID string) (*models.Payment, error) {
	var payment models.Payment
	filter := bson.M{
		"referenceType": refType,
		"referenceId":   refID,
		"status":        models.PaymentPending,
	}
	err := c.collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pending payment: %w", err)
	}
	return &payment, nil
}

// Update replaces a payment document by reference.
func (c *PaymentsCollection) Update(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	result, err := c.collection.ReplaceOne(ctx, bson.M{"reference": payment.Reference}, payment)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("payment", payment.Reference)
	}
	return nil
}

// EnsureIndexes creates the unique merchant reference index.
func (c *PaymentsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_reference"),
		},
		{
			Keys:    bson.D{{Key: "referenceType", Value: 1}, {Key: "referenceId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_record_status"),
		},
	}
	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}
