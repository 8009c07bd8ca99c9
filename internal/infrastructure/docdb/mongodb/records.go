// Package mongodb provides the flow record collection implementations.
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

const (
	// BookingsCollectionName is the name of the bookings collection.
	BookingsCollectionName = "bookings"
	// QuotationsCollectionName is the name of the service quotations collection.
	QuotationsCollectionName = "quotations"
	// ProductQuotationsCollectionName is the name of the product quotations collection.
	ProductQuotationsCollectionName = "product_quotations"
	// DemoRequestsCollectionName is the name of the demo requests collection.
	DemoRequestsCollectionName = "demo_requests"
)

// BookingsCollection implements the docdb.BookingsCollection interface for MongoDB.
type BookingsCollection struct {
	collection *mongo.Collection
}

// NewBookingsCollection creates a new bookings collection wrapper.
func NewBookingsCollection(db *mongo.Database) *BookingsCollection {
	return &BookingsCollection{collection: db.Collection(BookingsCollectionName)}
}

// Insert stores a new booking and returns its generated ID.
func (c *BookingsCollection) Insert(ctx context.Context, booking *models.Booking) (string, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now().UTC()
	booking.UpdatedAt = booking.CreatedAt

	if _, err := c.collection.InsertOne(ctx, booking); err != nil {
		return "", fmt.Errorf("failed to insert booking: %w", err)
	}
	return booking.ID, nil
}

// Get retrieves a booking by ID.
func (c *BookingsCollection) Get(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("booking", id)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// UpdateStatus transitions a booking to a new lifecycle status.
func (c *BookingsCollection) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("booking", id)
	}
	return nil
}

// ListByUser lists a user's bookings, most recent first.
func (c *BookingsCollection) ListByUser(ctx context.Context, userID string, platform models.Platform, limit int64) ([]*models.Booking, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cursor, err := c.collection.Find(ctx, bson.M{"userId": userID, "platform": platform}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *BookingsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{{Key: "startsAt", Value: 1}},
			Options: options.Index().SetName("idx_starts_at"),
		},
	}
	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// QuotationsCollection implements the docdb.QuotationsCollection interface for MongoDB.
type QuotationsCollection struct {
	collection *mongo.Collection
}

// NewQuotationsCollection creates a new quotations collection wrapper.
func NewQuotationsCollection(db *mongo.Database) *QuotationsCollection {
	return &QuotationsCollection{collection: db.Collection(QuotationsCollectionName)}
}

// Insert stores a new quotation and returns its generated ID.
func (c *QuotationsCollection) Insert(ctx context.Context, quotation *models.Quotation) (string, error) {
	if quotation.ID == "" {
		quotation.ID = uuid.NewString()
	}
	quotation.CreatedAt = time.Now().UTC()
	quotation.UpdatedAt = quotation.CreatedAt

	if _, err := c.collection.InsertOne(ctx, quotation); err != nil {
		return "", fmt.Errorf("failed to insert quotation: %w", err)
	}
	return quotation.ID, nil
}

// Get retrieves a quotation by ID.
func (c *QuotationsCollection) Get(ctx context.Context, id string) (*models.Quotation, error) {
	var quotation models.Quotation
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quotation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("quotation", id)
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return &quotation, nil
}

// UpdateStatus transitions a quotation to a new lifecycle status.
func (c *QuotationsCollection) UpdateStatus(ctx context.Context, id string, status models.QuotationStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update quotation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("quotation", id)
	}
	return nil
}

// ListByUser lists a user's quotations, most recent first.
func (c *QuotationsCollection) ListByUser(ctx context.Context, userID string, platform models.Platform, limit int64) ([]*models.Quotation, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cursor, err := c.collection.Find(ctx, bson.M{"userId": userID, "platform": platform}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer cursor.Close(ctx)

	var quotations []*models.Quotation
	if err := cursor.All(ctx, &quotations); err != nil {
		return nil, fmt.Errorf("failed to decode quotations: %w", err)
	}
	return quotations, nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *QuotationsCollection) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_user_created"),
	}
	if _, err := c.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create quotation indexes: %w", err)
	}
	return nil
}

// ProductQuotationsCollection implements the docdb.ProductQuotationsCollection interface for MongoDB.
type ProductQuotationsCollection struct {
	collection *mongo.Collection
}

// NewProductQuotationsCollection creates a new product quotations collection wrapper.
func NewProductQuotationsCollection(db *mongo.Database) *ProductQuotationsCollection {
	return &ProductQuotationsCollection{collection: db.Collection(ProductQuotationsCollectionName)}
}

// Insert stores a new product quotation and returns its generated ID.
func (c *ProductQuotationsCollection) Insert(ctx context.Context, quotation *models.ProductQuotation) (string, error) {
	if quotation.ID == "" {
		quotation.ID = uuid.NewString()
	}
	quotation.CreatedAt = time.Now().UTC()
	quotation.UpdatedAt = quotation.CreatedAt

	if _, err := c.collection.InsertOne(ctx, quotation); err != nil {
		return "", fmt.Errorf("failed to insert product quotation: %w", err)
	}
	return quotation.ID, nil
}

// Get retrieves a product quotation by ID.
func (c *ProductQuotationsCollection) Get(ctx context.Context, id string) (*models.ProductQuotation, error) {
	var quotation models.ProductQuotation
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quotation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("product quotation", id)
		}
		return nil, fmt.Errorf("failed to get product quotation: %w", err)
	}
	return &quotation, nil
}

// UpdateStatus transitions a product quotation to a new lifecycle status.
func (c *ProductQuotationsCollection) UpdateStatus(ctx context.Context, id string, status models.QuotationStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update product quotation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("product quotation", id)
	}
	return nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *ProductQuotationsCollection) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_reference"),
	}
	if _, err := c.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create product quotation indexes: %w", err)
	}
	return nil
}

// DemoRequestsCollection implements the docdb.DemoRequestsCollection interface for MongoDB.
type DemoRequestsCollection struct {
	collection *mongo.Collection
}

// NewDemoRequestsCollection creates a new demo requests collection wrapper.
func NewDemoRequestsCollection(db *mongo.Database) *DemoRequestsCollection {
	return &DemoRequestsCollection{collection: db.Collection(DemoRequestsCollectionName)}
}

// Insert stores a new demo request and returns its generated ID.
func (c *DemoRequestsCollection) Insert(ctx context.Context, demo *models.DemoRequest) (string, error) {
	if demo.ID == "" {
		demo.ID = uuid.NewString()
	}
	demo.CreatedAt = time.Now().UTC()
	demo.UpdatedAt = demo.CreatedAt

	if _, err := c.collection.InsertOne(ctx, demo); err != nil {
		return "", fmt.Errorf("failed to insert demo request: %w", err)
	}
	return demo.ID, nil
}

// Get retrieves a demo request by ID.
func (c *DemoRequestsCollection) Get(ctx context.Context, id string) (*models.DemoRequest, error) {
	var demo models.DemoRequest
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&demo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("demo request", id)
		}
		return nil, fmt.Errorf("failed to get demo request: %w", err)
	}
	return &demo, nil
}

// UpdateStatus transitions a demo request to a new lifecycle status.
func (c *DemoRequestsCollection) UpdateStatus(ctx context.Context, id string, status models.DemoStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update demo request status: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("demo request", id)
	}
	return nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *DemoRequestsCollection) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_reference"),
	}
	if _, err := c.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create demo request indexes: %w", err)
	}
	return nil
}
