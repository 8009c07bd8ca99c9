// Package docdb provides the flow record collection interfaces.
package docdb

import (
	"context"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// BookingsCollection defines the interface for booking storage.
type BookingsCollection interface {
	// Insert stores a new booking and returns its generated ID.
	Insert(ctx context.Context, booking *models.Booking) (string, error)

	// Get retrieves a booking by ID.
	Get(ctx context.Context, id string) (*models.Booking, error)

	// UpdateStatus transitions a booking to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error

	// ListByUser lists a user's bookings, most recent first.
	ListByUser(ctx context.Context, userID string, platform models.Platform, limit int64) ([]*models.Booking, error)

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}

// QuotationsCollection defines the interface for service quotation storage.
type QuotationsCollection interface {
	// Insert stores a new quotation and returns its generated ID.
	Insert(ctx context.Context, quotation *models.Quotation) (string, error)

	// Get retrieves a quotation by ID.
	Get(ctx context.Context, id string) (*models.Quotation, error)

	// UpdateStatus transitions a quotation to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, status models.QuotationStatus) error

	// ListByUser lists a user's quotations, most recent first.
	ListByUser(ctx context.Context, userID string, platform models.Platform, limit int64) ([]*models.Quotation, error)

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}

// ProductQuotationsCollection defines the interface for product quotation storage.
type ProductQuotationsCollection interface {
	// Insert stores a new product quotation and returns its generated ID.
	Insert(ctx context.Context, quotation *models.ProductQuotation) (string, error)

	// Get retrieves a product quotation by ID.
	Get(ctx context.Context, id string) (*models.ProductQuotation, error)

	// UpdateStatus transitions a product quotation to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, status models.QuotationStatus) error

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}

// DemoRequestsCollection defines the interface for demo request storage.
type DemoRequestsCollection interface {
	// Insert stores a new demo request and returns its generated ID.
	Insert(ctx context.Context, demo *models.DemoRequest) (string, error)

	// Get retrieves a demo request by ID.
	Get(ctx context.Context, id string) (*models.DemoRequest, error)

	// UpdateStatus transitions a demo request to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, status models.DemoStatus) error

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}

// ChatSessionsCollection defines the interface for operator escalation storage.
type ChatSessionsCollection interface {
	// Insert stores a new chat session and returns its generated ID.
	Insert(ctx context.Context, chat *models.ChatSession) (string, error)

	// Get retrieves a chat session by ID.
	Get(ctx context.Context, id string) (*models.ChatSession, error)

	// GetActive retrieves the open chat session for a user, if any.
	GetActive(ctx context.Context, userID string, platform models.Platform) (*models.ChatSession, error)

	// AppendMessage adds a message to a chat session transcript.
	AppendMessage(ctx context.Context, id string, message models.ChatMessage) error

	// Close marks a chat session closed.
	Close(ctx context.Context, id string) error

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}
