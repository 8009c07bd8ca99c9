// Package mongodb provides MongoDB client implementation.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techrehub/chatbot-service/internal/core/docdb"
)

// Client implements the docdb.Client interface for MongoDB.
type Client struct {
	client            *mongo.Client
	sessions          *SessionsCollection
	bookings          *BookingsCollection
	quotations        *QuotationsCollection
	productQuotations *ProductQuotationsCollection
	demoRequests      *DemoRequestsCollection
	payments          *PaymentsCollection
	chatSessions      *ChatSessionsCollection
}

// ClientConfig holds MongoDB connection configuration.
type ClientConfig struct {
	URI          string
	DatabaseName string
}

// NewClient creates a new MongoDB client.
func NewClient(ctx context.Context, config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if config.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	clientOpts := options.Client().ApplyURI(config.URI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(config.DatabaseName)

	return &Client{
		client:            client,
		sessions:          NewSessionsCollection(db),
		bookings:          NewBookingsCollection(db),
		quotations:        NewQuotationsCollection(db),
		productQuotations: NewProductQuotationsCollection(db),
		demoRequests:      NewDemoRequestsCollection(db),
		payments:          NewPaymentsCollection(db),
		chatSessions:      NewChatSessionsCollection(db),
	}, nil
}

// Sessions returns the typed conversation sessions collection.
func (c *Client) Sessions() docdb.SessionsCollection {
	return c.sessions
}

// Bookings returns the typed bookings collection.
func (c *Client) Bookings() docdb.BookingsCollection {
	return c.bookings
}

// Quotations returns the typed service quotations collection.
func (c *Client) Quotations() docdb.QuotationsCollection {
	return c.quotations
}

// ProductQuotations returns the typed product quotations collection.
func (c *Client) ProductQuotations() docdb.ProductQuotationsCollection {
	return c.productQuotations
}

// DemoRequests returns the typed demo requests collection.
func (c *Client) DemoRequests() docdb.DemoRequestsCollection {
	return c.demoRequests
}

// Payments returns the typed payments collection.
func (c *Client) Payments() docdb.PaymentsCollection {
	return c.payments
}

// ChatSessions returns the typed operator escalation collection.
func (c *Client) ChatSessions() docdb.ChatSessionsCollection {
	return c.chatSessions
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates all necessary indexes for all collections.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	for name, coll := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"sessions":           c.sessions,
		"bookings":           c.bookings,
		"quotations":         c.quotations,
		"product_quotations": c.productQuotations,
		"demo_requests":      c.demoRequests,
		"payments":           c.payments,
		"chat_sessions":      c.chatSessions,
	} {
		if err := coll.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
