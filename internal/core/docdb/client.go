// Package docdb defines the document database client interface.
package docdb

import (
	"context"
)

// Client defines the interface for a document database client.
type Client interface {
	// Sessions returns the conversation sessions collection.
	Sessions() SessionsCollection

	// Bookings returns the bookings collection.
	Bookings() BookingsCollection

	// Quotations returns the service quotations collection.
	Quotations() QuotationsCollection

	// ProductQuotations returns the product quotations collection.
	ProductQuotations() ProductQuotationsCollection

	// DemoRequests returns the demo requests collection.
	DemoRequests() DemoRequestsCollection

	// Payments returns the payments collection.
	Payments() PaymentsCollection

	// ChatSessions returns the operator escalation collection.
	ChatSessions() ChatSessionsCollection

	// EnsureIndexes creates the indexes for all collections.
	EnsureIndexes(ctx context.Context) error

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error
}
