// Package docdb provides the payments collection interface.
package docdb

import (
	"context"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// PaymentsCollection defines the interface for payment storage. The merchant
// reference is the external lookup key used by gateway callbacks.
type PaymentsCollection interface {
	// Insert stores a new payment and returns its generated ID.
	Insert(ctx context.Context, payment *models.Payment) (string, error)

	// GetByReference retrieves a payment by its merchant reference.
	// Returns a NotFound domain error if none exists.
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)

	// FindPending retrieves the pending payment for a record, if any.
	// Used to guard against duplicate payment initiations.
	FindPending(ctx context.Context, refType models.PaymentReferenceType, refID string) (*models.Payment, error)

	// Update replaces a payment document by reference.
	Update(ctx context.Context, payment *models.Payment) error

	// EnsureIndexes creates the unique index on reference.
	EnsureIndexes(ctx context.Context) error
}
