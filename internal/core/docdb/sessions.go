// Package docdb provides the sessions collection interface.
package docdb

import (
	"context"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// SessionsCollection defines the interface for conversation session storage.
// Sessions are keyed by (userID, platform); writes are last-writer-wins
// upserts and the store expires sessions 24 hours after the last interaction.
type SessionsCollection interface {
	// Get retrieves the session for a user on a platform.
	// Returns a NotFound domain error if none exists.
	Get(ctx context.Context, userID string, platform models.Platform) (*models.Session, error)

	// Upsert stores the session, replacing any existing one for the same
	// (userID, platform) key.
	Upsert(ctx context.Context, session *models.Session) error

	// Delete removes the session for a user on a platform.
	Delete(ctx context.Context, userID string, platform models.Platform) (bool, error)

	// EnsureIndexes creates the unique (userId, platform) index and the
	// TTL index on lastInteraction.
	EnsureIndexes(ctx context.Context) error
}
