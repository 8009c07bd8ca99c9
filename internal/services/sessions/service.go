// Package sessions provides conversation session management with a
// read-through Redis cache over MongoDB.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/core/cache"
	"github.com/techrehub/chatbot-service/internal/core/docdb"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// DefaultCacheTTL is the default TTL for cached sessions. It matches the
// staleness window so an abandoned conversation falls out of the cache by
// the time it would be reset anyway.
const DefaultCacheTTL = 30 * time.Minute

// Service provides session lookup and persistence. Reads go through the
// cache; writes update the store first, then the cache.
type Service interface {
	// Get retrieves the session for a user, creating a fresh one in the
	// initial stage if none exists. Stale sessions are reset before return.
	Get(ctx context.Context, userID string, platform models.Platform) (*models.Session, error)

	// Save persists the session and refreshes the cache entry.
	Save(ctx context.Context, session *models.Session) error

	// Delete removes the session from both store and cache.
	Delete(ctx context.Context, userID string, platform models.Platform) error
}

// service implements the Service interface.
type service struct {
	cache  cache.Cache
	store  docdb.SessionsCollection
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// Config holds the configuration for the session service.
type Config struct {
	Cache  cache.Cache
	Store  docdb.SessionsCollection
	TTL    time.Duration
	Logger zerolog.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new session service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		cache:  cfg.Cache,
		store:  cfg.Store,
		ttl:    ttl,
		logger: cfg.Logger,
		now:    now,
	}, nil
}

// Get retrieves the session for a user, creating one if needed.
func (s *service) Get(ctx context.Context, userID string, platform models.Platform) (*models.Session, error) {
	session, err := s.load(ctx, userID, platform)
	if err != nil {
		return nil, err
	}

	if session == nil {
		session = models.NewSession(userID, platform)
		if err := s.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	if session.IsStale(s.now().UTC()) {
		s.logger.Debug().
			Str("userId", userID).
			Str("platform", string(platform)).
			Time("lastInteraction", session.LastInteraction).
			Msg("resetting stale session")
		session.Reset()
	}
	return session, nil
}

// load reads the session from cache, falling back to the store on a miss.
// Returns nil without error when the session does not exist anywhere.
func (s *service) load(ctx context.Context, userID string, platform models.Platform) (*models.Session, error) {
	key := models.SessionKey(platform, userID)

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		// Cache trouble is not fatal, the store is authoritative.
		s.logger.Warn().Err(err).Str("key", key).Msg("session cache read failed")
	}
	if data != nil {
		var session models.Session
		if err := json.Unmarshal(data, &session); err == nil {
			return &session, nil
		}
		// Corrupted entry, drop it and fall through to the store.
		_, _ = s.cache.Delete(ctx, key)
	}

	session, err := s.store.Get(ctx, userID, platform)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s.cacheSet(ctx, session)
	return session, nil
}

// Save persists the session and refreshes the cache entry.
func (s *service) Save(ctx context.Context, session *models.Session) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}

	if err := s.store.Upsert(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.cacheSet(ctx, session)
	return nil
}

// Delete removes the session from both store and cache.
func (s *service) Delete(ctx context.Context, userID string, platform models.Platform) error {
	if _, err := s.store.Delete(ctx, userID, platform); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if _, err := s.cache.Delete(ctx, models.SessionKey(platform, userID)); err != nil {
		s.logger.Warn().Err(err).Msg("session cache delete failed")
	}
	return nil
}

func (s *service) cacheSet(ctx context.Context, session *models.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal session for cache")
		return
	}
	key := models.SessionKey(session.Platform, session.UserID)
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("session cache write failed")
	}
}
