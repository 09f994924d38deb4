// Package store provides the in-memory session store. Sessions live only
// for the lifetime of the process and expire after a period of inactivity.
package store

import (
	"errors"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quadrant-labs/StrategyPipe/internal/flow"
)

// ErrSessionNotFound indicates the requested session does not exist or has
// expired.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session survives before eviction.
const DefaultTTL = 2 * time.Hour

// cleanupInterval is how often expired sessions are purged.
const cleanupInterval = 10 * time.Minute

// SessionStore holds live wizard sessions keyed by session ID.
type SessionStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a store with the given idle TTL. A non-positive
// ttl falls back to DefaultTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	slog.Debug("SessionStore created", "ttl", ttl)
	return &SessionStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Save stores a session, resetting its expiry.
func (s *SessionStore) Save(sess *flow.Session) {
	s.cache.Set(sess.ID, sess, s.ttl)
	slog.Debug("SessionStore.Save", "sessionID", sess.ID)
}

// Get returns the session with the given ID and refreshes its expiry.
func (s *SessionStore) Get(id string) (*flow.Session, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	sess := v.(*flow.Session)
	// touch: any access keeps the session alive
	s.cache.Set(id, sess, s.ttl)
	return sess, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
	slog.Debug("SessionStore.Delete", "sessionID", id)
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
