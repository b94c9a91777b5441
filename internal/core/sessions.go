package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"github.com/google/uuid"
)

// SessionStore keeps one Controller per browser session in memory.
// Idle sessions expire after ttl.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Controller
	ttl      time.Duration
	opts     symbol.Options
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration, opts symbol.Options) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Controller),
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a new session with a random ID.
func (s *SessionStore) Create() *Controller {
	c := NewController(uuid.NewString(), s.opts)

	s.mu.Lock()
	s.sessions[c.ID()] = c
	s.mu.Unlock()
	return c
}

// Get returns the session for id and marks it as used.
func (s *SessionStore) Get(id string) (*Controller, error) {
	s.mu.Lock()
	c, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	c.touch(s.now())
	return c, nil
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown or expired. The bool reports whether a session was created.
func (s *SessionStore) GetOrCreate(id string) (*Controller, bool) {
	if id != "" {
		if c, err := s.Get(id); err == nil {
			return c, false
		}
	}
	return s.Create(), true
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle longer than the TTL. Sessions with an export
// in flight are kept. Returns the number removed.
func (s *SessionStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.sessions {
		if c.Exporting() || c.idleSince().After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired sessions removed", "count", n, "remaining", s.Len())
			}
		}
	}
}
