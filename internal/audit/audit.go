// Package audit records ingest and export events.
//
// Auditing is optional. When no database is configured the server uses Nop;
// otherwise Store writes one row per event to PostgreSQL.
package audit

import (
	"context"
	"sync"
	"time"
)

// Action is the kind of event being audited.
type Action string

const (
	ActionIngest Action = "ingest"
	ActionExport Action = "export"
)

// Entry is a single audit event.
type Entry struct {
	ID            string    `json:"id"`
	Action        Action    `json:"action"`
	SessionID     string    `json:"sessionId"`
	Source        string    `json:"source,omitempty"`
	Generation    uint64    `json:"generation"`
	Records       int       `json:"records"`
	ImagesPlaced  int       `json:"imagesPlaced,omitempty"`
	ImagesOmitted int       `json:"imagesOmitted,omitempty"`
	Pages         int       `json:"pages,omitempty"`
	IPAddress     string    `json:"ipAddress,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

// Memory keeps entries in memory.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries in insertion order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Recent returns up to limit entries, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Lister is implemented by recorders that can read entries back.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
