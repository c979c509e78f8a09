// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Each anonymous visitor owns exactly one round.Session; nothing is persisted.
//
// Characteristics:
//   - Sessions keyed by Session.ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are deep-copied in and out, so callers never share slices.
//   - Save and Get stamp the session's last use; IdleSince lists stale IDs for eviction.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/scrambler/internal/round"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the interface for per-user session state.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s round.Session) error

	// Get retrieves a session by ID or returns ErrNotFound.
	Get(ctx context.Context, id string) (round.Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// IdleSince lists sessions not saved or read since cutoff.
	IdleSince(ctx context.Context, cutoff time.Time) []string

	// Len reports the number of stored sessions.
	Len() int
}

type entry struct {
	session  round.Session
	lastUsed time.Time
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s round.Session) error {
	if s.ID == "" {
		return errors.New("session id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{session: s.Clone(), lastUsed: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (round.Session, error) {
	// write lock: reads refresh lastUsed
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.lastUsed = m.now()
		return e.session.Clone(), nil
	}
	return round.Session{}, ErrNotFound
}

func (m *memory) IdleSince(ctx context.Context, cutoff time.Time) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
