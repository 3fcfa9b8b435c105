// internal/store/memory.go
//
// In-memory home for live game sessions.
//
// Characteristics:
//   - Sessions are keyed by Session.ID().
//   - The map is guarded by an RWMutex; each session additionally has its
//     own mutex so Tick and Submit on one session are serialized while
//     different sessions proceed independently.
//   - Every Update stamps the entry; Sweep drops entries not touched since
//     a cutoff (finished or abandoned sessions).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/skillgames/internal/game"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save adds a new session.
	Save(ctx context.Context, s *game.Session) error

	// Update runs fn with exclusive access to the session.
	// fn's error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete discards a session. Deleting a missing id returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions untouched since cutoff and returns their ids.
	Sweep(ctx context.Context, cutoff time.Time) []string

	// Len reports how many sessions are held.
	Len() int
}

type entry struct {
	mu      sync.Mutex
	session *game.Session
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{entries: make(map[string]*entry), now: now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID()] = &entry{session: s, touched: m.now()}
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = m.now()
	return fn(e.session)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var gone []string
	for id, e := range m.entries {
		e.mu.Lock()
		stale := e.touched.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(m.entries, id)
			gone = append(gone, id)
		}
	}
	return gone
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
