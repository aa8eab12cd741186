// internal/store/memory.go
//
// In-memory session store.
// Game sessions are ephemeral by design: they live here while a player is
// mid-game and are dropped when the game ends or is abandoned.
//
// Characteristics:
//   - Values keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Sweep evicts sessions idle longer than a cutoff.

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for unknown or evicted sessions.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store[T any] interface {
	// Save persists or replaces the value under id and marks it as touched.
	Save(ctx context.Context, id string, v T) error

	// Get retrieves a value by id, or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Delete removes id; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes entries not saved since cutoff and returns how many went.
	Sweep(ctx context.Context, cutoff time.Time) int
}

type entry[T any] struct {
	v       T
	touched time.Time
}

// memory is a map-based Store implementation.
type memory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	now   func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore[T any]() Store[T] {
	return &memory[T]{items: make(map[string]entry[T]), now: time.Now}
}

func (m *memory[T]) Save(ctx context.Context, id string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = entry[T]{v: v, touched: m.now()}
	return nil
}

func (m *memory[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.items[id]; ok {
		return e.v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memory[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memory[T]) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.items {
		if e.touched.Before(cutoff) {
			delete(m.items, id)
			n++
		}
	}
	return n
}
