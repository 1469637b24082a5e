package usage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryBackend keeps events in process memory. It backs the memory://
// DSN for local development and tests; contents are lost on shutdown.
type MemoryBackend struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{events: make([]Event, 0)}
}

// Insert appends one event.
func (b *MemoryBackend) Insert(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// QueryEvents returns events within the inclusive range, newest first.
func (b *MemoryBackend) QueryEvents(_ context.Context, from, to time.Time) ([]Event, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	matched := make([]Event, 0, len(b.events))
	for _, e := range b.events {
		if (from.IsZero() || !e.Timestamp.Before(from)) &&
			(to.IsZero() || !e.Timestamp.After(to)) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

// Cleanup removes events older than before.
func (b *MemoryBackend) Cleanup(_ context.Context, before time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.events[:0]
	var deleted int64
	for _, e := range b.events {
		if e.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	b.events = kept
	return deleted, nil
}

// Start is a no-op; the memory backend has no background workers.
func (b *MemoryBackend) Start() error { return nil }

// Stop is a no-op.
func (b *MemoryBackend) Stop() error { return nil }
