package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenwatch/tokenwatch/internal/config"
)

// Backend defines the persistence contract for usage events.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Insert appends one event. The write is synchronous so that store
	// errors propagate to the caller.
	Insert(ctx context.Context, event Event) error

	// QueryEvents returns events with from <= timestamp <= to, ordered
	// by timestamp descending.
	QueryEvents(ctx context.Context, from, to time.Time) ([]Event, error)

	// Cleanup removes events older than the given time and reports how
	// many were deleted.
	Cleanup(ctx context.Context, before time.Time) (int64, error)

	// Start begins background workers (retention cleanup loop).
	Start() error

	// Stop gracefully shuts down the backend.
	Stop() error
}

// BackendConfig holds parameters for backend initialization.
type BackendConfig struct {
	// DSN is the connection string (sqlite://, postgres:// or memory://).
	DSN string

	// RetentionDays is how many days of events to keep.
	RetentionDays int
}

// NewBackend creates the appropriate backend based on the DSN scheme.
func NewBackend(cfg BackendConfig) (Backend, error) {
	parsed, err := config.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, fmt.Errorf("DSN is required (use sqlite://, postgres:// or memory://)")
	}

	switch parsed.Backend {
	case "postgres":
		return NewPostgresBackend(parsed.URL, cfg)
	case "sqlite":
		return NewSQLiteBackend(parsed.Path, cfg)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend type: %q", parsed.Backend)
	}
}
