package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
)

// timeNow is swapped in tests for deterministic timestamps.
var timeNow = time.Now

// Recorder appends usage events to a backend, assigning the id and the
// server-side timestamp.
type Recorder struct {
	backend Backend
}

// NewRecorder returns a recorder writing to the given backend.
func NewRecorder(backend Backend) *Recorder {
	return &Recorder{backend: backend}
}

// Record persists one usage event with a generated id and the current
// server time. Store errors are logged and propagated to the caller.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (Event, error) {
	event := Event{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		Timestamp:        timeNow().UTC(),
		PromptTokens:     in.PromptTokens,
		CompletionTokens: in.CompletionTokens,
		TotalTokens:      in.TotalTokens,
		Model:            in.Model,
		Duration:         in.Duration,
		Error:            in.Error,
	}

	if err := r.backend.Insert(ctx, event); err != nil {
		log.WithError(err).Errorf("usage: failed to record event for user %s", in.UserID)
		return Event{}, fmt.Errorf("usage: record event: %w", err)
	}
	return event, nil
}
