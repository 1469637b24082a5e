package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingBackend returns a fixed error from Insert.
type failingBackend struct {
	MemoryBackend
	err error
}

func (f *failingBackend) Insert(context.Context, Event) error { return f.err }

func TestRecorderStampsIDAndTimestamp(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 12, 34, 56, 0, time.UTC)
	restore := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = restore }()

	backend := NewMemoryBackend()
	recorder := NewRecorder(backend)

	event, err := recorder.Record(context.Background(), RecordInput{
		UserID:           "u1",
		PromptTokens:     10,
		CompletionTokens: 5,
		TotalTokens:      15,
		Model:            "gpt-4o",
		Duration:         120,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if event.ID == "" {
		t.Error("event ID not assigned")
	}
	if !event.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want server-stamped %v", event.Timestamp, fixed)
	}
	if event.UserID != "u1" || event.TotalTokens != 15 || event.Model != "gpt-4o" {
		t.Errorf("event fields not carried over: %+v", event)
	}

	stored, err := backend.QueryEvents(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != event.ID {
		t.Errorf("stored events = %+v, want the recorded event", stored)
	}
}

func TestRecorderPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("disk full")
	recorder := NewRecorder(&failingBackend{err: storeErr})

	_, err := recorder.Record(context.Background(), RecordInput{UserID: "u1", Model: "gpt-4o"})
	if err == nil {
		t.Fatal("Record returned nil error, want store error propagated")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("error %v does not wrap store error", err)
	}
}
