package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

type brokenQueryBackend struct {
	MemoryBackend
}

func (*brokenQueryBackend) QueryEvents(context.Context, time.Time, time.Time) ([]Event, error) {
	return nil, errors.New("connection reset")
}

func TestServiceStats(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_ = backend.Insert(ctx, Event{
			ID:          string(rune('a' + i)),
			UserID:      "u1",
			Timestamp:   ts(9, i*10),
			TotalTokens: 100,
			Model:       "gpt-4o",
		})
	}
	_ = backend.Insert(ctx, Event{
		ID: "z", UserID: "u2", Timestamp: ts(15, 0), TotalTokens: 50, Model: "gpt-4", Error: true,
	})

	service := NewService(backend)
	service.SetLocation(time.UTC)

	events, aggregated, err := service.Stats(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	if !events[0].Timestamp.Equal(ts(15, 0)) {
		t.Errorf("first event = %v, want newest first", events[0].Timestamp)
	}
	if aggregated.TotalRequests != 5 {
		t.Errorf("TotalRequests = %d, want 5", aggregated.TotalRequests)
	}
	if aggregated.UniqueUsers != 2 {
		t.Errorf("UniqueUsers = %d, want 2", aggregated.UniqueUsers)
	}
	if aggregated.PeakHour != (PeakHour{Hour: 9, Count: 4}) {
		t.Errorf("PeakHour = %+v, want {9 4}", aggregated.PeakHour)
	}
	if aggregated.ErrorRate != 0.2 {
		t.Errorf("ErrorRate = %v, want 0.2", aggregated.ErrorRate)
	}
}

func TestServiceStatsWindow(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	_ = backend.Insert(ctx, Event{ID: "in", UserID: "u", Timestamp: ts(10, 0), Model: "m"})
	_ = backend.Insert(ctx, Event{ID: "out", UserID: "u", Timestamp: ts(20, 0), Model: "m"})

	service := NewService(backend)
	events, aggregated, err := service.Stats(ctx, ts(9, 0), ts(11, 0))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(events) != 1 || events[0].ID != "in" {
		t.Errorf("events = %+v, want only the in-window event", events)
	}
	if aggregated.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1", aggregated.TotalRequests)
	}
}

func TestServiceStatsQueryError(t *testing.T) {
	service := NewService(&brokenQueryBackend{})

	_, _, err := service.Stats(context.Background(), time.Time{}, time.Time{})
	if err == nil {
		t.Fatal("Stats returned nil error, want store error propagated")
	}
}

func TestServicePricingSwap(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	_ = backend.Insert(ctx, Event{ID: "a", UserID: "u", Timestamp: ts(1, 0), TotalTokens: 1000, Model: "custom"})

	service := NewService(backend)
	service.SetPricing(NewPriceTable(map[string]float64{"custom": 1.0}, 0.002))

	_, aggregated, err := service.Stats(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if aggregated.EstimatedCost != 1.0 {
		t.Errorf("EstimatedCost = %v, want 1.0 after pricing swap", aggregated.EstimatedCost)
	}
}
