package usage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Service answers stats queries: it fetches the events in range from the
// backend and reduces them into aggregated statistics. The price table and
// bucketing timezone can be swapped at runtime by the config watcher.
type Service struct {
	backend Backend

	mu     sync.RWMutex
	prices PriceTable
	loc    *time.Location
}

// NewService returns a stats service over the given backend using the
// built-in price table and the server's local timezone.
func NewService(backend Backend) *Service {
	return &Service{
		backend: backend,
		prices:  DefaultPricing(),
		loc:     time.Local,
	}
}

// SetPricing replaces the price table used for cost estimation.
func (s *Service) SetPricing(prices PriceTable) {
	s.mu.Lock()
	s.prices = prices
	s.mu.Unlock()
}

// SetLocation replaces the timezone used for hour and day bucketing.
// A nil location keeps the current one.
func (s *Service) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
}

// Location returns the timezone currently used for bucketing.
func (s *Service) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

// Stats returns the events within the inclusive [from, to] window ordered
// newest first, together with their aggregated statistics. Zero times
// leave the corresponding bound open. Stored events are never mutated.
func (s *Service) Stats(ctx context.Context, from, to time.Time) ([]Event, AggregatedStats, error) {
	events, err := s.backend.QueryEvents(ctx, from, to)
	if err != nil {
		return nil, AggregatedStats{}, fmt.Errorf("usage: query events: %w", err)
	}

	s.mu.RLock()
	prices, loc := s.prices, s.loc
	s.mu.RUnlock()

	return events, AggregateWith(events, prices, loc), nil
}
