package usage

import (
	"math"
	"testing"
	"time"
)

func ts(hour, min int) time.Time {
	return time.Date(2025, 6, 15, hour, min, 0, 0, time.UTC)
}

func TestAggregateEmptySet(t *testing.T) {
	stats := AggregateWith(nil, DefaultPricing(), time.UTC)

	if stats.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", stats.TotalRequests)
	}
	if stats.ErrorRate != 0 {
		t.Errorf("ErrorRate = %v, want 0", stats.ErrorRate)
	}
	if stats.AverageResponseTime != 0 {
		t.Errorf("AverageResponseTime = %v, want 0", stats.AverageResponseTime)
	}
	if stats.PeakHour.Hour != 0 || stats.PeakHour.Count != 0 {
		t.Errorf("PeakHour = %+v, want {0 0}", stats.PeakHour)
	}
	if stats.UniqueUsers != 0 {
		t.Errorf("UniqueUsers = %d, want 0", stats.UniqueUsers)
	}
	if stats.EstimatedCost != 0 {
		t.Errorf("EstimatedCost = %v, want 0", stats.EstimatedCost)
	}
	if len(stats.ModelDistribution) != 0 {
		t.Errorf("ModelDistribution = %v, want empty", stats.ModelDistribution)
	}
}

func TestAggregateTokenTotals(t *testing.T) {
	events := []Event{
		{UserID: "u1", Timestamp: ts(9, 0), PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "gpt-4o"},
		{UserID: "u2", Timestamp: ts(10, 0), PromptTokens: 200, CompletionTokens: 100, TotalTokens: 300, Model: "gpt-4o"},
		{UserID: "u1", Timestamp: ts(11, 0), PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, Model: "claude-3-haiku"},
	}

	stats := AggregateWith(events, DefaultPricing(), time.UTC)

	if stats.TotalPromptTokens != 310 {
		t.Errorf("TotalPromptTokens = %d, want 310", stats.TotalPromptTokens)
	}
	if stats.TotalCompletionTokens != 155 {
		t.Errorf("TotalCompletionTokens = %d, want 155", stats.TotalCompletionTokens)
	}
	if stats.TotalTokens != 465 {
		t.Errorf("TotalTokens = %d, want 465", stats.TotalTokens)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", stats.TotalRequests)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("UniqueUsers = %d, want 2", stats.UniqueUsers)
	}
}

func TestAggregateModelDistributionSumsToTotalRequests(t *testing.T) {
	events := []Event{
		{UserID: "a", Timestamp: ts(1, 0), Model: "gpt-4"},
		{UserID: "b", Timestamp: ts(2, 0), Model: "gpt-4"},
		{UserID: "c", Timestamp: ts(3, 0), Model: "gpt-3.5-turbo"},
		{UserID: "a", Timestamp: ts(4, 0), Model: "claude-3-opus"},
	}

	stats := AggregateWith(events, DefaultPricing(), time.UTC)

	var sum int64
	for _, count := range stats.ModelDistribution {
		sum += count
	}
	if sum != stats.TotalRequests {
		t.Errorf("sum of ModelDistribution = %d, want TotalRequests = %d", sum, stats.TotalRequests)
	}
	if stats.ModelDistribution["gpt-4"] != 2 {
		t.Errorf("ModelDistribution[gpt-4] = %d, want 2", stats.ModelDistribution["gpt-4"])
	}
	if int64(stats.UniqueUsers) > stats.TotalRequests {
		t.Errorf("UniqueUsers %d > TotalRequests %d", stats.UniqueUsers, stats.TotalRequests)
	}
}

func TestAggregateErrorRateAndLatency(t *testing.T) {
	events := []Event{
		{UserID: "a", Timestamp: ts(5, 0), Model: "gpt-4o", Duration: 100, Error: true},
		{UserID: "a", Timestamp: ts(5, 10), Model: "gpt-4o", Duration: 300},
		{UserID: "a", Timestamp: ts(5, 20), Model: "gpt-4o"}, // missing duration counts as 0
		{UserID: "a", Timestamp: ts(5, 30), Model: "gpt-4o", Duration: 200},
	}

	stats := AggregateWith(events, DefaultPricing(), time.UTC)

	if got, want := stats.ErrorRate, 0.25; got != want {
		t.Errorf("ErrorRate = %v, want %v", got, want)
	}
	if got, want := stats.AverageResponseTime, 150.0; got != want {
		t.Errorf("AverageResponseTime = %v, want %v", got, want)
	}
}

func TestAggregatePeakHour(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   PeakHour
	}{
		{
			name: "single busiest hour",
			events: []Event{
				{UserID: "a", Timestamp: ts(9, 0), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(14, 5), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(14, 30), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(14, 45), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(20, 0), Model: "gpt-4o"},
			},
			want: PeakHour{Hour: 14, Count: 3},
		},
		{
			name: "tie resolves to earliest hour",
			events: []Event{
				{UserID: "a", Timestamp: ts(8, 0), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(8, 30), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(17, 0), Model: "gpt-4o"},
				{UserID: "a", Timestamp: ts(17, 30), Model: "gpt-4o"},
			},
			want: PeakHour{Hour: 8, Count: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := AggregateWith(tt.events, DefaultPricing(), time.UTC)
			if stats.PeakHour != tt.want {
				t.Errorf("PeakHour = %+v, want %+v", stats.PeakHour, tt.want)
			}
		})
	}
}

func TestAggregateSingleHourPeakEqualsTotalRequests(t *testing.T) {
	events := []Event{
		{UserID: "a", Timestamp: ts(6, 1), Model: "gpt-4o"},
		{UserID: "b", Timestamp: ts(6, 20), Model: "gpt-4o"},
		{UserID: "c", Timestamp: ts(6, 59), Model: "gpt-4o"},
	}

	stats := AggregateWith(events, DefaultPricing(), time.UTC)

	if stats.PeakHour.Count != stats.TotalRequests {
		t.Errorf("PeakHour.Count = %d, want TotalRequests = %d",
			stats.PeakHour.Count, stats.TotalRequests)
	}
	if stats.PeakHour.Hour != 6 {
		t.Errorf("PeakHour.Hour = %d, want 6", stats.PeakHour.Hour)
	}
}

func TestAggregateEstimatedCost(t *testing.T) {
	prices := NewPriceTable(map[string]float64{"gpt-4o": 0.01}, 0.002)

	events := []Event{
		{UserID: "a", Timestamp: ts(1, 0), Model: "gpt-4o", TotalTokens: 1000},
		{UserID: "a", Timestamp: ts(2, 0), Model: "unknown-model", TotalTokens: 2000},
	}

	stats := AggregateWith(events, prices, time.UTC)

	want := 0.01 + 2*0.002
	if math.Abs(stats.EstimatedCost-want) > 1e-9 {
		t.Errorf("EstimatedCost = %v, want %v", stats.EstimatedCost, want)
	}
}

func TestAggregateHourBucketingUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	events := []Event{
		// 22:00 UTC is 01:00 in UTC+3.
		{UserID: "a", Timestamp: time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC), Model: "gpt-4o"},
	}

	stats := AggregateWith(events, DefaultPricing(), loc)

	if stats.PeakHour.Hour != 1 {
		t.Errorf("PeakHour.Hour = %d, want 1 (bucketing in UTC+3)", stats.PeakHour.Hour)
	}
}

func TestAggregateDoesNotMutateEvents(t *testing.T) {
	events := []Event{
		{ID: "e1", UserID: "a", Timestamp: ts(3, 0), Model: "gpt-4o", TotalTokens: 42},
	}
	before := events[0]

	_ = AggregateWith(events, DefaultPricing(), time.UTC)

	if events[0] != before {
		t.Errorf("event mutated by aggregation: %+v -> %+v", before, events[0])
	}
}
