package usage

import "time"

// Aggregate reduces events into summary statistics using the built-in
// price table and the server's local timezone for hour bucketing.
func Aggregate(events []Event) AggregatedStats {
	return AggregateWith(events, DefaultPricing(), time.Local)
}

// AggregateWith reduces events into summary statistics in a single pass.
// It is a pure function of the event slice: events are never mutated.
// All derived rates return 0 for an empty event set, and the peak hour
// baseline is {hour: 0, count: 0}.
func AggregateWith(events []Event, prices PriceTable, loc *time.Location) AggregatedStats {
	if loc == nil {
		loc = time.Local
	}

	stats := AggregatedStats{
		ModelDistribution: make(map[string]int64),
	}

	var (
		hourCounts  [24]int64
		errorCount  int64
		durationSum int64
		users       = make(map[string]struct{})
	)

	for _, e := range events {
		stats.TotalPromptTokens += e.PromptTokens
		stats.TotalCompletionTokens += e.CompletionTokens
		stats.TotalTokens += e.TotalTokens
		stats.TotalRequests++

		stats.ModelDistribution[e.Model]++
		hourCounts[e.Timestamp.In(loc).Hour()]++

		if e.Error {
			errorCount++
		}
		// Missing durations count as 0 toward the mean.
		durationSum += e.Duration

		users[e.UserID] = struct{}{}

		stats.EstimatedCost += prices.Cost(e.Model, e.TotalTokens)
	}

	stats.UniqueUsers = len(users)

	// Strictly-greater comparison over hours 0..23: ties resolve to the
	// earliest hour, and an empty set yields {0, 0}.
	for hour, count := range hourCounts {
		if count > stats.PeakHour.Count {
			stats.PeakHour = PeakHour{Hour: hour, Count: count}
		}
	}

	if stats.TotalRequests > 0 {
		stats.ErrorRate = float64(errorCount) / float64(stats.TotalRequests)
		stats.AverageResponseTime = float64(durationSum) / float64(stats.TotalRequests)
	}

	return stats
}
