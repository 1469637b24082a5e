// Package dashboard shapes usage events and aggregated statistics into
// chart-ready series for the admin panel. Pure formatting: grouping and
// sorting only, no business logic.
package dashboard

import (
	"sort"
	"time"

	"github.com/tokenwatch/tokenwatch/internal/usage"
)

// DayPoint is one calendar day on the request/token time series.
type DayPoint struct {
	Day      string `json:"day"` // YYYY-MM-DD
	Requests int64  `json:"requests"`
	Tokens   int64  `json:"tokens"`
}

// HourPoint is one 0-23 bucket of the hourly histogram.
type HourPoint struct {
	Hour     int   `json:"hour"`
	Requests int64 `json:"requests"`
	Tokens   int64 `json:"tokens"`
}

// UserRank is one row of the top-users ranking.
type UserRank struct {
	UserID   string `json:"userId"`
	Requests int64  `json:"requests"`
	Tokens   int64  `json:"tokens"`
}

// ModelSlice is one slice of the model distribution chart.
type ModelSlice struct {
	Model string `json:"model"`
	Count int64  `json:"count"`
}

// DailySeries groups events into per-day request and token counts,
// ascending by day.
func DailySeries(events []usage.Event, loc *time.Location) []DayPoint {
	if loc == nil {
		loc = time.Local
	}
	byDay := make(map[string]*DayPoint)
	for _, e := range events {
		day := e.Timestamp.In(loc).Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &DayPoint{Day: day}
			byDay[day] = p
		}
		p.Requests++
		p.Tokens += e.TotalTokens
	}

	series := make([]DayPoint, 0, len(byDay))
	for _, p := range byDay {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day < series[j].Day })
	return series
}

// HourlyHistogram buckets events into all 24 hours of the day,
// zero-filling hours without traffic.
func HourlyHistogram(events []usage.Event, loc *time.Location) []HourPoint {
	if loc == nil {
		loc = time.Local
	}
	histogram := make([]HourPoint, 24)
	for hour := range histogram {
		histogram[hour].Hour = hour
	}
	for _, e := range events {
		hour := e.Timestamp.In(loc).Hour()
		histogram[hour].Requests++
		histogram[hour].Tokens += e.TotalTokens
	}
	return histogram
}

// TopUsers ranks users by request count, descending, and returns at most n
// entries. Ties order by token count, then by user id for stability.
func TopUsers(events []usage.Event, n int) []UserRank {
	byUser := make(map[string]*UserRank)
	for _, e := range events {
		r, ok := byUser[e.UserID]
		if !ok {
			r = &UserRank{UserID: e.UserID}
			byUser[e.UserID] = r
		}
		r.Requests++
		r.Tokens += e.TotalTokens
	}

	ranking := make([]UserRank, 0, len(byUser))
	for _, r := range byUser {
		ranking = append(ranking, *r)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Requests != ranking[j].Requests {
			return ranking[i].Requests > ranking[j].Requests
		}
		if ranking[i].Tokens != ranking[j].Tokens {
			return ranking[i].Tokens > ranking[j].Tokens
		}
		return ranking[i].UserID < ranking[j].UserID
	})

	if n > 0 && len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// ModelSeries converts a model distribution map into chart slices sorted
// by count descending, model name ascending on ties.
func ModelSeries(distribution map[string]int64) []ModelSlice {
	series := make([]ModelSlice, 0, len(distribution))
	for model, count := range distribution {
		series = append(series, ModelSlice{Model: model, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Count != series[j].Count {
			return series[i].Count > series[j].Count
		}
		return series[i].Model < series[j].Model
	})
	return series
}
