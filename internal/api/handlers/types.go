package handlers

import (
	"github.com/tokenwatch/tokenwatch/internal/dashboard"
	"github.com/tokenwatch/tokenwatch/internal/usage"
)

// StatsData is the payload of GET /v1/usage/stats.
type StatsData struct {
	Stats      []usage.Event         `json:"stats"`
	Aggregated usage.AggregatedStats `json:"aggregated"`
}

// DashboardData is the payload of GET /v1/usage/dashboard: chart inputs
// derived from the same event window.
type DashboardData struct {
	Daily    []dashboard.DayPoint   `json:"daily"`
	Hourly   []dashboard.HourPoint  `json:"hourly"`
	TopUsers []dashboard.UserRank   `json:"topUsers"`
	Models   []dashboard.ModelSlice `json:"models"`
}
