package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokenwatch/tokenwatch/internal/config"
	"github.com/tokenwatch/tokenwatch/internal/dashboard"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
	"github.com/tokenwatch/tokenwatch/internal/usage"
)

const topUsersLimit = 10

// Handler serves the usage-analytics endpoints.
type Handler struct {
	service   *usage.Service
	recorder  *usage.Recorder
	getConfig func() *config.Config
}

// NewHandler wires the stats service and recorder into an HTTP handler.
// getConfig returns the current configuration; it is a function so the
// watcher can hot-swap config without restarting the server.
func NewHandler(service *usage.Service, recorder *usage.Recorder, getConfig func() *config.Config) *Handler {
	return &Handler{service: service, recorder: recorder, getConfig: getConfig}
}

// GetUsageStats handles GET /v1/usage/stats. It returns the raw events of
// the requested window (newest first) plus their aggregated statistics.
func (h *Handler) GetUsageStats(c *gin.Context) {
	from, to := h.parseTimeRange(c)

	events, aggregated, err := h.service.Stats(c.Request.Context(), from, to)
	if err != nil {
		log.WithError(err).Errorf("usage: stats query failed")
		respondInternalError(c, "failed to load usage statistics")
		return
	}
	if events == nil {
		events = []usage.Event{}
	}

	respondOK(c, StatsData{Stats: events, Aggregated: aggregated})
}

// GetDashboard handles GET /v1/usage/dashboard. It returns chart inputs:
// daily time series, 24-bucket hourly histogram, top-10 users by request
// count and the model distribution.
func (h *Handler) GetDashboard(c *gin.Context) {
	from, to := h.parseTimeRange(c)

	events, aggregated, err := h.service.Stats(c.Request.Context(), from, to)
	if err != nil {
		log.WithError(err).Errorf("usage: dashboard query failed")
		respondInternalError(c, "failed to load usage statistics")
		return
	}

	loc := h.service.Location()
	respondOK(c, DashboardData{
		Daily:    dashboard.DailySeries(events, loc),
		Hourly:   dashboard.HourlyHistogram(events, loc),
		TopUsers: dashboard.TopUsers(events, topUsersLimit),
		Models:   dashboard.ModelSeries(aggregated.ModelDistribution),
	})
}

// PostUsageEvent handles POST /v1/usage/events. The body carries the event
// fields minus id and timestamp; the response is the persisted record.
func (h *Handler) PostUsageEvent(c *gin.Context) {
	var in usage.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid usage event payload")
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		respondBadRequest(c, "userId is required")
		return
	}
	if strings.TrimSpace(in.Model) == "" {
		respondBadRequest(c, "model is required")
		return
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 || in.TotalTokens < 0 || in.Duration < 0 {
		respondBadRequest(c, "token counts and duration must be non-negative")
		return
	}

	event, err := h.recorder.Record(c.Request.Context(), in)
	if err != nil {
		respondInternalError(c, "failed to record usage event")
		return
	}
	respondOK(c, event)
}

// parseTimeRange resolves the query window from the `days`, `from` and
// `to` parameters. Bounds are inclusive; invalid values fall back to the
// retention-days default rather than erroring.
func (h *Handler) parseTimeRange(c *gin.Context) (from, to time.Time) {
	retentionDays := config.DefaultRetentionDays
	if cfg := h.getConfig(); cfg != nil && cfg.Usage.RetentionDays > 0 {
		retentionDays = cfg.Usage.RetentionDays
	}

	to = time.Now()
	from = to.AddDate(0, 0, -retentionDays)

	if daysStr := c.Query("days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			from = to.AddDate(0, 0, -days)
		}
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse("2006-01-02", fromStr); err == nil {
			from = parsed
		} else if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = parsed
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.Parse("2006-01-02", toStr); err == nil {
			// A date-only upper bound means end of that day.
			to = parsed.Add(24*time.Hour - time.Second)
		} else if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = parsed
		}
	}

	return from, to
}
