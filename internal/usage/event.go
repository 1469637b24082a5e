// Package usage records per-request LLM usage events and computes
// aggregate statistics over them.
package usage

import "time"

// Event is one recorded model invocation with token, timing and error
// metadata. Events are immutable once written.
type Event struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Timestamp        time.Time `json:"timestamp"`
	PromptTokens     int64     `json:"promptTokens"`
	CompletionTokens int64     `json:"completionTokens"`
	// TotalTokens is expected, but not enforced, to equal
	// PromptTokens + CompletionTokens.
	TotalTokens int64  `json:"totalTokens"`
	Model       string `json:"model"`
	// Duration is the request latency in milliseconds; 0 means unknown.
	Duration int64 `json:"duration,omitempty"`
	// Error marks a failed request.
	Error bool `json:"error,omitempty"`
}

// RecordInput carries the caller-supplied fields of an event. ID and
// Timestamp are assigned by the recorder.
type RecordInput struct {
	UserID           string `json:"userId"`
	PromptTokens     int64  `json:"promptTokens"`
	CompletionTokens int64  `json:"completionTokens"`
	TotalTokens      int64  `json:"totalTokens"`
	Model            string `json:"model"`
	Duration         int64  `json:"duration,omitempty"`
	Error            bool   `json:"error,omitempty"`
}

// PeakHour is the 0-23 hour bucket with the highest event count in range.
type PeakHour struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// AggregatedStats is the derived summary recomputed on every query.
type AggregatedStats struct {
	TotalPromptTokens     int64            `json:"totalPromptTokens"`
	TotalCompletionTokens int64            `json:"totalCompletionTokens"`
	TotalTokens           int64            `json:"totalTokens"`
	TotalRequests         int64            `json:"totalRequests"`
	AverageResponseTime   float64          `json:"averageResponseTime"`
	ErrorRate             float64          `json:"errorRate"`
	UniqueUsers           int              `json:"uniqueUsers"`
	ModelDistribution     map[string]int64 `json:"modelDistribution"`
	PeakHour              PeakHour         `json:"peakHour"`
	EstimatedCost         float64          `json:"estimatedCost"`
}
