package core

import (
	"context"
	"time"
)

// MetricsProvider is the outreach-platform boundary. Implementations fetch
// raw analytics; the core never talks to the platform directly.
type MetricsProvider interface {
	// GetCampaignMetrics returns one snapshot per campaign
	GetCampaignMetrics(ctx context.Context, dr *DateRange) ([]MetricsSnapshot, error)

	// GetAggregatedMetrics returns the snapshot for a single entity
	GetAggregatedMetrics(ctx context.Context, entityID string, dr *DateRange) (*MetricsSnapshot, error)

	// GetClientMetrics returns per-client aggregates across campaigns and inboxes
	GetClientMetrics(ctx context.Context) ([]ClientMetrics, error)

	// GetAccounts returns every sending inbox with status, health and warmup flags
	GetAccounts(ctx context.Context) ([]Account, error)
}

// ReportCache stores finished reports under date-folded keys. Writes replace
// the whole entry; readers never observe a partial one.
type ReportCache interface {
	// Get retrieves a cached report, or reports a miss
	Get(ctx context.Context, key string) (*Report, bool)

	// Set stores a report under the given TTL class
	Set(ctx context.Context, key string, report *Report, ttlClass string)

	// Clear removes entries whose key contains pattern; empty pattern clears all
	Clear(ctx context.Context, pattern string) error

	// Age returns how long ago the entry was written
	Age(ctx context.Context, key string) (time.Duration, bool)
}

// RateDecision is the outcome of one admission check
type RateDecision struct {
	Allowed   bool
	Remaining int
	Wait      time.Duration
}

// RateLimiter bounds how many commands may execute per time window
type RateLimiter interface {
	// Check admits or rejects one request
	Check() RateDecision
}
