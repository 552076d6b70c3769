package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/core"
)

// HTTPClient talks to the outreach platform's REST API. Every call goes
// through a circuit breaker so a flapping upstream trips fast instead of
// stacking up timeouts.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewHTTPClient creates a platform client for the given base URL and API key
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	cbSettings := gobreaker.Settings{
		Name:     "outreach-platform",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		logger:  logger,
	}
}

// getJSON fetches one endpoint through the breaker and decodes into out
func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return nil, nil
	})
	return err
}

// rangeQuery encodes a date range as query parameters; nil means all-time
func rangeQuery(dr *core.DateRange) url.Values {
	q := url.Values{}
	if dr != nil {
		q.Set("start_date", dr.Start.Format("2006-01-02"))
		q.Set("end_date", dr.End.Format("2006-01-02"))
	}
	return q
}

// GetCampaignMetrics returns one snapshot per campaign
func (c *HTTPClient) GetCampaignMetrics(ctx context.Context, dr *core.DateRange) ([]core.MetricsSnapshot, error) {
	var payload struct {
		Campaigns []core.MetricsSnapshot `json:"campaigns"`
	}
	if err := c.getJSON(ctx, "/api/v1/campaigns/analytics", rangeQuery(dr), &payload); err != nil {
		return nil, err
	}
	return payload.Campaigns, nil
}

// GetAggregatedMetrics returns the snapshot for a single entity
func (c *HTTPClient) GetAggregatedMetrics(ctx context.Context, entityID string, dr *core.DateRange) (*core.MetricsSnapshot, error) {
	var snapshot core.MetricsSnapshot
	path := fmt.Sprintf("/api/v1/campaigns/%s/analytics", url.PathEscape(entityID))
	if err := c.getJSON(ctx, path, rangeQuery(dr), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetClientMetrics returns per-client aggregates
func (c *HTTPClient) GetClientMetrics(ctx context.Context) ([]core.ClientMetrics, error) {
	var payload struct {
		Clients []core.ClientMetrics `json:"clients"`
	}
	if err := c.getJSON(ctx, "/api/v1/clients/analytics", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Clients, nil
}

// GetAccounts returns every sending inbox
func (c *HTTPClient) GetAccounts(ctx context.Context) ([]core.Account, error) {
	var payload struct {
		Accounts []core.Account `json:"accounts"`
	}
	if err := c.getJSON(ctx, "/api/v1/accounts", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Accounts, nil
}
