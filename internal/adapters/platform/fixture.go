package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/core"
)

// fixtureFile is the on-disk snapshot shape the fixture provider reads
type fixtureFile struct {
	Campaigns []core.MetricsSnapshot `json:"campaigns"`
	Clients   []core.ClientMetrics   `json:"clients"`
	Accounts  []core.Account         `json:"accounts"`
}

// FixtureProvider serves metrics from a JSON snapshot file. Used by the CLI
// and for offline work; implements the same port as the live client.
type FixtureProvider struct {
	data   fixtureFile
	logger *zap.Logger
}

// NewFixtureProvider loads a snapshot file into memory
func NewFixtureProvider(path string, logger *zap.Logger) (*FixtureProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var data fixtureFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	// Fixture files may carry raw counts only
	for i := range data.Campaigns {
		if data.Campaigns[i].ReplyRate == 0 {
			data.Campaigns[i].ComputeRates()
		}
	}
	for i := range data.Clients {
		if data.Clients[i].Metrics.ReplyRate == 0 {
			data.Clients[i].Metrics.ComputeRates()
		}
	}

	logger.Info("Loaded fixture snapshot",
		zap.String("path", path),
		zap.Int("campaigns", len(data.Campaigns)),
		zap.Int("clients", len(data.Clients)),
		zap.Int("accounts", len(data.Accounts)))

	return &FixtureProvider{data: data, logger: logger}, nil
}

// GetCampaignMetrics returns one snapshot per campaign; the date range is
// ignored because a fixture is a single point-in-time snapshot
func (p *FixtureProvider) GetCampaignMetrics(ctx context.Context, dr *core.DateRange) ([]core.MetricsSnapshot, error) {
	return p.data.Campaigns, nil
}

// GetAggregatedMetrics returns the snapshot for a single entity
func (p *FixtureProvider) GetAggregatedMetrics(ctx context.Context, entityID string, dr *core.DateRange) (*core.MetricsSnapshot, error) {
	for _, m := range p.data.Campaigns {
		if m.EntityID == entityID || strings.EqualFold(m.EntityName, entityID) {
			snapshot := m
			return &snapshot, nil
		}
	}
	return nil, core.NewNotFoundError("campaign", entityID)
}

// GetClientMetrics returns per-client aggregates
func (p *FixtureProvider) GetClientMetrics(ctx context.Context) ([]core.ClientMetrics, error) {
	return p.data.Clients, nil
}

// GetAccounts returns every sending inbox
func (p *FixtureProvider) GetAccounts(ctx context.Context) ([]core.Account, error) {
	return p.data.Accounts, nil
}
