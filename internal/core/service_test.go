package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	campaigns []MetricsSnapshot
	clients   []ClientMetrics
	accounts  []Account
	err       error
}

func (p *fakeProvider) GetCampaignMetrics(ctx context.Context, dr *DateRange) ([]MetricsSnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.campaigns, nil
}

func (p *fakeProvider) GetAggregatedMetrics(ctx context.Context, entityID string, dr *DateRange) (*MetricsSnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	for _, m := range p.campaigns {
		if m.EntityID == entityID {
			snapshot := m
			return &snapshot, nil
		}
	}
	return nil, NewNotFoundError("campaign", entityID)
}

func (p *fakeProvider) GetClientMetrics(ctx context.Context) ([]ClientMetrics, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.clients, nil
}

func (p *fakeProvider) GetAccounts(ctx context.Context) ([]Account, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.accounts, nil
}

type fakeCacheEntry struct {
	report    *Report
	writtenAt time.Time
}

type fakeCache struct {
	entries map[string]fakeCacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]fakeCacheEntry)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (*Report, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.report, true
}

func (c *fakeCache) Set(ctx context.Context, key string, report *Report, ttlClass string) {
	c.entries[key] = fakeCacheEntry{report: report, writtenAt: time.Now()}
	c.sets++
}

func (c *fakeCache) Clear(ctx context.Context, pattern string) error {
	c.entries = make(map[string]fakeCacheEntry)
	return nil
}

func (c *fakeCache) Age(ctx context.Context, key string) (time.Duration, bool) {
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return time.Since(e.writtenAt), true
}

type fakeLimiter struct {
	allowed bool
	checks  int
}

func (l *fakeLimiter) Check() RateDecision {
	l.checks++
	if !l.allowed {
		return RateDecision{Allowed: false, Wait: 3 * time.Minute}
	}
	return RateDecision{Allowed: true, Remaining: 1}
}

func testService(provider *fakeProvider, cache *fakeCache, limiter *fakeLimiter) *AnalystService {
	return NewAnalystService(provider, cache, limiter, DefaultBenchmarks(), zap.NewNop())
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		campaigns: []MetricsSnapshot{
			snapshot("Acme Corp", 12000, 4800, 5000, 300, 80, 24),
			snapshot("Globex", 50000, 49000, 500, 600, 150, 40),
		},
		clients: []ClientMetrics{
			client("Acme Corp", 12000, 11000, 5000, 240, 60, 20),
			client("Globex", 3000, 2800, 5000, 9, 2, 0),
		},
		accounts: []Account{
			healthyAccount("sales@acme.com"),
			func() Account {
				a := healthyAccount("bd@globex.com")
				a.Tags = []string{"globex"}
				a.Status = AccountStatusDisconnected
				return a
			}(),
		},
	}
}

func TestHandleQueryUnknown(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "xyzzy frobnicate"})

	assert.Equal(t, "unknown", resp.ResolvedCommand)
	assert.Contains(t, resp.ResponseText, "didn't recognize")
	assert.Nil(t, resp.Report)
}

func TestHandleQueryUnknownSkipsRateLimiter(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	s := testService(testProvider(), newFakeCache(), limiter)

	s.HandleQuery(context.Background(), QueryRequest{Query: "xyzzy frobnicate"})
	assert.Equal(t, 0, limiter.checks)
}

func TestHandleQueryRateLimited(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: false})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "overview"})

	assert.Equal(t, "overview", resp.ResolvedCommand)
	assert.Contains(t, resp.ResponseText, "going too fast")
	assert.Nil(t, resp.Report)
}

func TestHandleQueryOverview(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "overview"})

	require.NotNil(t, resp.Report)
	assert.Equal(t, "overview", resp.Report.Command)
	assert.NotEmpty(t, resp.Report.ProcessingID)
	assert.False(t, resp.Report.Meta.FromCache)
	assert.Contains(t, resp.ResponseText, "2 campaigns")
}

func TestHandleQueryCacheHit(t *testing.T) {
	cache := newFakeCache()
	s := testService(testProvider(), cache, &fakeLimiter{allowed: true})
	ctx := context.Background()

	first := s.HandleQuery(ctx, QueryRequest{Query: "overview"})
	require.NotNil(t, first.Report)
	require.Equal(t, 1, cache.sets)

	second := s.HandleQuery(ctx, QueryRequest{Query: "overview"})
	require.NotNil(t, second.Report)
	assert.True(t, second.Report.Meta.FromCache)
	assert.Equal(t, first.Report.ProcessingID, second.Report.ProcessingID)
	assert.Equal(t, 1, cache.sets)
}

func TestHandleQueryCacheHitStillCharged(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	s := testService(testProvider(), newFakeCache(), limiter)
	ctx := context.Background()

	s.HandleQuery(ctx, QueryRequest{Query: "overview"})
	s.HandleQuery(ctx, QueryRequest{Query: "overview"})
	assert.Equal(t, 2, limiter.checks)
}

func TestHandleQueryForceRefreshBypassesCache(t *testing.T) {
	cache := newFakeCache()
	s := testService(testProvider(), cache, &fakeLimiter{allowed: true})
	ctx := context.Background()

	s.HandleQuery(ctx, QueryRequest{Query: "overview"})

	viaFlag := s.HandleQuery(ctx, QueryRequest{Query: "overview", ForceRefresh: true})
	require.NotNil(t, viaFlag.Report)
	assert.False(t, viaFlag.Report.Meta.FromCache)

	viaPrefix := s.HandleQuery(ctx, QueryRequest{Query: "refresh overview"})
	require.NotNil(t, viaPrefix.Report)
	assert.False(t, viaPrefix.Report.Meta.FromCache)
}

func TestHandleQueryNotFound(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "diagnose Nonexistent Inc"})

	assert.Equal(t, "diagnose", resp.ResolvedCommand)
	assert.Contains(t, resp.ResponseText, "not found")
	assert.Contains(t, resp.ResponseText, "Check the name")
	assert.Nil(t, resp.Report)
}

func TestHandleQueryUpstreamFailure(t *testing.T) {
	provider := testProvider()
	provider.err = errors.New("connection reset")
	cache := newFakeCache()
	s := testService(provider, cache, &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "overview"})

	assert.Contains(t, resp.ResponseText, "couldn't reach the outreach platform")
	assert.NotContains(t, resp.ResponseText, "connection reset")
	assert.Nil(t, resp.Report)

	// Failures must never be cached
	assert.Equal(t, 0, cache.sets)
}

func TestHandleQueryDiagnose(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "diagnose Globex"})

	require.NotNil(t, resp.Report)
	assert.Equal(t, "diagnose", resp.ResolvedCommand)
	assert.Contains(t, resp.ResponseText, "NEED_NEW_LIST")
}

func TestHandleQueryDiagnoseSubstringMatch(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "diagnose acme"})

	require.NotNil(t, resp.Report)
	assert.Contains(t, resp.ResponseText, "Acme Corp")
}

func TestHandleQueryCheckEmail(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "check BD@globex.com"})

	require.NotNil(t, resp.Report)
	assert.Contains(t, resp.ResponseText, "disconnected")

	missing := s.HandleQuery(context.Background(), QueryRequest{Query: "check nobody@globex.com"})
	assert.Contains(t, missing.ResponseText, "not found")
}

func TestHandleQueryTagReport(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "tag globex"})

	require.NotNil(t, resp.Report)
	assert.Contains(t, resp.ResponseText, "1 inboxes")
	assert.Contains(t, resp.ResponseText, "1 have issues")
}

func TestHandleQueryDailyTasks(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "d"})

	require.NotNil(t, resp.Report)
	assert.Equal(t, "daily_tasks", resp.ResolvedCommand)
	require.Len(t, resp.Report.Sections, 1)
	assert.NotEmpty(t, resp.Report.Sections[0].Tasks)
}

func TestHandleQueryHelp(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	resp := s.HandleQuery(context.Background(), QueryRequest{Query: "help"})

	require.NotNil(t, resp.Report)
	assert.Contains(t, resp.ResponseText, "overview")
	assert.Contains(t, resp.ResponseText, "refresh")
}

func TestGenerateTaskSetFromService(t *testing.T) {
	s := testService(testProvider(), newFakeCache(), &fakeLimiter{allowed: true})

	set, err := s.GenerateTaskSet(context.Background())

	require.NoError(t, err)
	// Globex is a copy issue, Acme performs well
	require.Len(t, set.Daily, 1)
	assert.Equal(t, "Globex", set.Daily[0].EntityName)
	assert.NotEmpty(t, set.Weekly)
}

func TestGenerateTaskSetUpstreamError(t *testing.T) {
	provider := testProvider()
	provider.err = errors.New("boom")
	s := testService(provider, newFakeCache(), &fakeLimiter{allowed: true})

	_, err := s.GenerateTaskSet(context.Background())
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
}
