package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/core"
)

func testTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		"daily":   10 * time.Minute,
		"short":   30 * time.Millisecond,
		"default": 15 * time.Minute,
	}
}

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(testTTLs(), zap.NewNop(), time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func sampleReport(id string) *core.Report {
	return &core.Report{
		ProcessingID: id,
		Command:      "overview",
		Summary:      []string{"Looked at 2 campaigns."},
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "overview|2025-03-12", sampleReport("p1"), "daily")

	got, ok := c.Get(ctx, "overview|2025-03-12")
	require.True(t, ok)
	assert.Equal(t, "p1", got.ProcessingID)

	_, ok = c.Get(ctx, "overview|2025-03-13")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", sampleReport("p1"), "short")

	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheUnknownClassFallsBack(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Unknown class uses the default TTL, which is far in the future here
	c.Set(ctx, "k", sampleReport("p1"), "nonsense")
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", sampleReport("old"), "daily")
	c.Set(ctx, "k", sampleReport("new"), "daily")

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "new", got.ProcessingID)
}

func TestMemoryCacheAge(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Age(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", sampleReport("p1"), "daily")
	age, ok := c.Age(ctx, "k")
	require.True(t, ok)
	assert.GreaterOrEqual(t, age, time.Duration(0))
	assert.Less(t, age, time.Minute)
}

func TestMemoryCacheClearPattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "overview|2025-03-12", sampleReport("p1"), "daily")
	c.Set(ctx, "diagnose|campaign=acme|2025-03-12", sampleReport("p2"), "daily")

	require.NoError(t, c.Clear(ctx, "diagnose"))

	_, ok := c.Get(ctx, "overview|2025-03-12")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "diagnose|campaign=acme|2025-03-12")
	assert.False(t, ok)
}

func TestMemoryCacheClearAll(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "a", sampleReport("p1"), "daily")
	c.Set(ctx, "b", sampleReport("p2"), "daily")

	require.NoError(t, c.Clear(ctx, ""))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemoryCacheCleanupRemovesExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "stale", sampleReport("p1"), "short")
	c.Set(ctx, "fresh", sampleReport("p2"), "daily")

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, c.Cleanup(ctx))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.NotContains(t, c.entries, "stale")
	assert.Contains(t, c.entries, "fresh")
}
