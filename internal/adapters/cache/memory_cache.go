package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/courageallien/outreach-analyst/internal/core"
	"go.uber.org/zap"
)

// entry is one immutable cache record. Set replaces the whole pointer, so a
// concurrent reader sees either the old or the new record, never a mix.
type entry struct {
	report    *core.Report
	ttlClass  string
	writtenAt time.Time
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the ReportCache port
type MemoryCache struct {
	entries     map[string]*entry
	ttlByClass  map[string]time.Duration
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryCache creates a new in-memory report cache
func NewMemoryCache(ttlByClass map[string]time.Duration, logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]*entry),
		ttlByClass:  ttlByClass,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache
}

// ttlFor resolves a TTL class to a duration, falling back to the default class
func ttlFor(ttlByClass map[string]time.Duration, class string) time.Duration {
	if ttl, ok := ttlByClass[class]; ok {
		return ttl
	}
	if ttl, ok := ttlByClass["default"]; ok {
		return ttl
	}
	return 15 * time.Minute
}

// Get retrieves a cached report, or reports a miss
func (c *MemoryCache) Get(ctx context.Context, key string) (*core.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	// Check if entry has expired
	if time.Now().After(e.expiresAt) {
		return nil, false
	}

	return e.report, true
}

// Set stores a report under the given TTL class, replacing any previous entry
func (c *MemoryCache) Set(ctx context.Context, key string, report *core.Report, ttlClass string) {
	now := time.Now()
	e := &entry{
		report:    report,
		ttlClass:  ttlClass,
		writtenAt: now,
		expiresAt: now.Add(ttlFor(c.ttlByClass, ttlClass)),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// Clear removes entries whose key contains pattern; empty pattern clears all
func (c *MemoryCache) Clear(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if pattern == "" || strings.Contains(key, pattern) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Age returns how long ago the entry was written
func (c *MemoryCache) Age(ctx context.Context, key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return time.Since(e.writtenAt), true
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	close(c.stopCh)
}
