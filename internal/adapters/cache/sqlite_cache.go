package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courageallien/outreach-analyst/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the ReportCache port
type SQLiteCache struct {
	db          *sql.DB
	ttlByClass  map[string]time.Duration
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite report cache
func NewSQLiteCache(dbPath string, ttlByClass map[string]time.Duration, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS report_cache (
			cache_key TEXT PRIMARY KEY,
			payload TEXT,
			ttl_class TEXT,
			written_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_report_cache_expires_at ON report_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		ttlByClass:  ttlByClass,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached report, or reports a miss
func (c *SQLiteCache) Get(ctx context.Context, key string) (*core.Report, bool) {
	var payload string

	err := c.db.QueryRowContext(ctx, `
		SELECT payload
		FROM report_cache
		WHERE cache_key = ? AND expires_at > ?
	`, key, time.Now().Format(time.RFC3339)).Scan(&payload)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query cache", zap.Error(err), zap.String("key", key))
		}
		return nil, false
	}

	var report core.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		c.logger.Error("Failed to decode cached report", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	return &report, true
}

// Set stores a report, replacing any previous entry wholesale
func (c *SQLiteCache) Set(ctx context.Context, key string, report *core.Report, ttlClass string) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.logger.Error("Failed to encode report", zap.Error(err), zap.String("key", key))
		return
	}

	now := time.Now()
	expiresAt := now.Add(ttlFor(c.ttlByClass, ttlClass))

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO report_cache (cache_key, payload, ttl_class, written_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, string(payload), ttlClass, now.Format(time.RFC3339), expiresAt.Format(time.RFC3339))

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("key", key))
	}
}

// Clear removes entries whose key contains pattern; empty pattern clears all
func (c *SQLiteCache) Clear(ctx context.Context, pattern string) error {
	var err error
	if pattern == "" {
		_, err = c.db.ExecContext(ctx, `DELETE FROM report_cache`)
	} else {
		_, err = c.db.ExecContext(ctx, `
			DELETE FROM report_cache WHERE cache_key LIKE ?
		`, "%"+pattern+"%")
	}
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Age returns how long ago the entry was written
func (c *SQLiteCache) Age(ctx context.Context, key string) (time.Duration, bool) {
	var writtenAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT written_at FROM report_cache WHERE cache_key = ?
	`, key).Scan(&writtenAt)
	if err != nil {
		return 0, false
	}

	ts, err := time.Parse(time.RFC3339, writtenAt)
	if err != nil {
		c.logger.Error("Failed to parse written_at timestamp", zap.Error(err))
		return 0, false
	}

	return time.Since(ts), true
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM report_cache
		WHERE expires_at <= ?
	`, time.Now().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *SQLiteCache) startCleanupTask() {
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

// Stop stops the background cleanup task and closes the database connection
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
