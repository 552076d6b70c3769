package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courageallien/outreach-analyst/internal/core"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the ReportCache port
type MySQLCache struct {
	db          *sql.DB
	ttlByClass  map[string]time.Duration
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL report cache
func NewMySQLCache(dsn string, ttlByClass map[string]time.Duration, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS report_cache (
			cache_key VARCHAR(512) PRIMARY KEY,
			payload MEDIUMTEXT,
			ttl_class VARCHAR(64),
			written_at TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
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
func (c *MySQLCache) Get(ctx context.Context, key string) (*core.Report, bool) {
	var payload string

	err := c.db.QueryRowContext(ctx, `
		SELECT payload
		FROM report_cache
		WHERE cache_key = ? AND expires_at > NOW()
	`, key).Scan(&payload)

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
func (c *MySQLCache) Set(ctx context.Context, key string, report *core.Report, ttlClass string) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.logger.Error("Failed to encode report", zap.Error(err), zap.String("key", key))
		return
	}

	now := time.Now()
	expiresAt := now.Add(ttlFor(c.ttlByClass, ttlClass))

	_, err = c.db.ExecContext(ctx, `
		REPLACE INTO report_cache (cache_key, payload, ttl_class, written_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, string(payload), ttlClass, now, expiresAt)

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("key", key))
	}
}

// Clear removes entries whose key contains pattern; empty pattern clears all
func (c *MySQLCache) Clear(ctx context.Context, pattern string) error {
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
func (c *MySQLCache) Age(ctx context.Context, key string) (time.Duration, bool) {
	var writtenAt time.Time

	err := c.db.QueryRowContext(ctx, `
		SELECT written_at FROM report_cache WHERE cache_key = ?
	`, key).Scan(&writtenAt)
	if err != nil {
		return 0, false
	}

	return time.Since(writtenAt), true
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM report_cache
		WHERE expires_at <= NOW()
	`)

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
func (c *MySQLCache) startCleanupTask() {
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
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
