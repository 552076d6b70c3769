package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/courageallien/outreach-analyst/internal/adapters/cache"
	"github.com/courageallien/outreach-analyst/internal/config"
	"github.com/courageallien/outreach-analyst/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates report caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReportCache creates a report cache based on the configuration
func (f *CacheFactory) CreateReportCache() (core.ReportCache, error) {
	cacheCfg := f.cfg.GetCache()
	cleanupFreq, err := f.cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}

	ttlByClass, err := f.ttlClasses()
	if err != nil {
		return nil, err
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(ttlByClass, f.logger, cleanupFreq), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(cacheCfg.SQLitePath, ttlByClass, f.logger, cleanupFreq)
	case "mysql":
		return cache.NewMySQLCache(cacheCfg.MySQLDSN, ttlByClass, f.logger, cleanupFreq)
	case "redis":
		return cache.NewRedisCache(cacheCfg.RedisAddr, cacheCfg.RedisDB, ttlByClass, f.logger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

// ttlClasses parses the configured TTL class table
func (f *CacheFactory) ttlClasses() (map[string]time.Duration, error) {
	classes := f.cfg.GetTTLClasses()
	ttlByClass := make(map[string]time.Duration, len(classes))
	for class, raw := range classes {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TTL for class %q: %w", class, err)
		}
		ttlByClass[class] = ttl
	}
	return ttlByClass, nil
}
