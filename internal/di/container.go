package di

import (
	"fmt"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/adapters/httpapi"
	"github.com/courageallien/outreach-analyst/internal/config"
	"github.com/courageallien/outreach-analyst/internal/core"
	"github.com/courageallien/outreach-analyst/internal/factory"
	"github.com/courageallien/outreach-analyst/internal/logging"
	"github.com/courageallien/outreach-analyst/internal/ratelimit"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewProviderFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register metrics provider
	if err := container.Provide(func(f *factory.ProviderFactory) (core.MetricsProvider, error) {
		return f.CreateMetricsProvider()
	}); err != nil {
		return nil, err
	}

	// Register report cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ReportCache, error) {
		return f.CreateReportCache()
	}); err != nil {
		return nil, err
	}

	// Register benchmarks
	if err := container.Provide(func(cfg *config.Config) core.Benchmarks {
		return cfg.GetBenchmarks()
	}); err != nil {
		return nil, err
	}

	// Register rate limiter
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.RateLimiter, error) {
		rlCfg := cfg.GetRateLimit()
		window, err := time.ParseDuration(rlCfg.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit window: %w", err)
		}
		return ratelimit.New(rlCfg.MaxRequests, window, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register analyst service
	if err := container.Provide(core.NewAnalystService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(service *core.AnalystService, cfg *config.Config, logger *zap.Logger) (*httpapi.Server, error) {
		serverCfg := cfg.GetServer()
		readTimeout, err := time.ParseDuration(serverCfg.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server read timeout: %w", err)
		}
		writeTimeout, err := time.ParseDuration(serverCfg.WriteTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server write timeout: %w", err)
		}
		return httpapi.NewServer(service, serverCfg.ListenAddress, readTimeout, writeTimeout, logger), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}
