package factory

import (
	"fmt"
	"time"

	"github.com/courageallien/outreach-analyst/internal/adapters/platform"
	"github.com/courageallien/outreach-analyst/internal/config"
	"github.com/courageallien/outreach-analyst/internal/core"
	"go.uber.org/zap"
)

// ProviderFactory creates metrics providers
type ProviderFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config, logger *zap.Logger) *ProviderFactory {
	return &ProviderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMetricsProvider creates a metrics provider based on the configuration
func (f *ProviderFactory) CreateMetricsProvider() (core.MetricsProvider, error) {
	platformCfg := f.cfg.GetPlatform()

	switch platformCfg.Provider {
	case "http":
		timeout, err := time.ParseDuration(platformCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid platform timeout: %w", err)
		}
		if platformCfg.APIKey == "" {
			f.logger.Warn("Platform API key is empty; upstream calls will be rejected")
		}
		return platform.NewHTTPClient(platformCfg.BaseURL, platformCfg.APIKey, timeout, f.logger), nil
	case "fixture":
		return platform.NewFixtureProvider(platformCfg.FixturePath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported platform provider: %s", platformCfg.Provider)
	}
}
