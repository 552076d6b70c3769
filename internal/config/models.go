package config

import (
	"github.com/courageallien/outreach-analyst/internal/core"
)

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress string
	ReadTimeout   string
	WriteTimeout  string
}

// PlatformConfig represents the configuration for the outreach platform client
type PlatformConfig struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Timeout     string
	FixturePath string
}

// CacheConfig represents the configuration for the report cache
type CacheConfig struct {
	Type       string
	Enabled    bool
	SQLitePath string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
}

// RateLimitConfig represents the configuration for the rate limiter
type RateLimitConfig struct {
	MaxRequests int
	Window      string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   c.GetString("server.read_timeout"),
		WriteTimeout:  c.GetString("server.write_timeout"),
	}
}

// GetPlatform returns the platform client configuration
func (c *Config) GetPlatform() PlatformConfig {
	return PlatformConfig{
		Provider:    c.GetString("platform.provider"),
		BaseURL:     c.GetString("platform.base_url"),
		APIKey:      c.GetString("platform.api_key"),
		Timeout:     c.GetString("platform.timeout"),
		FixturePath: c.GetString("platform.fixture_path"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Type:       c.GetString("cache.type"),
		Enabled:    c.GetBool("cache.enabled"),
		SQLitePath: c.GetString("cache.sqlite_path"),
		MySQLDSN:   c.GetString("cache.mysql_dsn"),
		RedisAddr:  c.GetString("cache.redis_addr"),
		RedisDB:    c.GetInt("cache.redis_db"),
	}
}

// GetRateLimit returns the rate limiter configuration
func (c *Config) GetRateLimit() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: c.GetInt("rate_limit.max_requests"),
		Window:      c.GetString("rate_limit.window"),
	}
}

// GetBenchmarks returns the benchmark table with config overrides applied
func (c *Config) GetBenchmarks() core.Benchmarks {
	return core.Benchmarks{
		MinDataThreshold:   c.GetInt("benchmarks.min_data_threshold"),
		NotViableContacted: c.GetInt("benchmarks.not_viable_contacted"),
		NotViableOppMax:    c.GetInt("benchmarks.not_viable_opp_max"),
		MinReplyRate:       c.GetFloat64("benchmarks.min_reply_rate"),
		LowLeadsWarning:    c.GetInt("benchmarks.low_leads_warning"),
		LowLeadsCritical:   c.GetInt("benchmarks.low_leads_critical"),
		TargetConversion:   c.GetFloat64("benchmarks.target_conversion"),
		SubsequenceFloor:   c.GetInt("benchmarks.subsequence_floor"),

		EarlyStageSent:      c.GetInt("benchmarks.early_stage_sent"),
		CriticalUncontacted: c.GetInt("benchmarks.critical_uncontacted"),
		CriticalReplyRate:   c.GetFloat64("benchmarks.critical_reply_rate"),
		GoodReplyRate:       c.GetFloat64("benchmarks.good_reply_rate"),
		CriticalConversion:  c.GetFloat64("benchmarks.critical_conversion"),
		TAMExhaustedSent:    c.GetInt("benchmarks.tam_exhausted_sent"),
		LowReplyRate:        c.GetFloat64("benchmarks.low_reply_rate"),
		ViableSentThreshold: c.GetInt("benchmarks.viable_sent_threshold"),
		MinClientOpps:       c.GetInt("benchmarks.min_client_opportunities"),
		MaxLowHealthInboxes: c.GetInt("benchmarks.max_low_health_inboxes"),

		HealthScoreFloor:   c.GetFloat64("benchmarks.health_score_floor"),
		HealthScoreSevere:  c.GetFloat64("benchmarks.health_score_severe"),
		HealthScoreOptimal: c.GetFloat64("benchmarks.health_score_optimal"),
	}
}

// GetTTLClasses returns the cache TTL class table
func (c *Config) GetTTLClasses() map[string]string {
	return map[string]string{
		"daily":    c.GetString("cache.ttl_classes.daily"),
		"accounts": c.GetString("cache.ttl_classes.accounts"),
		"default":  c.GetString("cache.ttl_classes.default"),
	}
}
