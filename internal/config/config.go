package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/outreach-analyst/")
	v.AddConfigPath("$HOME/.outreach-analyst")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("OUTREACH_ANALYST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	// Platform defaults
	v.SetDefault("platform.provider", "http")
	v.SetDefault("platform.base_url", "https://api.outreach-platform.example.com")
	v.SetDefault("platform.api_key", "")
	v.SetDefault("platform.timeout", "15s")
	v.SetDefault("platform.fixture_path", "./testdata/portfolio.json")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.cleanup_frequency", "10m")
	v.SetDefault("cache.sqlite_path", "/data/report_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/outreach_analyst?parseTime=true")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl_classes.daily", "10m")
	v.SetDefault("cache.ttl_classes.accounts", "30m")
	v.SetDefault("cache.ttl_classes.default", "15m")

	// Rate limit defaults
	v.SetDefault("rate_limit.max_requests", 30)
	v.SetDefault("rate_limit.window", "10m")

	// Benchmark defaults (campaign)
	v.SetDefault("benchmarks.min_data_threshold", 1000)
	v.SetDefault("benchmarks.not_viable_contacted", 5000)
	v.SetDefault("benchmarks.not_viable_opp_max", 2)
	v.SetDefault("benchmarks.min_reply_rate", 1.0)
	v.SetDefault("benchmarks.low_leads_warning", 2000)
	v.SetDefault("benchmarks.low_leads_critical", 1000)
	v.SetDefault("benchmarks.target_conversion", 25.0)
	v.SetDefault("benchmarks.subsequence_floor", 10)

	// Benchmark defaults (client)
	v.SetDefault("benchmarks.early_stage_sent", 2000)
	v.SetDefault("benchmarks.critical_uncontacted", 1000)
	v.SetDefault("benchmarks.critical_reply_rate", 0.5)
	v.SetDefault("benchmarks.good_reply_rate", 1.5)
	v.SetDefault("benchmarks.critical_conversion", 10.0)
	v.SetDefault("benchmarks.tam_exhausted_sent", 50000)
	v.SetDefault("benchmarks.low_reply_rate", 1.0)
	v.SetDefault("benchmarks.viable_sent_threshold", 10000)
	v.SetDefault("benchmarks.min_client_opportunities", 10)
	v.SetDefault("benchmarks.max_low_health_inboxes", 2)

	// Benchmark defaults (inbox)
	v.SetDefault("benchmarks.health_score_floor", 70)
	v.SetDefault("benchmarks.health_score_severe", 50)
	v.SetDefault("benchmarks.health_score_optimal", 90)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
