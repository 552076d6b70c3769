package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/adapters/cache"
	"github.com/courageallien/outreach-analyst/internal/adapters/platform"
	"github.com/courageallien/outreach-analyst/internal/config"
	"github.com/courageallien/outreach-analyst/internal/core"
	"github.com/courageallien/outreach-analyst/internal/logging"
	"github.com/courageallien/outreach-analyst/internal/ratelimit"
)

var (
	// Input flags
	query       = flag.String("query", "", "Query to run (interactive prompt if not specified)")
	fixturePath = flag.String("fixture", "./testdata/portfolio.json", "Path to the portfolio fixture file")

	// Rate limit flags
	maxRequests = flag.Int("max-requests", 30, "Maximum queries per rate limit window")
	window      = flag.Duration("window", 10*time.Minute, "Rate limit window")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")

	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Load the portfolio fixture
	provider, err := platform.NewFixtureProvider(cfg.GetString("platform.fixture_path"), logger)
	if err != nil {
		logger.Fatal("Failed to load portfolio fixture", zap.Error(err))
	}

	// Wire an in-process cache and rate limiter
	ttlByClass := parseTTLClasses(cfg, logger)
	reportCache := cache.NewMemoryCache(ttlByClass, logger, time.Minute)
	defer reportCache.Stop()

	rlCfg := cfg.GetRateLimit()
	rlWindow, err := time.ParseDuration(rlCfg.Window)
	if err != nil {
		logger.Fatal("Invalid rate limit window", zap.Error(err))
	}
	limiter := ratelimit.New(rlCfg.MaxRequests, rlWindow, logger)

	service := core.NewAnalystService(provider, reportCache, limiter, cfg.GetBenchmarks(), logger)

	ctx := context.Background()

	if *query != "" {
		runQuery(ctx, service, *query)
		return
	}

	// Interactive mode
	fmt.Println("outreach-cli — type a query, or \"quit\" to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		runQuery(ctx, service, line)
	}
}

func runQuery(ctx context.Context, service *core.AnalystService, q string) {
	resp := service.HandleQuery(ctx, core.QueryRequest{Query: q})
	fmt.Println(resp.ResponseText)
}

// parseTTLClasses turns the configured TTL class table into durations
func parseTTLClasses(cfg *config.Config, logger *zap.Logger) map[string]time.Duration {
	ttlByClass := make(map[string]time.Duration)
	for class, raw := range cfg.GetTTLClasses() {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			logger.Warn("Invalid cache TTL, skipping class",
				zap.String("class", class),
				zap.String("value", raw))
			continue
		}
		ttlByClass[class] = ttl
	}
	return ttlByClass
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("platform.provider", "fixture")
	v.Set("platform.fixture_path", *fixturePath)

	v.Set("rate_limit.max_requests", *maxRequests)
	v.Set("rate_limit.window", window.String())

	return config.NewFromViper(v)
}
