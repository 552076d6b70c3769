package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courageallien/outreach-analyst/internal/intent"
)

// Handler executes one resolved command against the platform
type Handler func(ctx context.Context, params map[string]string) (*Report, error)

// AnalystService routes resolved commands to handlers, applies the rate
// limiter and the result cache, and assembles structured reports.
type AnalystService struct {
	provider   MetricsProvider
	cache      ReportCache
	limiter    RateLimiter
	benchmarks Benchmarks
	logger     *zap.Logger
	handlers   map[intent.CommandType]Handler
	ttlClasses map[intent.CommandType]string
	now        func() time.Time
}

// NewAnalystService creates the dispatcher and populates the handler registry
func NewAnalystService(
	provider MetricsProvider,
	cache ReportCache,
	limiter RateLimiter,
	benchmarks Benchmarks,
	logger *zap.Logger,
) *AnalystService {
	s := &AnalystService{
		provider:   provider,
		cache:      cache,
		limiter:    limiter,
		benchmarks: benchmarks,
		logger:     logger,
		now:        time.Now,
	}

	s.handlers = map[intent.CommandType]Handler{
		intent.CmdOverview:       s.handleOverview,
		intent.CmdCampaignStatus: s.handleCampaignStatus,
		intent.CmdDiagnose:       s.handleDiagnose,
		intent.CmdLowLeads:       s.handleLowLeads,
		intent.CmdCheckEmail:     s.handleCheckEmail,
		intent.CmdTagReport:      s.handleTagReport,
		intent.CmdClientHealth:   s.handleClientHealth,
		intent.CmdInboxHealth:    s.handleInboxHealth,
		intent.CmdDailyTasks:     s.handleDailyTasks,
		intent.CmdWeeklyTasks:    s.handleWeeklyTasks,
		intent.CmdHelp:           s.handleHelp,
	}

	// Inbox-backed reports tolerate more staleness than campaign numbers
	s.ttlClasses = map[intent.CommandType]string{
		intent.CmdInboxHealth: "accounts",
		intent.CmdCheckEmail:  "accounts",
		intent.CmdTagReport:   "accounts",
	}

	return s
}

// ttlClassFor returns the TTL class for a command, defaulting to daily
func (s *AnalystService) ttlClassFor(cmd intent.CommandType) string {
	if class, ok := s.ttlClasses[cmd]; ok {
		return class
	}
	return "daily"
}

// HandleQuery is the dispatch boundary: resolve, rate-limit, consult the
// cache, run the handler, cache the report. One user query in, one
// structured response out; failures surface as typed responses, never as
// raw errors.
func (s *AnalystService) HandleQuery(ctx context.Context, req QueryRequest) QueryResponse {
	res := intent.Resolve(req.Query)

	if res.Type == intent.CmdUnknown {
		s.logger.Debug("Unresolved query", zap.String("query", req.Query))
		return QueryResponse{
			ResponseText:    fmt.Sprintf("I didn't recognize that. %s", res.Suggestion),
			ResolvedCommand: string(intent.CmdUnknown),
		}
	}

	// Every resolved command is charged, cache hits included
	decision := s.limiter.Check()
	if !decision.Allowed {
		rlErr := &RateLimitedError{Wait: decision.Wait}
		s.logger.Warn("Query rate limited",
			zap.String("command", string(res.Type)),
			zap.Duration("wait", decision.Wait))
		return QueryResponse{
			ResponseText: fmt.Sprintf("You're going too fast — try again in about %d minute(s).",
				rlErr.WaitMinutes()),
			ResolvedCommand: string(res.Type),
		}
	}

	forceFresh := req.ForceRefresh || res.ForceFresh
	key := CacheKey(string(res.Type), res.Params, s.now())

	if !forceFresh {
		if cached, ok := s.cache.Get(ctx, key); ok {
			report := *cached
			report.Meta.FromCache = true
			if age, ok := s.cache.Age(ctx, key); ok {
				report.Meta.CacheAge = humanize.Time(s.now().Add(-age))
			}
			s.logger.Debug("Report served from cache",
				zap.String("command", string(res.Type)),
				zap.String("key", key))
			return QueryResponse{
				ResponseText:    renderText(&report),
				ResolvedCommand: string(res.Type),
				Report:          &report,
			}
		}
	}

	handler, ok := s.handlers[res.Type]
	if !ok {
		// Registry and resolver enums are kept in sync; this is a wiring bug
		s.logger.Error("No handler registered", zap.String("command", string(res.Type)))
		return QueryResponse{
			ResponseText:    "That command isn't wired up yet.",
			ResolvedCommand: string(res.Type),
		}
	}

	report, err := handler(ctx, res.Params)
	if err != nil {
		return s.errorResponse(res.Type, err)
	}

	report.ProcessingID = uuid.NewString()
	report.Command = string(res.Type)
	report.GeneratedAt = s.now()

	// Cache only complete results; abandoned or failed work writes nothing
	s.cache.Set(ctx, key, report, s.ttlClassFor(res.Type))

	return QueryResponse{
		ResponseText:    renderText(report),
		ResolvedCommand: string(res.Type),
		Report:          report,
	}
}

// errorResponse converts the error taxonomy into user-facing responses with
// an actionable hint; the raw detail only goes to the logs
func (s *AnalystService) errorResponse(cmd intent.CommandType, err error) QueryResponse {
	switch {
	case IsNotFound(err):
		s.logger.Info("Entity not found",
			zap.String("command", string(cmd)),
			zap.Error(err))
		return QueryResponse{
			ResponseText:    fmt.Sprintf("%s. Check the name and try again, or run \"overview\" to list everything.", capitalize(err.Error())),
			ResolvedCommand: string(cmd),
		}
	case IsUpstream(err):
		s.logger.Error("Upstream fetch failed",
			zap.String("command", string(cmd)),
			zap.Error(err))
		return QueryResponse{
			ResponseText:    "I couldn't reach the outreach platform just now. Nothing is wrong with your campaigns — try again in a minute.",
			ResolvedCommand: string(cmd),
		}
	default:
		s.logger.Error("Handler failed",
			zap.String("command", string(cmd)),
			zap.Error(err))
		return QueryResponse{
			ResponseText:    "Something went wrong generating that report. Try again, and check the service logs if it keeps failing.",
			ResolvedCommand: string(cmd),
		}
	}
}

// GenerateTaskSet fetches, classifies and generates tasks for the given day.
// Exposed for the task boundary; completion state stays with the caller.
func (s *AnalystService) GenerateTaskSet(ctx context.Context) (*TaskSet, error) {
	results, inboxSummary, err := s.classifyPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	set := GenerateTasks(s.now(), results, inboxSummary, nil)
	return &set, nil
}

// classifyPortfolio classifies every client and summarizes inbox health
func (s *AnalystService) classifyPortfolio(ctx context.Context) ([]ClassificationResult, InboxHealthSummary, error) {
	clients, err := s.provider.GetClientMetrics(ctx)
	if err != nil {
		return nil, InboxHealthSummary{}, NewUpstreamError("client metrics", err)
	}
	accounts, err := s.provider.GetAccounts(ctx)
	if err != nil {
		return nil, InboxHealthSummary{}, NewUpstreamError("accounts", err)
	}

	results := make([]ClassificationResult, 0, len(clients))
	for _, c := range clients {
		results = append(results, ClassifyClient(c, s.benchmarks))
	}
	SortClientClassifications(results)

	inboxReports := make([]InboxReport, 0, len(accounts))
	for _, a := range accounts {
		inboxReports = append(inboxReports, DetectInboxIssues(a, s.benchmarks))
	}

	return results, SummarizeInboxHealth(inboxReports), nil
}

// renderText flattens a report's summary lines into the chat response
func renderText(r *Report) string {
	if len(r.Summary) == 0 {
		return "Nothing to report."
	}
	text := strings.Join(r.Summary, "\n")
	if r.Meta.FromCache && r.Meta.CacheAge != "" {
		text += fmt.Sprintf("\n(cached %s)", r.Meta.CacheAge)
	}
	return text
}

// capitalize uppercases the first byte of an ASCII message
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
