package core

import (
	"context"
	"fmt"
	"strings"
)

// handleOverview classifies every campaign and reports the portfolio state
func (s *AnalystService) handleOverview(ctx context.Context, params map[string]string) (*Report, error) {
	results, err := s.classifyCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	counts := bucketCounts(results)
	summary := []string{
		fmt.Sprintf("Looked at %d campaigns.", len(results)),
	}
	if counts[string(BucketNeedNewList)] > 0 {
		summary = append(summary, fmt.Sprintf("%d need new lead lists — that comes first.", counts[string(BucketNeedNewList)]))
	}
	if counts[string(BucketNotPriority)] > 0 {
		summary = append(summary, fmt.Sprintf("%d are not worth more spend as they stand.", counts[string(BucketNotPriority)]))
	}
	if counts[string(BucketReview)] > 0 {
		summary = append(summary, fmt.Sprintf("%d convert below target and need a review.", counts[string(BucketReview)]))
	}
	if counts[string(BucketNoAction)] > 0 {
		summary = append(summary, fmt.Sprintf("%d are healthy.", counts[string(BucketNoAction)]))
	}
	if counts[string(BucketPending)] > 0 {
		summary = append(summary, fmt.Sprintf("%d are too new to judge.", counts[string(BucketPending)]))
	}

	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionStatus, Title: "Portfolio status", Lines: statusLines(counts)},
			{Kind: SectionList, Title: "Campaigns by priority", Entities: results},
		},
		Meta: ReportMeta{Counts: counts},
	}, nil
}

// handleLowLeads reports the campaigns that are running out of runway
func (s *AnalystService) handleLowLeads(ctx context.Context, params map[string]string) (*Report, error) {
	results, err := s.classifyCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	starved := make([]ClassificationResult, 0)
	for _, r := range results {
		if r.Bucket == BucketNeedNewList {
			starved = append(starved, r)
		}
	}

	summary := []string{fmt.Sprintf("%d of %d campaigns need new leads.", len(starved), len(results))}
	for _, r := range starved {
		summary = append(summary, fmt.Sprintf("%s: %d uncontacted leads left (%s).",
			r.EntityName, r.Metrics.Uncontacted, r.Urgency))
	}
	if len(starved) == 0 {
		summary = append(summary, "Lead runway looks fine everywhere.")
	}

	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionList, Title: "Campaigns low on leads", Entities: starved},
		},
		Meta: ReportMeta{Counts: map[string]int{"low_leads": len(starved), "total": len(results)}},
	}, nil
}

// handleDiagnose classifies one campaign and explains the verdict in full
func (s *AnalystService) handleDiagnose(ctx context.Context, params map[string]string) (*Report, error) {
	result, err := s.classifyNamedCampaign(ctx, params["campaign"])
	if err != nil {
		return nil, err
	}

	summary := []string{
		fmt.Sprintf("%s: %s (%s).", result.EntityName, result.Bucket, result.Urgency),
		result.Reason,
		fmt.Sprintf("Recommended: %s.", result.RecommendedAction),
	}
	if result.BenchmarkNote != "" {
		summary = append(summary, result.BenchmarkNote)
	}

	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionStatus, Title: "Diagnosis", Entities: []ClassificationResult{*result}},
		},
		Meta: ReportMeta{Counts: map[string]int{"campaigns": 1}},
	}, nil
}

// handleCampaignStatus is the lighter cousin of diagnose: bucket and key
// numbers, no remediation detail
func (s *AnalystService) handleCampaignStatus(ctx context.Context, params map[string]string) (*Report, error) {
	result, err := s.classifyNamedCampaign(ctx, params["campaign"])
	if err != nil {
		return nil, err
	}

	m := result.Metrics
	summary := []string{
		fmt.Sprintf("%s is %s.", result.EntityName, result.Bucket),
		fmt.Sprintf("%d sent, %.2f%% reply rate, %d opportunities, %d uncontacted leads.",
			m.Sent, m.ReplyRate, m.Opportunities, m.Uncontacted),
	}

	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionStatus, Title: "Campaign status", Entities: []ClassificationResult{*result}},
		},
		Meta: ReportMeta{Counts: map[string]int{"campaigns": 1}},
	}, nil
}

// handleCheckEmail runs the inbox detector against one account
func (s *AnalystService) handleCheckEmail(ctx context.Context, params map[string]string) (*Report, error) {
	email := params["email"]
	accounts, err := s.provider.GetAccounts(ctx)
	if err != nil {
		return nil, NewUpstreamError("accounts", err)
	}

	for _, a := range accounts {
		if !strings.EqualFold(a.Email, email) {
			continue
		}
		inbox := DetectInboxIssues(a, s.benchmarks)
		summary := []string{}
		if inbox.HasIssues() {
			summary = append(summary, fmt.Sprintf("%s has %d issue(s), worst severity %s.",
				a.Email, len(inbox.Issues), inbox.Severity))
			for _, issue := range inbox.Issues {
				summary = append(summary, issue.Message)
			}
		} else {
			summary = append(summary, fmt.Sprintf("%s looks healthy (score %.0f).", a.Email, a.HealthScore))
		}
		return &Report{
			Summary: summary,
			Sections: []ReportSection{
				{Kind: SectionStatus, Title: "Inbox check", Inboxes: []InboxReport{inbox}, Lines: inbox.ActionPlan},
			},
			Meta: ReportMeta{Counts: map[string]int{"issues": len(inbox.Issues)}},
		}, nil
	}

	return nil, NewNotFoundError("inbox", email)
}

// handleTagReport summarizes inbox health for one tag group
func (s *AnalystService) handleTagReport(ctx context.Context, params map[string]string) (*Report, error) {
	tag := params["tag"]
	accounts, err := s.provider.GetAccounts(ctx)
	if err != nil {
		return nil, NewUpstreamError("accounts", err)
	}

	var matched []InboxReport
	for _, a := range accounts {
		if !hasTagFold(a, tag) {
			continue
		}
		matched = append(matched, DetectInboxIssues(a, s.benchmarks))
	}
	if len(matched) == 0 {
		return nil, NewNotFoundError("tag", tag)
	}

	withIssues := 0
	for _, r := range matched {
		if r.HasIssues() {
			withIssues++
		}
	}

	return &Report{
		Summary: []string{
			fmt.Sprintf("Tag %q covers %d inboxes; %d have issues.", tag, len(matched), withIssues),
		},
		Sections: []ReportSection{
			{Kind: SectionList, Title: fmt.Sprintf("Inboxes tagged %q", tag), Inboxes: matched},
		},
		Meta: ReportMeta{Counts: map[string]int{"inboxes": len(matched), "with_issues": withIssues}},
	}, nil
}

// handleClientHealth classifies every client account
func (s *AnalystService) handleClientHealth(ctx context.Context, params map[string]string) (*Report, error) {
	clients, err := s.provider.GetClientMetrics(ctx)
	if err != nil {
		return nil, NewUpstreamError("client metrics", err)
	}

	results := make([]ClassificationResult, 0, len(clients))
	for _, c := range clients {
		results = append(results, ClassifyClient(c, s.benchmarks))
	}
	SortClientClassifications(results)

	counts := bucketCounts(results)
	summary := []string{fmt.Sprintf("Reviewed %d clients.", len(results))}
	for _, r := range results {
		if r.Bucket == BucketPerformingWell {
			continue
		}
		summary = append(summary, fmt.Sprintf("%s: %s — %s", r.EntityName, r.Bucket, r.Reason))
	}
	if len(summary) == 1 {
		summary = append(summary, "Every client is performing well.")
	}

	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionStatus, Title: "Client issues", Lines: statusLines(counts)},
			{Kind: SectionList, Title: "Clients by severity", Entities: results},
		},
		Meta: ReportMeta{Counts: counts},
	}, nil
}

// handleInboxHealth runs the detector across every account
func (s *AnalystService) handleInboxHealth(ctx context.Context, params map[string]string) (*Report, error) {
	accounts, err := s.provider.GetAccounts(ctx)
	if err != nil {
		return nil, NewUpstreamError("accounts", err)
	}

	reports := make([]InboxReport, 0, len(accounts))
	for _, a := range accounts {
		reports = append(reports, DetectInboxIssues(a, s.benchmarks))
	}
	summaryStats := SummarizeInboxHealth(reports)

	flagged := make([]InboxReport, 0)
	for _, r := range reports {
		if r.HasIssues() {
			flagged = append(flagged, r)
		}
	}

	summary := []string{
		fmt.Sprintf("%d inboxes checked: %d disconnected, %d low health, %d erroring.",
			summaryStats.TotalAccounts, summaryStats.Disconnected,
			summaryStats.LowHealth, summaryStats.ErrorState),
	}
	if summaryStats.CriticalIssues > 0 {
		summary = append(summary, fmt.Sprintf("%d critical issue(s) need attention today.", summaryStats.CriticalIssues))
	} else if len(flagged) == 0 {
		summary = append(summary, "All inboxes are healthy.")
	}

	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionList, Title: "Inboxes with issues", Inboxes: flagged},
		},
		Meta: ReportMeta{Counts: map[string]int{
			"total":        summaryStats.TotalAccounts,
			"disconnected": summaryStats.Disconnected,
			"low_health":   summaryStats.LowHealth,
			"error_state":  summaryStats.ErrorState,
			"critical":     summaryStats.CriticalIssues,
		}},
	}, nil
}

// handleDailyTasks generates and lists today's tasks
func (s *AnalystService) handleDailyTasks(ctx context.Context, params map[string]string) (*Report, error) {
	set, err := s.GenerateTaskSet(ctx)
	if err != nil {
		return nil, err
	}
	return taskReport("Today's tasks", set.Daily), nil
}

// handleWeeklyTasks generates and lists this week's aggregate tasks
func (s *AnalystService) handleWeeklyTasks(ctx context.Context, params map[string]string) (*Report, error) {
	set, err := s.GenerateTaskSet(ctx)
	if err != nil {
		return nil, err
	}
	return taskReport("This week's tasks", set.Weekly), nil
}

// handleHelp lists what the resolver understands
func (s *AnalystService) handleHelp(ctx context.Context, params map[string]string) (*Report, error) {
	lines := []string{
		`"overview" (or "o") — portfolio status across all campaigns`,
		`"low leads" — campaigns running out of uncontacted leads`,
		`"diagnose <campaign>" — full diagnosis for one campaign`,
		`"status <campaign>" — quick numbers for one campaign`,
		`"check <email>" — issue check for one sending inbox`,
		`"tag <tag>" — inbox health for one tag group`,
		`"client health" — issue buckets across client accounts`,
		`"inbox health" — deliverability across every inbox`,
		`"d" / "w" — today's or this week's generated tasks`,
		`Prefix any command with "refresh" to skip the cache.`,
	}
	return &Report{
		Summary: append([]string{"Here's what I can answer:"}, lines...),
		Sections: []ReportSection{
			{Kind: SectionSummary, Title: "Commands", Lines: lines},
		},
	}, nil
}

// classifyCampaigns fetches and classifies every campaign, sorted by priority
func (s *AnalystService) classifyCampaigns(ctx context.Context) ([]ClassificationResult, error) {
	snapshots, err := s.provider.GetCampaignMetrics(ctx, nil)
	if err != nil {
		return nil, NewUpstreamError("campaign metrics", err)
	}

	// One entity with no analytics yet never aborts the batch: a zero
	// snapshot lands in PENDING through the first rule.
	results := make([]ClassificationResult, 0, len(snapshots))
	for _, m := range snapshots {
		results = append(results, ClassifyCampaign(m, s.benchmarks))
	}
	SortClassifications(results)
	return results, nil
}

// classifyNamedCampaign finds one campaign by name or ID and classifies it
func (s *AnalystService) classifyNamedCampaign(ctx context.Context, name string) (*ClassificationResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewNotFoundError("campaign", name)
	}

	// Exact name or ID lookup goes straight to the platform
	if m, err := s.provider.GetAggregatedMetrics(ctx, name, nil); err == nil {
		result := ClassifyCampaign(*m, s.benchmarks)
		return &result, nil
	} else if IsUpstream(err) {
		return nil, err
	}

	// Fall back to a substring scan so "diagnose acme" finds "Acme Corp Q3"
	snapshots, err := s.provider.GetCampaignMetrics(ctx, nil)
	if err != nil {
		return nil, NewUpstreamError("campaign metrics", err)
	}

	target := strings.ToLower(strings.TrimSpace(name))
	for _, m := range snapshots {
		if strings.Contains(strings.ToLower(m.EntityName), target) {
			result := ClassifyCampaign(m, s.benchmarks)
			return &result, nil
		}
	}

	return nil, NewNotFoundError("campaign", name)
}

// taskReport wraps a task list into a report
func taskReport(title string, tasks []AutoTask) *Report {
	summary := []string{fmt.Sprintf("%s: %d item(s).", title, len(tasks))}
	for _, t := range tasks {
		summary = append(summary, fmt.Sprintf("[%s] %s (due %s)",
			t.Severity, t.Title, t.DueDate.Format("Mon Jan 2")))
	}
	return &Report{
		Summary: summary,
		Sections: []ReportSection{
			{Kind: SectionList, Title: title, Tasks: tasks},
		},
		Meta: ReportMeta{Counts: map[string]int{"tasks": len(tasks)}},
	}
}

// bucketCounts tallies results per bucket for report metadata
func bucketCounts(results []ClassificationResult) map[string]int {
	counts := make(map[string]int)
	for _, r := range results {
		counts[string(r.Bucket)]++
	}
	return counts
}

// statusLines renders bucket counts as stable, sorted lines
func statusLines(counts map[string]int) []string {
	lines := make([]string, 0, len(counts))
	for _, bucket := range orderedBuckets {
		if n, ok := counts[string(bucket)]; ok {
			lines = append(lines, fmt.Sprintf("%s: %d", bucket, n))
		}
	}
	return lines
}

// orderedBuckets fixes the display order of status lines
var orderedBuckets = []Bucket{
	BucketNeedNewList, BucketNotPriority, BucketReview, BucketNoAction, BucketPending,
	BucketDeliverabilityIssue, BucketVolumeIssue, BucketCopyIssue, BucketSubsequenceIssue,
	BucketTAMExhausted, BucketNotViable, BucketTooEarly, BucketPerformingWell,
}

// hasTagFold matches a tag case-insensitively
func hasTagFold(a Account, tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
