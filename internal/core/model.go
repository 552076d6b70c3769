package core

import (
	"time"
)

// Severity ranks how urgent an underlying issue is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityNone     Severity = "none"
)

// severityOrder maps severities to sortable ranks (critical first)
var severityOrder = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityNone:     4,
}

// Rank returns the sort rank of the severity, critical being lowest
func (s Severity) Rank() int {
	if r, ok := severityOrder[s]; ok {
		return r
	}
	return len(severityOrder)
}

// Max returns the more severe of the two severities
func (s Severity) Max(other Severity) Severity {
	if other.Rank() < s.Rank() {
		return other
	}
	return s
}

// Urgency is the finer-grained ranking used for within-bucket sorting
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

var urgencyOrder = map[Urgency]int{
	UrgencyUrgent: 0,
	UrgencyHigh:   1,
	UrgencyMedium: 2,
	UrgencyLow:    3,
}

// Rank returns the sort rank of the urgency, urgent being lowest
func (u Urgency) Rank() int {
	if r, ok := urgencyOrder[u]; ok {
		return r
	}
	return len(urgencyOrder)
}

// Bucket is a mutually-exclusive classification label for a campaign or client
type Bucket string

// Campaign buckets
const (
	BucketPending     Bucket = "PENDING"
	BucketNotPriority Bucket = "NOT_PRIORITY"
	BucketNeedNewList Bucket = "NEED_NEW_LIST"
	BucketReview      Bucket = "REVIEW"
	BucketNoAction    Bucket = "NO_ACTION"
)

// Client buckets
const (
	BucketDeliverabilityIssue Bucket = "DELIVERABILITY_ISSUE"
	BucketTooEarly            Bucket = "TOO_EARLY"
	BucketVolumeIssue         Bucket = "VOLUME_ISSUE"
	BucketCopyIssue           Bucket = "COPY_ISSUE"
	BucketSubsequenceIssue    Bucket = "SUBSEQUENCE_ISSUE"
	BucketTAMExhausted        Bucket = "TAM_EXHAUSTED"
	BucketNotViable           Bucket = "NOT_VIABLE"
	BucketPerformingWell      Bucket = "PERFORMING_WELL"
)

// MetricsSnapshot holds the aggregated outreach numbers for one entity
// (a campaign or a client). Supplied by the platform API and read-only
// to the classifiers.
type MetricsSnapshot struct {
	EntityID        string  `json:"entity_id"`
	EntityName      string  `json:"entity_name"`
	Sent            int     `json:"sent"`
	Contacted       int     `json:"contacted"`
	Uncontacted     int     `json:"uncontacted"`
	Replies         int     `json:"replies"`
	PositiveReplies int     `json:"positive_replies"`
	Opportunities   int     `json:"opportunities"`
	Bounced         int     `json:"bounced"`
	ReplyRate       float64 `json:"reply_rate"`
	BounceRate      float64 `json:"bounce_rate"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// ComputeRates derives the percentage rates from the raw counts.
// The platform normally supplies them, but fixture data may omit them.
func (m *MetricsSnapshot) ComputeRates() {
	if m.Sent > 0 {
		m.ReplyRate = float64(m.Replies) / float64(m.Sent) * 100
		m.BounceRate = float64(m.Bounced) / float64(m.Sent) * 100
	}
	if m.PositiveReplies > 0 {
		m.ConversionRate = float64(m.Opportunities) / float64(m.PositiveReplies) * 100
	}
}

// ClientMetrics aggregates a client's numbers across its campaigns and inboxes
type ClientMetrics struct {
	ClientID            string          `json:"client_id"`
	ClientName          string          `json:"client_name"`
	Metrics             MetricsSnapshot `json:"metrics"`
	InboxCount          int             `json:"inbox_count"`
	DisconnectedInboxes int             `json:"disconnected_inboxes"`
	LowHealthInboxes    int             `json:"low_health_inboxes"`
}

// Account describes one sending inbox as reported by the platform
type Account struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Status        string   `json:"status"`
	HealthScore   float64  `json:"health_score"`
	ErrorMessage  string   `json:"error_message"`
	WarmupEnabled bool     `json:"warmup_enabled"`
	Tags          []string `json:"tags"`
	ClientID      string   `json:"client_id"`
}

// AccountStatusDisconnected is the platform status for a disconnected inbox
const AccountStatusDisconnected = "disconnected"

// IsConnected reports whether the account is currently connected
func (a Account) IsConnected() bool {
	return a.Status != AccountStatusDisconnected
}

// TaskSpec is the auto-task template a classification pairs with its bucket
type TaskSpec struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ClassificationResult is the outcome of classifying one entity.
// Exactly one bucket per entity per evaluation; a pure function of the
// snapshot and the benchmark table.
type ClassificationResult struct {
	EntityID          string          `json:"entity_id"`
	EntityName        string          `json:"entity_name"`
	Bucket            Bucket          `json:"bucket"`
	Severity          Severity        `json:"severity"`
	Urgency           Urgency         `json:"urgency"`
	Reason            string          `json:"reason"`
	RecommendedAction string          `json:"recommended_action"`
	BenchmarkNote     string          `json:"benchmark_note,omitempty"`
	AutoTask          *TaskSpec       `json:"auto_task,omitempty"`
	Metrics           MetricsSnapshot `json:"metrics"`
}

// IssueType identifies a detected inbox-level problem
type IssueType string

const (
	IssueDisconnected   IssueType = "disconnected"
	IssueAuthError      IssueType = "auth_error"
	IssueSMTPError      IssueType = "smtp_error"
	IssueSendingError   IssueType = "sending_error"
	IssueLowHealth      IssueType = "low_health"
	IssueWarmupDisabled IssueType = "warmup_disabled"
)

// DetectedIssue is one inbox-level problem found by the detector
type DetectedIssue struct {
	Type     IssueType `json:"type"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Detail   string    `json:"detail,omitempty"`
}

// InboxReport collects every issue detected on one account
type InboxReport struct {
	AccountID  string          `json:"account_id"`
	Email      string          `json:"email"`
	Issues     []DetectedIssue `json:"issues"`
	Severity   Severity        `json:"severity"`
	ActionPlan []string        `json:"action_plan"`
}

// HasIssues reports whether any issue was detected on the account
func (r InboxReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// InboxHealthSummary aggregates detector output across all accounts
type InboxHealthSummary struct {
	TotalAccounts  int `json:"total_accounts"`
	Disconnected   int `json:"disconnected"`
	LowHealth      int `json:"low_health"`
	ErrorState     int `json:"error_state"`
	CriticalIssues int `json:"critical_issues"`
}

// TaskHorizon distinguishes daily from weekly tasks
type TaskHorizon string

const (
	HorizonDaily  TaskHorizon = "daily"
	HorizonWeekly TaskHorizon = "weekly"
)

// AutoTask is a due-dated action item derived from a classification.
// Completion state is owned by the UI; the generator never sets it.
type AutoTask struct {
	ID          string      `json:"id"`
	Horizon     TaskHorizon `json:"horizon"`
	Bucket      Bucket      `json:"bucket"`
	Severity    Severity    `json:"severity"`
	EntityName  string      `json:"entity_name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     time.Time   `json:"due_date"`
	Completed   bool        `json:"completed"`
}

// TaskSet holds the two generated task lists
type TaskSet struct {
	Daily  []AutoTask `json:"daily"`
	Weekly []AutoTask `json:"weekly"`
}

// TrendSample carries week-over-week reply-rate movement for one entity
type TrendSample struct {
	EntityID          string  `json:"entity_id"`
	EntityName        string  `json:"entity_name"`
	CurrentReplyRate  float64 `json:"current_reply_rate"`
	PreviousReplyRate float64 `json:"previous_reply_rate"`
}

// DateRange is a half-open [Start, End) range at calendar-day granularity.
// A nil *DateRange means all-time.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// SectionKind identifies the shape of a report section
type SectionKind string

const (
	SectionStatus  SectionKind = "status"
	SectionList    SectionKind = "list"
	SectionSummary SectionKind = "summary"
)

// ReportSection is one typed block of a structured report
type ReportSection struct {
	Kind     SectionKind            `json:"kind"`
	Title    string                 `json:"title"`
	Lines    []string               `json:"lines,omitempty"`
	Entities []ClassificationResult `json:"entities,omitempty"`
	Tasks    []AutoTask             `json:"tasks,omitempty"`
	Inboxes  []InboxReport          `json:"inboxes,omitempty"`
}

// ReportMeta carries counts and cache provenance for the UI
type ReportMeta struct {
	Counts    map[string]int `json:"counts,omitempty"`
	FromCache bool           `json:"from_cache"`
	CacheAge  string         `json:"cache_age,omitempty"`
}

// Report is the structured output of one executed command
type Report struct {
	ProcessingID string          `json:"processing_id"`
	Command      string          `json:"command"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Summary      []string        `json:"summary"`
	Sections     []ReportSection `json:"sections"`
	Meta         ReportMeta      `json:"meta"`
}

// QueryRequest is one user query arriving at the dispatch boundary
type QueryRequest struct {
	Query        string `json:"query"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
}

// QueryResponse is what the dispatch boundary returns to the UI
type QueryResponse struct {
	ResponseText    string  `json:"response_text"`
	ResolvedCommand string  `json:"resolved_command"`
	Report          *Report `json:"report,omitempty"`
}
