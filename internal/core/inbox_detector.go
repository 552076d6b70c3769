package core

import (
	"fmt"
	"strings"
)

// Keyword tables for sorting platform error messages into issue types.
// Matching is case-insensitive substring containment.
var (
	authKeywords = []string{
		"auth", "credential", "password", "login", "unauthorized", "token",
	}
	smtpKeywords = []string{
		"smtp", "connection", "connect", "timeout", "refused",
	}
	sendingKeywords = []string{
		"error", "blocked", "suspended", "limit", "rejected", "failed",
	}
)

// remediationSteps maps each issue type to its fixed, ordered fix list.
// The detector concatenates the lists of every detected issue into the
// account's action plan.
var remediationSteps = map[IssueType][]string{
	IssueDisconnected: {
		"Reconnect the inbox from the platform's account settings",
		"Re-grant the mailbox OAuth permissions if prompted",
		"Confirm the inbox resumes sending within the hour",
	},
	IssueAuthError: {
		"Update the stored mailbox credentials",
		"Regenerate the app password if the provider requires one",
		"Reconnect the inbox and send a test email",
	},
	IssueSMTPError: {
		"Verify the SMTP host and port in the inbox settings",
		"Check whether the provider is blocking the connecting IP",
		"Retry the connection after fixing the network path",
	},
	IssueSendingError: {
		"Read the full provider error in the inbox log",
		"Reduce the daily sending limit until the block clears",
		"Contact the email provider if the account is suspended",
	},
	IssueLowHealth: {
		"Lower the daily sending volume on this inbox",
		"Enable or extend warmup until the score recovers",
		"Check recent bounce and spam-report rates",
	},
	IssueWarmupDisabled: {
		"Re-enable warmup on this inbox",
		"Keep warmup running until the health score is back above optimal",
	},
}

// containsAny reports whether text contains any of the keywords,
// case-insensitively
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetectInboxIssues runs every independent check against one account and
// accumulates all that apply. Aggregate severity is the maximum across
// detected issues, or none when the account is clean.
func DetectInboxIssues(a Account, b Benchmarks) InboxReport {
	report := InboxReport{
		AccountID: a.ID,
		Email:     a.Email,
		Severity:  SeverityNone,
	}

	if !a.IsConnected() {
		report.Issues = append(report.Issues, DetectedIssue{
			Type:     IssueDisconnected,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("%s is disconnected and not sending", a.Email),
			Detail:   a.ErrorMessage,
		})
	}

	// The error message maps to at most one issue type: auth beats smtp
	// beats generic sending errors.
	if a.ErrorMessage != "" {
		switch {
		case containsAny(a.ErrorMessage, authKeywords):
			report.Issues = append(report.Issues, DetectedIssue{
				Type:     IssueAuthError,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("%s has an authentication failure", a.Email),
				Detail:   a.ErrorMessage,
			})
		case containsAny(a.ErrorMessage, smtpKeywords):
			report.Issues = append(report.Issues, DetectedIssue{
				Type:     IssueSMTPError,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("%s cannot reach its SMTP server", a.Email),
				Detail:   a.ErrorMessage,
			})
		case containsAny(a.ErrorMessage, sendingKeywords):
			report.Issues = append(report.Issues, DetectedIssue{
				Type:     IssueSendingError,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("%s is reporting a sending error", a.Email),
				Detail:   a.ErrorMessage,
			})
		}
	}

	if a.IsConnected() && a.HealthScore < b.HealthScoreFloor {
		severity := SeverityMedium
		if a.HealthScore < b.HealthScoreSevere {
			severity = SeverityHigh
		}
		report.Issues = append(report.Issues, DetectedIssue{
			Type:     IssueLowHealth,
			Severity: severity,
			Message: fmt.Sprintf("%s health score %.0f is below the %.0f floor",
				a.Email, a.HealthScore, b.HealthScoreFloor),
		})
	}

	if !a.WarmupEnabled && a.HealthScore < b.HealthScoreOptimal {
		report.Issues = append(report.Issues, DetectedIssue{
			Type:     IssueWarmupDisabled,
			Severity: SeverityMedium,
			Message: fmt.Sprintf("%s has warmup off while health is %.0f (optimal %.0f)",
				a.Email, a.HealthScore, b.HealthScoreOptimal),
		})
	}

	for _, issue := range report.Issues {
		report.Severity = report.Severity.Max(issue.Severity)
		report.ActionPlan = append(report.ActionPlan, remediationSteps[issue.Type]...)
	}

	return report
}

// SummarizeInboxHealth aggregates per-account reports into the portfolio view
// consumed by the task generator and the UI cards.
func SummarizeInboxHealth(reports []InboxReport) InboxHealthSummary {
	summary := InboxHealthSummary{TotalAccounts: len(reports)}
	for _, r := range reports {
		for _, issue := range r.Issues {
			switch issue.Type {
			case IssueDisconnected:
				summary.Disconnected++
			case IssueLowHealth:
				summary.LowHealth++
			case IssueAuthError, IssueSMTPError, IssueSendingError:
				summary.ErrorState++
			}
			if issue.Severity == SeverityCritical {
				summary.CriticalIssues++
			}
		}
	}
	return summary
}
