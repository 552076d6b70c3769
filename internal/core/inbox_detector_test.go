package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyAccount(email string) Account {
	return Account{
		ID:            "acc-" + email,
		Email:         email,
		Status:        "connected",
		HealthScore:   95,
		WarmupEnabled: true,
	}
}

func TestDetectInboxIssuesHealthy(t *testing.T) {
	report := DetectInboxIssues(healthyAccount("ok@example.com"), DefaultBenchmarks())

	assert.False(t, report.HasIssues())
	assert.Equal(t, SeverityNone, report.Severity)
	assert.Empty(t, report.ActionPlan)
}

func TestDetectInboxIssuesDisconnected(t *testing.T) {
	a := healthyAccount("gone@example.com")
	a.Status = AccountStatusDisconnected

	report := DetectInboxIssues(a, DefaultBenchmarks())

	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueDisconnected, report.Issues[0].Type)
	assert.Equal(t, SeverityCritical, report.Severity)
	assert.Len(t, report.ActionPlan, len(remediationSteps[IssueDisconnected]))
}

func TestDetectInboxIssuesErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		issue    IssueType
		severity Severity
	}{
		{"credentials map to auth", "invalid credentials supplied", IssueAuthError, SeverityCritical},
		{"oauth token maps to auth", "OAuth token expired", IssueAuthError, SeverityCritical},
		{"timeout maps to smtp", "connection timeout after 30s", IssueSMTPError, SeverityCritical},
		{"refused maps to smtp", "relay refused by host", IssueSMTPError, SeverityCritical},
		{"limit maps to sending", "daily limit exceeded", IssueSendingError, SeverityHigh},
		{"suspension maps to sending", "account suspended by provider", IssueSendingError, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := healthyAccount("err@example.com")
			a.ErrorMessage = tt.message

			report := DetectInboxIssues(a, DefaultBenchmarks())

			require.Len(t, report.Issues, 1)
			assert.Equal(t, tt.issue, report.Issues[0].Type)
			assert.Equal(t, tt.severity, report.Issues[0].Severity)
			assert.Equal(t, tt.message, report.Issues[0].Detail)
		})
	}
}

func TestDetectInboxIssuesAuthBeatsSMTP(t *testing.T) {
	a := healthyAccount("both@example.com")
	a.ErrorMessage = "SMTP auth failed: connection rejected"

	report := DetectInboxIssues(a, DefaultBenchmarks())

	// One error message maps to exactly one issue type
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueAuthError, report.Issues[0].Type)
}

func TestDetectInboxIssuesLowHealth(t *testing.T) {
	b := DefaultBenchmarks()

	a := healthyAccount("meh@example.com")
	a.HealthScore = 60
	report := DetectInboxIssues(a, b)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueLowHealth, report.Issues[0].Type)
	assert.Equal(t, SeverityMedium, report.Issues[0].Severity)

	a.HealthScore = 40
	report = DetectInboxIssues(a, b)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, SeverityHigh, report.Issues[0].Severity)
}

func TestDetectInboxIssuesWarmupDisabled(t *testing.T) {
	a := healthyAccount("cold@example.com")
	a.WarmupEnabled = false
	a.HealthScore = 80

	report := DetectInboxIssues(a, DefaultBenchmarks())

	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueWarmupDisabled, report.Issues[0].Type)
	assert.Equal(t, SeverityMedium, report.Severity)
}

func TestDetectInboxIssuesWarmupIgnoredAtOptimalHealth(t *testing.T) {
	a := healthyAccount("warm@example.com")
	a.WarmupEnabled = false
	a.HealthScore = 95

	report := DetectInboxIssues(a, DefaultBenchmarks())
	assert.False(t, report.HasIssues())
}

func TestDetectInboxIssuesAccumulate(t *testing.T) {
	a := Account{
		ID:            "acc-multi",
		Email:         "multi@example.com",
		Status:        AccountStatusDisconnected,
		HealthScore:   20,
		ErrorMessage:  "login failed",
		WarmupEnabled: false,
	}

	report := DetectInboxIssues(a, DefaultBenchmarks())

	// Disconnected, auth error, warmup off; low health is skipped because
	// the account is not connected
	require.Len(t, report.Issues, 3)
	assert.Equal(t, SeverityCritical, report.Severity)

	wantSteps := len(remediationSteps[IssueDisconnected]) +
		len(remediationSteps[IssueAuthError]) +
		len(remediationSteps[IssueWarmupDisabled])
	assert.Len(t, report.ActionPlan, wantSteps)
}

func TestSummarizeInboxHealth(t *testing.T) {
	b := DefaultBenchmarks()

	disconnected := healthyAccount("a@example.com")
	disconnected.Status = AccountStatusDisconnected

	lowHealth := healthyAccount("b@example.com")
	lowHealth.HealthScore = 55

	erroring := healthyAccount("c@example.com")
	erroring.ErrorMessage = "daily limit exceeded"

	reports := []InboxReport{
		DetectInboxIssues(disconnected, b),
		DetectInboxIssues(lowHealth, b),
		DetectInboxIssues(erroring, b),
		DetectInboxIssues(healthyAccount("d@example.com"), b),
	}

	summary := SummarizeInboxHealth(reports)

	assert.Equal(t, 4, summary.TotalAccounts)
	assert.Equal(t, 1, summary.Disconnected)
	assert.Equal(t, 1, summary.LowHealth)
	assert.Equal(t, 1, summary.ErrorState)
	assert.Equal(t, 1, summary.CriticalIssues)
}
