package core

import (
	"fmt"
	"sort"
)

// clientRule mirrors campaignRule for the 8-way client classification.
// Slice order is the fixed precedence.
type clientRule struct {
	name    string
	when    func(c ClientMetrics, b Benchmarks) bool
	outcome func(c ClientMetrics, b Benchmarks) ClassificationResult
}

var clientRules = []clientRule{
	{
		name: "deliverability",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.DisconnectedInboxes > 0 || c.LowHealthInboxes > b.MaxLowHealthInboxes
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("%d of %d inboxes disconnected and %d below the health floor; sending is compromised",
				c.DisconnectedInboxes, c.InboxCount, c.LowHealthInboxes)
			return ClassificationResult{
				Bucket:            BucketDeliverabilityIssue,
				Severity:          SeverityCritical,
				Urgency:           UrgencyUrgent,
				Reason:            reason,
				RecommendedAction: "Reconnect the dropped inboxes and pause sends from low-health ones",
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Fix deliverability for %s", c.ClientName),
					Description: reason,
					Category:    "deliverability",
				},
			}
		},
	},
	{
		name: "too early",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.Metrics.Sent < b.EarlyStageSent
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("only %d sends so far, below the %d needed for a verdict",
				c.Metrics.Sent, b.EarlyStageSent)
			return ClassificationResult{
				Bucket:            BucketTooEarly,
				Severity:          SeverityLow,
				Urgency:           UrgencyLow,
				Reason:            reason,
				RecommendedAction: "Keep ramping volume; judge again once the account has data",
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Re-check %s once volume is up", c.ClientName),
					Description: reason,
					Category:    "monitoring",
				},
			}
		},
	},
	{
		name: "volume",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.Metrics.Uncontacted < b.CriticalUncontacted
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("only %d uncontacted leads left across all campaigns (floor %d)",
				c.Metrics.Uncontacted, b.CriticalUncontacted)
			action := "Source new lead lists before the pipeline stalls"
			if c.Metrics.ReplyRate < b.CriticalReplyRate {
				reason += fmt.Sprintf("; reply rate %.2f%% is also below %.2f%%, so fix the copy before burning new leads",
					c.Metrics.ReplyRate, b.CriticalReplyRate)
				action = "Fix the copy first, then source new lead lists"
			}
			return ClassificationResult{
				Bucket:            BucketVolumeIssue,
				Severity:          SeverityHigh,
				Urgency:           UrgencyHigh,
				Reason:            reason,
				RecommendedAction: action,
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Source new leads for %s", c.ClientName),
					Description: reason,
					Category:    "leads",
				},
			}
		},
	},
	{
		name: "copy",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.Metrics.ReplyRate < b.CriticalReplyRate
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("reply rate %.2f%% across %d sends is below the %.2f%% critical floor",
				c.Metrics.ReplyRate, c.Metrics.Sent, b.CriticalReplyRate)
			return ClassificationResult{
				Bucket:            BucketCopyIssue,
				Severity:          SeverityHigh,
				Urgency:           UrgencyHigh,
				Reason:            reason,
				RecommendedAction: "Rewrite the opening copy and subject lines; the message is not getting replies",
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Rework copy for %s", c.ClientName),
					Description: reason,
					Category:    "copy",
				},
			}
		},
	},
	{
		name: "subsequence",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.Metrics.ReplyRate >= b.GoodReplyRate && c.Metrics.ConversionRate < b.CriticalConversion
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("replies are strong (%.2f%%) but only %.1f%% of %d positive replies turn into meetings (floor %.1f%%)",
				c.Metrics.ReplyRate, c.Metrics.ConversionRate, c.Metrics.PositiveReplies, b.CriticalConversion)
			return ClassificationResult{
				Bucket:            BucketSubsequenceIssue,
				Severity:          SeverityHigh,
				Urgency:           UrgencyHigh,
				Reason:            reason,
				RecommendedAction: "Audit the reply-to-meeting subsequence; interested leads are leaking out",
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Audit follow-up subsequence for %s", c.ClientName),
					Description: reason,
					Category:    "conversion",
				},
			}
		},
	},
	{
		name: "tam exhausted",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.Metrics.Sent >= b.TAMExhaustedSent && c.Metrics.ReplyRate < b.LowReplyRate
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("%d sends with reply rate down to %.2f%%; the addressable market looks tapped out",
				c.Metrics.Sent, c.Metrics.ReplyRate)
			return ClassificationResult{
				Bucket:            BucketTAMExhausted,
				Severity:          SeverityMedium,
				Urgency:           UrgencyMedium,
				Reason:            reason,
				RecommendedAction: "Expand the target market definition or pivot to a fresh segment",
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Expand the market for %s", c.ClientName),
					Description: reason,
					Category:    "targeting",
				},
			}
		},
	},
	{
		name: "not viable",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return c.Metrics.Sent >= b.ViableSentThreshold && c.Metrics.Opportunities < b.MinClientOpps
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("%d sends produced only %d opportunities (minimum %d expected); the offer is not landing",
				c.Metrics.Sent, c.Metrics.Opportunities, b.MinClientOpps)
			return ClassificationResult{
				Bucket:            BucketNotViable,
				Severity:          SeverityHigh,
				Urgency:           UrgencyHigh,
				Reason:            reason,
				RecommendedAction: "Sit down with the client and rework the offer before sending more",
				AutoTask: &TaskSpec{
					Title:       fmt.Sprintf("Rework the offer with %s", c.ClientName),
					Description: reason,
					Category:    "viability",
				},
			}
		},
	},
	{
		name: "performing well",
		when: func(c ClientMetrics, b Benchmarks) bool {
			return true
		},
		outcome: func(c ClientMetrics, b Benchmarks) ClassificationResult {
			reason := fmt.Sprintf("reply rate %.2f%% and %d opportunities from %d sends; nothing needs attention",
				c.Metrics.ReplyRate, c.Metrics.Opportunities, c.Metrics.Sent)
			return ClassificationResult{
				Bucket:            BucketPerformingWell,
				Severity:          SeverityNone,
				Urgency:           UrgencyLow,
				Reason:            reason,
				RecommendedAction: "No action needed",
			}
		},
	},
}

// ClassifyClient assigns exactly one issue bucket to a client's aggregate
// metrics, in fixed precedence order.
func ClassifyClient(c ClientMetrics, b Benchmarks) ClassificationResult {
	for _, rule := range clientRules {
		if rule.when(c, b) {
			result := rule.outcome(c, b)
			result.EntityID = c.ClientID
			result.EntityName = c.ClientName
			result.Metrics = c.Metrics
			result.Metrics.EntityID = c.ClientID
			result.Metrics.EntityName = c.ClientName
			return result
		}
	}
	panic("client rule chain has no catch-all")
}

// SortClientClassifications orders client results by severity, then by name
// for a stable total order.
func SortClientClassifications(batch []ClassificationResult) {
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].Severity.Rank() != batch[j].Severity.Rank() {
			return batch[i].Severity.Rank() < batch[j].Severity.Rank()
		}
		return batch[i].EntityName < batch[j].EntityName
	})
}
