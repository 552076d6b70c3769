package core

import (
	"fmt"
	"sort"
)

// campaignRule is one entry of the ordered campaign rule chain. Rules are
// evaluated top to bottom and the first satisfied rule wins, so the slice
// order carries the precedence.
type campaignRule struct {
	name    string
	when    func(m MetricsSnapshot, b Benchmarks) bool
	outcome func(m MetricsSnapshot, b Benchmarks) ClassificationResult
}

var campaignRules = []campaignRule{
	{
		name: "insufficient data",
		when: func(m MetricsSnapshot, b Benchmarks) bool {
			return m.Sent < b.MinDataThreshold
		},
		outcome: func(m MetricsSnapshot, b Benchmarks) ClassificationResult {
			return ClassificationResult{
				Bucket:   BucketPending,
				Severity: SeverityLow,
				Urgency:  UrgencyLow,
				Reason: fmt.Sprintf("only %d emails sent so far, below the %d needed to judge performance",
					m.Sent, b.MinDataThreshold),
				RecommendedAction: "Let the campaign run and re-check once it has more volume",
			}
		},
	},
	{
		name: "not viable",
		when: func(m MetricsSnapshot, b Benchmarks) bool {
			return m.Contacted >= b.NotViableContacted && m.Opportunities <= b.NotViableOppMax
		},
		outcome: func(m MetricsSnapshot, b Benchmarks) ClassificationResult {
			return ClassificationResult{
				Bucket:   BucketNotPriority,
				Severity: SeverityHigh,
				Urgency:  UrgencyHigh,
				Reason: fmt.Sprintf("%d leads contacted with only %d opportunities; the offer or audience is not viable",
					m.Contacted, m.Opportunities),
				RecommendedAction: "Pause the campaign and revisit the offer or targeting before spending more leads",
				BenchmarkNote: fmt.Sprintf("viability floor: more than %d opportunities expected by %d contacted",
					b.NotViableOppMax, b.NotViableContacted),
			}
		},
	},
	{
		name: "reply rate floor",
		when: func(m MetricsSnapshot, b Benchmarks) bool {
			return m.ReplyRate < b.MinReplyRate
		},
		outcome: func(m MetricsSnapshot, b Benchmarks) ClassificationResult {
			return ClassificationResult{
				Bucket:   BucketNotPriority,
				Severity: SeverityHigh,
				Urgency:  UrgencyHigh,
				Reason: fmt.Sprintf("reply rate %.2f%% is catastrophically low (floor %.2f%%)",
					m.ReplyRate, b.MinReplyRate),
				RecommendedAction: "Rewrite the copy or rebuild the list; replies this low mean the message is not landing",
				BenchmarkNote:     fmt.Sprintf("reply-rate floor: %.2f%%", b.MinReplyRate),
			}
		},
	},
	{
		name: "low leads",
		when: func(m MetricsSnapshot, b Benchmarks) bool {
			return m.Uncontacted < b.LowLeadsWarning
		},
		outcome: func(m MetricsSnapshot, b Benchmarks) ClassificationResult {
			urgency := UrgencyHigh
			if m.Uncontacted < b.LowLeadsCritical {
				urgency = UrgencyUrgent
			}
			return ClassificationResult{
				Bucket:   BucketNeedNewList,
				Severity: severityForUrgency(urgency),
				Urgency:  urgency,
				Reason: fmt.Sprintf("only %d uncontacted leads left (warning floor %d, critical floor %d)",
					m.Uncontacted, b.LowLeadsWarning, b.LowLeadsCritical),
				RecommendedAction: "Upload a new lead list before the campaign runs dry",
			}
		},
	},
	{
		name: "conversion below target",
		when: func(m MetricsSnapshot, b Benchmarks) bool {
			return m.ReplyRate >= b.MinReplyRate && m.ConversionRate < b.TargetConversion
		},
		outcome: func(m MetricsSnapshot, b Benchmarks) ClassificationResult {
			if m.PositiveReplies > b.SubsequenceFloor && m.Opportunities == 0 {
				return ClassificationResult{
					Bucket:   BucketReview,
					Severity: SeverityCritical,
					Urgency:  UrgencyUrgent,
					Reason: fmt.Sprintf("%d positive replies but zero meetings booked; the follow-up subsequence looks broken",
						m.PositiveReplies),
					RecommendedAction: "Check the reply-handling subsequence end to end; interested leads are being dropped",
					BenchmarkNote:     fmt.Sprintf("conversion target: %.1f%%", b.TargetConversion),
				}
			}
			return ClassificationResult{
				Bucket:   BucketReview,
				Severity: SeverityMedium,
				Urgency:  UrgencyMedium,
				Reason: fmt.Sprintf("replies are healthy (%.2f%%) but conversion %.1f%% is below the %.1f%% target",
					m.ReplyRate, m.ConversionRate, b.TargetConversion),
				RecommendedAction: "Review how positive replies are worked; the top of the funnel is fine",
				BenchmarkNote:     fmt.Sprintf("conversion target: %.1f%%", b.TargetConversion),
			}
		},
	},
	{
		name: "healthy",
		when: func(m MetricsSnapshot, b Benchmarks) bool {
			return true
		},
		outcome: func(m MetricsSnapshot, b Benchmarks) ClassificationResult {
			return ClassificationResult{
				Bucket:   BucketNoAction,
				Severity: SeverityLow,
				Urgency:  UrgencyLow,
				Reason: fmt.Sprintf("reply rate %.2f%% and conversion %.1f%% are both on target",
					m.ReplyRate, m.ConversionRate),
				RecommendedAction: "Keep the campaign running as is",
			}
		},
	},
}

// severityForUrgency maps urgency onto the coarser severity scale
func severityForUrgency(u Urgency) Severity {
	switch u {
	case UrgencyUrgent:
		return SeverityCritical
	case UrgencyHigh:
		return SeverityHigh
	case UrgencyMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ClassifyCampaign assigns exactly one bucket to a campaign snapshot.
// Deterministic: the same snapshot and benchmarks always yield the same result.
func ClassifyCampaign(m MetricsSnapshot, b Benchmarks) ClassificationResult {
	for _, rule := range campaignRules {
		if rule.when(m, b) {
			result := rule.outcome(m, b)
			result.EntityID = m.EntityID
			result.EntityName = m.EntityName
			result.Metrics = m
			result.AutoTask = campaignTaskSpec(result)
			return result
		}
	}
	// Unreachable: the last rule always matches
	panic("campaign rule chain has no catch-all")
}

// campaignTaskSpec builds the auto-task template for actionable buckets.
// Healthy and not-yet-judgeable campaigns generate no task.
func campaignTaskSpec(r ClassificationResult) *TaskSpec {
	switch r.Bucket {
	case BucketNeedNewList:
		return &TaskSpec{
			Title:       fmt.Sprintf("Upload new leads for %s", r.EntityName),
			Description: r.Reason,
			Category:    "leads",
		}
	case BucketNotPriority:
		return &TaskSpec{
			Title:       fmt.Sprintf("Pause and rework %s", r.EntityName),
			Description: r.Reason,
			Category:    "viability",
		}
	case BucketReview:
		return &TaskSpec{
			Title:       fmt.Sprintf("Review reply handling for %s", r.EntityName),
			Description: r.Reason,
			Category:    "conversion",
		}
	default:
		return nil
	}
}

// campaignBucketPriority drives the primary sort key for batch reports.
// Most actionable buckets first.
var campaignBucketPriority = map[Bucket]int{
	BucketNeedNewList: 0,
	BucketNotPriority: 1,
	BucketReview:      2,
	BucketNoAction:    3,
	BucketPending:     4,
}

// SortClassifications orders a batch by bucket priority, then urgency, then
// ascending uncontacted-lead count (most starved first). The three keys make
// the order total for any input batch.
func SortClassifications(batch []ClassificationResult) {
	sort.SliceStable(batch, func(i, j int) bool {
		pi, pj := campaignBucketPriority[batch[i].Bucket], campaignBucketPriority[batch[j].Bucket]
		if pi != pj {
			return pi < pj
		}
		if batch[i].Urgency.Rank() != batch[j].Urgency.Rank() {
			return batch[i].Urgency.Rank() < batch[j].Urgency.Rank()
		}
		return batch[i].Metrics.Uncontacted < batch[j].Metrics.Uncontacted
	})
}
