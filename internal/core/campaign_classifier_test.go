package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(name string, sent, contacted, uncontacted, replies, positive, opps int) MetricsSnapshot {
	m := MetricsSnapshot{
		EntityID:        "id-" + name,
		EntityName:      name,
		Sent:            sent,
		Contacted:       contacted,
		Uncontacted:     uncontacted,
		Replies:         replies,
		PositiveReplies: positive,
		Opportunities:   opps,
	}
	m.ComputeRates()
	return m
}

func TestClassifyCampaign(t *testing.T) {
	b := DefaultBenchmarks()

	tests := []struct {
		name     string
		metrics  MetricsSnapshot
		bucket   Bucket
		severity Severity
		urgency  Urgency
	}{
		{
			name:     "below data threshold is pending",
			metrics:  snapshot("new", 500, 480, 9000, 6, 1, 0),
			bucket:   BucketPending,
			severity: SeverityLow,
			urgency:  UrgencyLow,
		},
		{
			name:     "heavily contacted with no opportunities is not viable",
			metrics:  snapshot("dud", 6000, 5200, 4000, 80, 10, 1),
			bucket:   BucketNotPriority,
			severity: SeverityHigh,
			urgency:  UrgencyHigh,
		},
		{
			name:     "reply rate below floor is not a priority",
			metrics:  snapshot("silent", 3000, 2900, 4000, 10, 2, 3),
			bucket:   BucketNotPriority,
			severity: SeverityHigh,
			urgency:  UrgencyHigh,
		},
		{
			name:     "low uncontacted warns about runway",
			metrics:  snapshot("drying", 12000, 11000, 1500, 300, 80, 25),
			bucket:   BucketNeedNewList,
			severity: SeverityHigh,
			urgency:  UrgencyHigh,
		},
		{
			name:     "critically low uncontacted is urgent",
			metrics:  snapshot("dry", 50000, 49000, 500, 600, 150, 40),
			bucket:   BucketNeedNewList,
			severity: SeverityCritical,
			urgency:  UrgencyUrgent,
		},
		{
			name:     "conversion below target needs review",
			metrics:  snapshot("leaky", 8000, 7600, 5000, 200, 50, 5),
			bucket:   BucketReview,
			severity: SeverityMedium,
			urgency:  UrgencyMedium,
		},
		{
			name:     "on-target campaign needs no action",
			metrics:  snapshot("healthy", 12000, 4800, 5000, 300, 80, 24),
			bucket:   BucketNoAction,
			severity: SeverityLow,
			urgency:  UrgencyLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyCampaign(tt.metrics, b)
			assert.Equal(t, tt.bucket, result.Bucket)
			assert.Equal(t, tt.severity, result.Severity)
			assert.Equal(t, tt.urgency, result.Urgency)
			assert.Equal(t, tt.metrics.EntityName, result.EntityName)
			assert.NotEmpty(t, result.Reason)
			assert.NotEmpty(t, result.RecommendedAction)
		})
	}
}

func TestClassifyCampaignBrokenSubsequence(t *testing.T) {
	b := DefaultBenchmarks()

	// Plenty of interested replies, zero meetings booked
	m := snapshot("stuck", 4000, 3800, 6000, 120, 15, 0)
	result := ClassifyCampaign(m, b)

	require.Equal(t, BucketReview, result.Bucket)
	assert.Equal(t, SeverityCritical, result.Severity)
	assert.Equal(t, UrgencyUrgent, result.Urgency)
	assert.Contains(t, result.Reason, "subsequence looks broken")
}

func TestClassifyCampaignDeterministic(t *testing.T) {
	b := DefaultBenchmarks()
	m := snapshot("repeat", 12000, 11000, 1500, 300, 80, 25)

	first := ClassifyCampaign(m, b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyCampaign(m, b))
	}
}

func TestClassifyCampaignZeroSnapshot(t *testing.T) {
	// An entity with no analytics yet must land in pending, not error out
	result := ClassifyCampaign(MetricsSnapshot{EntityName: "empty"}, DefaultBenchmarks())
	assert.Equal(t, BucketPending, result.Bucket)
	assert.Nil(t, result.AutoTask)
}

func TestCampaignTaskSpecByBucket(t *testing.T) {
	b := DefaultBenchmarks()

	withTask := ClassifyCampaign(snapshot("dry", 50000, 49000, 500, 600, 150, 40), b)
	require.NotNil(t, withTask.AutoTask)
	assert.Equal(t, "leads", withTask.AutoTask.Category)
	assert.Contains(t, withTask.AutoTask.Title, "dry")

	healthy := ClassifyCampaign(snapshot("healthy", 12000, 4800, 5000, 300, 80, 24), b)
	assert.Nil(t, healthy.AutoTask)
}

func TestSortClassifications(t *testing.T) {
	b := DefaultBenchmarks()
	batch := []ClassificationResult{
		ClassifyCampaign(snapshot("healthy", 12000, 4800, 5000, 300, 80, 24), b),
		ClassifyCampaign(snapshot("new", 500, 480, 9000, 6, 1, 0), b),
		ClassifyCampaign(snapshot("drying", 12000, 11000, 1500, 300, 80, 25), b),
		ClassifyCampaign(snapshot("dry", 50000, 49000, 500, 600, 150, 40), b),
		ClassifyCampaign(snapshot("dud", 6000, 5200, 4000, 80, 10, 1), b),
	}

	SortClassifications(batch)

	got := make([]string, len(batch))
	for i, r := range batch {
		got[i] = r.EntityName
	}
	// Starved campaigns first (most urgent first), pending last
	assert.Equal(t, []string{"dry", "drying", "dud", "healthy", "new"}, got)
}

func TestSortClassificationsTotalOrder(t *testing.T) {
	b := DefaultBenchmarks()
	batch := []ClassificationResult{
		ClassifyCampaign(snapshot("b", 12000, 11000, 900, 300, 80, 25), b),
		ClassifyCampaign(snapshot("a", 12000, 11000, 400, 300, 80, 25), b),
	}

	// Same bucket and urgency: fewer uncontacted leads sorts first
	SortClassifications(batch)
	assert.Equal(t, "a", batch[0].EntityName)
	assert.Equal(t, "b", batch[1].EntityName)
}
