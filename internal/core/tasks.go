package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// taskNamespace seeds the deterministic task IDs. The same entity, bucket and
// day always produce the same ID, so re-generating on the same day never
// duplicates a task.
var taskNamespace = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

// TaskID returns the stable identity for a task derived from one
// classification on one calendar day
func TaskID(entityName string, bucket Bucket, day time.Time) string {
	seed := fmt.Sprintf("%s|%s|%s", entityName, bucket, day.Format("2006-01-02"))
	return uuid.NewSHA1(taskNamespace, []byte(seed)).String()
}

// dueDate is a pure function of severity: critical tomorrow, high in two
// days, medium in five, low at end of week.
func dueDate(day time.Time, severity Severity) time.Time {
	switch severity {
	case SeverityCritical:
		return day.AddDate(0, 0, 1)
	case SeverityHigh:
		return day.AddDate(0, 0, 2)
	case SeverityMedium:
		return day.AddDate(0, 0, 5)
	default:
		return endOfWeek(day)
	}
}

// endOfWeek returns the upcoming Sunday at end of day
func endOfWeek(day time.Time) time.Time {
	daysUntilSunday := (7 - int(day.Weekday())) % 7
	sunday := day.AddDate(0, 0, daysUntilSunday)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, day.Location())
}

// declineThreshold is the relative reply-rate drop that counts as a
// declining trend (20%)
const declineThreshold = 0.2

// GenerateTasks converts a batch of classifications plus the inbox summary
// and optional week-over-week trends into daily and weekly task lists, both
// sorted most severe first.
func GenerateTasks(day time.Time, results []ClassificationResult, inbox InboxHealthSummary, trends []TrendSample) TaskSet {
	var set TaskSet

	for _, r := range results {
		if r.Bucket == BucketPerformingWell || r.Bucket == BucketTooEarly {
			continue
		}
		if r.AutoTask == nil {
			continue
		}
		set.Daily = append(set.Daily, AutoTask{
			ID:          TaskID(r.EntityName, r.Bucket, day),
			Horizon:     HorizonDaily,
			Bucket:      r.Bucket,
			Severity:    r.Severity,
			EntityName:  r.EntityName,
			Title:       r.AutoTask.Title,
			Description: r.AutoTask.Description,
			DueDate:     dueDate(day, r.Severity),
		})
	}

	set.Weekly = weeklyTasks(day, results, inbox, trends)

	sortTasks(set.Daily)
	sortTasks(set.Weekly)
	return set
}

// weeklyTasks builds the aggregate weekly summaries
func weeklyTasks(day time.Time, results []ClassificationResult, inbox InboxHealthSummary, trends []TrendSample) []AutoTask {
	var tasks []AutoTask
	due := endOfWeek(day)

	add := func(key string, severity Severity, title, description string) {
		tasks = append(tasks, AutoTask{
			ID:          TaskID(key, Bucket("WEEKLY"), day),
			Horizon:     HorizonWeekly,
			Bucket:      Bucket("WEEKLY"),
			Severity:    severity,
			EntityName:  key,
			Title:       title,
			Description: description,
			DueDate:     due,
		})
	}

	var shortfall, subTarget int
	for _, r := range results {
		switch r.Bucket {
		case BucketCopyIssue, BucketNotPriority, BucketNotViable:
			shortfall++
		case BucketSubsequenceIssue, BucketReview:
			subTarget++
		}
	}

	if shortfall > 0 {
		add("benchmark-shortfall", SeverityHigh,
			fmt.Sprintf("Review %d entities below benchmark", shortfall),
			fmt.Sprintf("%d campaigns or clients are below the reply-rate or viability benchmarks this week", shortfall))
	}
	if subTarget > 0 {
		add("conversion-shortfall", SeverityMedium,
			fmt.Sprintf("Work conversion on %d entities", subTarget),
			fmt.Sprintf("%d campaigns or clients convert positive replies below target", subTarget))
	}
	if inbox.Disconnected+inbox.LowHealth+inbox.ErrorState > 0 {
		severity := SeverityMedium
		if inbox.Disconnected > 0 {
			severity = SeverityHigh
		}
		add("inbox-health", severity,
			"Clean up inbox health",
			fmt.Sprintf("%d disconnected, %d low-health and %d erroring inboxes out of %d",
				inbox.Disconnected, inbox.LowHealth, inbox.ErrorState, inbox.TotalAccounts))
	}

	declining := 0
	for _, t := range trends {
		if t.PreviousReplyRate > 0 && (t.PreviousReplyRate-t.CurrentReplyRate)/t.PreviousReplyRate > declineThreshold {
			declining++
		}
	}
	if declining > 0 {
		add("declining-trend", SeverityMedium,
			fmt.Sprintf("Investigate %d declining campaigns", declining),
			fmt.Sprintf("%d entities lost more than %.0f%% of their reply rate week over week",
				declining, declineThreshold*100))
	}

	healthy := 0
	for _, r := range results {
		if r.Bucket == BucketPerformingWell || r.Bucket == BucketNoAction {
			healthy++
		}
	}
	add("portfolio-health", SeverityLow,
		"Weekly portfolio review",
		fmt.Sprintf("%d of %d entities are healthy; review the rest in the weekly call", healthy, len(results)))

	return tasks
}

// sortTasks orders tasks most severe first; ties keep input order
func sortTasks(tasks []AutoTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Severity.Rank() < tasks[j].Severity.Rank()
	})
}
