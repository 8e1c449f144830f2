package dashboard

import (
	"math"
	"sort"

	"jiradash/internal/api"
)

// Percentage returns part as a share of whole, rounded to one decimal place,
// or 0 when whole is not positive. Every breakdown in the UI goes through
// this one formula so rounding stays consistent.
func Percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

// StatRow is one display row of a statistics breakdown.
type StatRow struct {
	Label   string
	Count   int
	Percent float64
}

// StatusRows returns the open / in progress / resolved buckets against the
// total issue count. The sums are server-trusted and not cross-checked.
func StatusRows(stats api.ProjectStatistics) []StatRow {
	return []StatRow{
		{Label: "Open", Count: stats.OpenIssues, Percent: Percentage(stats.OpenIssues, stats.TotalIssues)},
		{Label: "In Progress", Count: stats.InProgressIssues, Percent: Percentage(stats.InProgressIssues, stats.TotalIssues)},
		{Label: "Resolved", Count: stats.ResolvedIssues, Percent: Percentage(stats.ResolvedIssues, stats.TotalIssues)},
	}
}

// PriorityRows returns the by-priority breakdown in sorted label order.
func PriorityRows(stats api.ProjectStatistics) []StatRow {
	return breakdownRows(stats.ByPriority, stats.TotalIssues)
}

// TypeRows returns the by-type breakdown in sorted label order.
func TypeRows(stats api.ProjectStatistics) []StatRow {
	return breakdownRows(stats.ByType, stats.TotalIssues)
}

func breakdownRows(counts map[string]int, total int) []StatRow {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([]StatRow, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, StatRow{
			Label:   label,
			Count:   counts[label],
			Percent: Percentage(counts[label], total),
		})
	}
	return rows
}
