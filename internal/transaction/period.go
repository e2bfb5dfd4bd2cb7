package transaction

import (
	"strings"
	"time"
)

// Period selects the aggregation window used by the dashboard and summaries.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod matches s case-insensitively. Anything unrecognised is monthly.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeekly, PeriodYearly:
		return p
	}

	return PeriodMonthly
}

// Window is a half-open [Start, End) range of UTC instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor computes the window of p around the UTC calendar date of today.
// Only the date part of today is used.
func WindowFor(p Period, today time.Time) Window {
	today = today.UTC()
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodWeekly:
		return Window{Start: day.AddDate(0, 0, -7), End: day.AddDate(0, 0, 1)}
	case PeriodYearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(1, 0, 0)}
	}

	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)

	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}
