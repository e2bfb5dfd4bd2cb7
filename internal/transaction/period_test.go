package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

func TestParsePeriod(t *testing.T) {
	tests := map[string]transaction.Period{
		"weekly":  transaction.PeriodWeekly,
		"Weekly":  transaction.PeriodWeekly,
		"MONTHLY": transaction.PeriodMonthly,
		"yearly":  transaction.PeriodYearly,
		"":        transaction.PeriodMonthly,
		"daily":   transaction.PeriodMonthly,
	}

	for in, want := range tests {
		assert.Equal(t, want, transaction.ParsePeriod(in), "input %q", in)
	}
}

func TestWindowFor(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	type testCase struct {
		name   string
		period transaction.Period
		today  time.Time
		want   transaction.Window
	}

	tests := []testCase{
		{
			name:   "Weekly",
			period: transaction.PeriodWeekly,
			today:  time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			want:   transaction.Window{Start: date(2026, 3, 3), End: date(2026, 3, 11)},
		},
		{
			name:   "WeeklyAcrossYear",
			period: transaction.PeriodWeekly,
			today:  time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC),
			want:   transaction.Window{Start: date(2025, 12, 26), End: date(2026, 1, 3)},
		},
		{
			name:   "MonthlyDecember",
			period: transaction.PeriodMonthly,
			today:  time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
			want:   transaction.Window{Start: date(2025, 12, 1), End: date(2026, 1, 1)},
		},
		{
			name:   "MonthlyLeapFebruary",
			period: transaction.PeriodMonthly,
			today:  time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC),
			want:   transaction.Window{Start: date(2028, 2, 1), End: date(2028, 3, 1)},
		},
		{
			name:   "Yearly",
			period: transaction.PeriodYearly,
			today:  time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
			want:   transaction.Window{Start: date(2026, 1, 1), End: date(2027, 1, 1)},
		},
		{
			name:   "UsesUTCDate",
			period: transaction.PeriodMonthly,
			// 2026-02-01 01:00 in UTC+3 is still January in UTC.
			today: time.Date(2026, 2, 1, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60)),
			want:  transaction.Window{Start: date(2026, 1, 1), End: date(2026, 2, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transaction.WindowFor(tt.period, tt.today)
			assert.True(t, tt.want.Start.Equal(got.Start), "start: want %s got %s", tt.want.Start, got.Start)
			assert.True(t, tt.want.End.Equal(got.End), "end: want %s got %s", tt.want.End, got.End)
		})
	}
}
