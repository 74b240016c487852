package analytics

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbill/internal/models"
)

func bill(date, category string, amount int64) models.Bill {
	return models.Bill{
		UserID:      1,
		Category:    category,
		TotalAmount: decimal.NewFromInt(amount),
		Date:        models.MustParseDate(date),
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{in: "", want: WindowMonth},
		{in: "week", want: WindowWeek},
		{in: "month", want: WindowMonth},
		{in: "year", want: WindowYear},
		{in: "day", wantErr: true},
		{in: "Week", wantErr: true},
		{in: "all", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLowerBound(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		today  string
		want   string
	}{
		{"week", WindowWeek, "2024-03-04", "2024-02-26"},
		{"month", WindowMonth, "2024-03-15", "2024-02-15"},
		{"month clamps to leap day", WindowMonth, "2024-03-31", "2024-02-29"},
		{"month clamps in common year", WindowMonth, "2023-03-31", "2023-02-28"},
		{"year", WindowYear, "2024-06-01", "2023-06-01"},
		{"year from leap day", WindowYear, "2024-02-29", "2023-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.window.LowerBound(models.MustParseDate(tt.today))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBucketKeys(t *testing.T) {
	tests := []struct {
		date  string
		day   string
		week  string
		month string
	}{
		{"2024-01-05", "2024-01-05", "2024-W01", "2024-01"},
		{"2024-02-10", "2024-02-10", "2024-W06", "2024-02"},
		{"2021-01-03", "2021-01-03", "2020-W53", "2021-01"},
		{"2024-12-30", "2024-12-30", "2025-W01", "2024-12"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := models.MustParseDate(tt.date)
			assert.Equal(t, tt.day, DayKey(d))
			assert.Equal(t, tt.week, ISOWeekKey(d))
			assert.Equal(t, tt.month, MonthKey(d))

			assert.Equal(t, tt.day, Day.Key(d))
			assert.Equal(t, tt.week, Week.Key(d))
			assert.Equal(t, tt.month, Month.Key(d))
		})
	}
}

func TestGranularity(t *testing.T) {
	assert.Equal(t, Day, WindowWeek.Granularity())
	assert.Equal(t, Week, WindowMonth.Granularity())
	assert.Equal(t, Month, WindowYear.Granularity())
}

func TestSummarizeYear(t *testing.T) {
	bills := []models.Bill{
		bill("2024-01-05", "food", 10),
		bill("2024-02-10", "food", 20),
	}

	summary := Summarize(WindowYear, models.MustParseDate("2024-06-01"), bills)

	require.Len(t, summary.CategoryTotals, 1)
	assert.Equal(t, "food", summary.CategoryTotals[0].Category)
	assert.True(t, decimal.NewFromInt(30).Equal(summary.CategoryTotals[0].Total))

	require.Len(t, summary.TimeBasedSpending, 2)
	assert.Equal(t, "2024-01", summary.TimeBasedSpending[0].Period)
	assert.True(t, decimal.NewFromInt(10).Equal(summary.TimeBasedSpending[0].Amount))
	assert.Equal(t, "2024-02", summary.TimeBasedSpending[1].Period)
	assert.True(t, decimal.NewFromInt(20).Equal(summary.TimeBasedSpending[1].Amount))

	assert.Equal(t, Month, summary.TimeFormat)
	assert.Equal(t, WindowYear, summary.ActiveFilter)
}

func TestSummarizeWindowAndOrdering(t *testing.T) {
	bills := []models.Bill{
		bill("2024-02-01", "travel", 500),
		bill("2024-02-26", "travel", 40),
		bill("2024-03-01", "food", 12),
		bill("2024-03-01", "bills", 3),
		bill("2024-02-28", "food", 5),
	}

	summary := Summarize(WindowWeek, models.MustParseDate("2024-03-04"), bills)

	var categories []string
	for _, c := range summary.CategoryTotals {
		categories = append(categories, c.Category)
	}
	assert.Equal(t, []string{"bills", "food", "travel"}, categories)
	assert.True(t, decimal.NewFromInt(17).Equal(summary.CategoryTotals[1].Total))
	assert.True(t, decimal.NewFromInt(40).Equal(summary.CategoryTotals[2].Total), "bill before the bound is excluded")

	var periods []string
	for _, p := range summary.TimeBasedSpending {
		periods = append(periods, p.Period)
	}
	assert.Equal(t, []string{"2024-02-26", "2024-02-28", "2024-03-01"}, periods)
	assert.True(t, decimal.NewFromInt(15).Equal(summary.TimeBasedSpending[2].Amount))
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(DefaultWindow, models.MustParseDate("2024-03-04"), nil)

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"categoryTotals":[],"timeBasedSpending":[],"timeFormat":"week","activeFilter":"month"}`, string(data))
}

func TestSummarizeDecimalAmounts(t *testing.T) {
	bills := []models.Bill{
		{Category: "food", TotalAmount: decimal.RequireFromString("0.1"), Date: models.MustParseDate("2024-03-01")},
		{Category: "food", TotalAmount: decimal.RequireFromString("0.2"), Date: models.MustParseDate("2024-03-02")},
	}

	summary := Summarize(WindowMonth, models.MustParseDate("2024-03-04"), bills)

	require.Len(t, summary.CategoryTotals, 1)
	assert.Equal(t, "0.3", summary.CategoryTotals[0].Total.String())
}
