package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/models"
)

// CategoryTotal is the sum of bill totals in one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// PeriodAmount is the sum of bill totals in one time bucket.
type PeriodAmount struct {
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the analytics response for one user and window.
type Summary struct {
	CategoryTotals    []CategoryTotal `json:"categoryTotals"`
	TimeBasedSpending []PeriodAmount  `json:"timeBasedSpending"`
	TimeFormat        Granularity     `json:"timeFormat"`
	ActiveFilter      Window          `json:"activeFilter"`
}

// Summarize aggregates bills into category and time-bucket totals for the
// window ending at today. Bills dated before the window's lower bound are
// ignored. Categories and periods are returned in ascending order.
func Summarize(w Window, today models.Date, bills []models.Bill) *Summary {
	since := w.LowerBound(today)
	granularity := w.Granularity()

	byCategory := make(map[string]decimal.Decimal)
	byPeriod := make(map[string]decimal.Decimal)

	for _, bill := range bills {
		if bill.Date.Before(since) {
			continue
		}
		byCategory[bill.Category] = byCategory[bill.Category].Add(bill.TotalAmount)

		period := granularity.Key(bill.Date)
		byPeriod[period] = byPeriod[period].Add(bill.TotalAmount)
	}

	summary := &Summary{
		CategoryTotals:    make([]CategoryTotal, 0, len(byCategory)),
		TimeBasedSpending: make([]PeriodAmount, 0, len(byPeriod)),
		TimeFormat:        granularity,
		ActiveFilter:      w,
	}
	for category, total := range byCategory {
		summary.CategoryTotals = append(summary.CategoryTotals, CategoryTotal{Category: category, Total: total})
	}
	for period, amount := range byPeriod {
		summary.TimeBasedSpending = append(summary.TimeBasedSpending, PeriodAmount{Period: period, Amount: amount})
	}

	sort.Slice(summary.CategoryTotals, func(i, j int) bool {
		return summary.CategoryTotals[i].Category < summary.CategoryTotals[j].Category
	})
	sort.Slice(summary.TimeBasedSpending, func(i, j int) bool {
		return summary.TimeBasedSpending[i].Period < summary.TimeBasedSpending[j].Period
	})

	return summary
}
