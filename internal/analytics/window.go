// Package analytics computes spend summaries over a user's bills: totals per
// category and totals per time bucket inside a trailing window.
package analytics

import (
	"errors"
	"fmt"

	"github.com/mmynk/splitbill/internal/models"
)

// ErrInvalidWindow is returned by ParseWindow for unknown selectors.
var ErrInvalidWindow = errors.New("activeFilter must be one of week, month, year")

// Window selects how far back a summary reaches and how it is bucketed.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"

	// DefaultWindow applies when no selector is given.
	DefaultWindow = WindowMonth
)

// ParseWindow validates a selector. The empty string yields DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case "":
		return DefaultWindow, nil
	case WindowWeek, WindowMonth, WindowYear:
		return w, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidWindow, s)
	}
}

// LowerBound is the earliest date inside the window ending at today.
// Month and year steps are calendar steps clamped to the end of the target
// month.
func (w Window) LowerBound(today models.Date) models.Date {
	switch w {
	case WindowWeek:
		return today.AddDays(-7)
	case WindowYear:
		return today.AddYears(-1)
	default:
		return today.AddMonths(-1)
	}
}

// Granularity is the bucket size used for this window.
func (w Window) Granularity() Granularity {
	switch w {
	case WindowWeek:
		return Day
	case WindowYear:
		return Month
	default:
		return Week
	}
}
