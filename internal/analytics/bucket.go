package analytics

import (
	"fmt"

	"github.com/mmynk/splitbill/internal/models"
)

// Granularity names a time bucket size. Its value is reported to clients as
// the summary's timeFormat.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// Key returns the bucket key of d. Keys of one granularity sort
// lexicographically in chronological order.
func (g Granularity) Key(d models.Date) string {
	switch g {
	case Day:
		return DayKey(d)
	case Month:
		return MonthKey(d)
	default:
		return ISOWeekKey(d)
	}
}

// DayKey formats d as YYYY-MM-DD.
func DayKey(d models.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), int(d.Month()), d.Day())
}

// ISOWeekKey formats d as its ISO 8601 week, e.g. 2024-W05. The year is the
// ISO week-numbering year, which differs from the calendar year around
// January 1st.
func ISOWeekKey(d models.Date) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey formats d as YYYY-MM.
func MonthKey(d models.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}
