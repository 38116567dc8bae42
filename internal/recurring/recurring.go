// Package recurring computes the next occurrence of a recurring transaction.
package recurring

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketledger/pocketledger/internal/model"
)

// ErrInvalidInterval is returned for an interval outside the four known values.
var ErrInvalidInterval = errors.New("invalid recurring interval")

// Next returns the occurrence after date for interval.
//
// MONTHLY and YEARLY use calendar arithmetic and clamp to the last day of the
// target month: 2024-01-31 MONTHLY is 2024-02-29, 2024-02-29 YEARLY is
// 2025-02-28. The time of day and location of date are preserved.
func Next(date time.Time, interval model.RecurringInterval) (time.Time, error) {
	switch interval {
	case model.IntervalDaily:
		return date.AddDate(0, 0, 1), nil
	case model.IntervalWeekly:
		return date.AddDate(0, 0, 7), nil
	case model.IntervalMonthly:
		return addMonths(date, 1), nil
	case model.IntervalYearly:
		return addMonths(date, 12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInterval, interval)
	}
}

func addMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(n), 1, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
