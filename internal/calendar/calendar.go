// Package calendar holds the pure date math behind deadline generation:
// calendar-day and business-day offsets, due-status classification, and the
// urgency tiers shared by deadline and SOL views. All dates are civil
// calendar dates normalized to UTC midnight; there is no timezone handling.
package calendar

import (
	"time"

	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/types"
)

const dateLayout = "2006-01-02"

// HolidayFunc reports whether a date is a court holiday. Business-day
// stepping treats holidays like weekends. No holiday calendar ships with the
// engine; jurisdictional tables plug in here.
type HolidayFunc func(time.Time) bool

// Normalize truncates a time to its civil date at UTC midnight.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Normalize(t), nil
}

// FormatDate renders a date for the wire.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AddOffset computes the date offsetDays away from base. Calendar days add
// directly. Business days step one day at a time in the sign direction of
// offsetDays, counting only Monday-Friday; a zero offset returns base
// unchanged even if it falls on a weekend, since the trigger itself is never
// skipped.
func AddOffset(base time.Time, offsetDays int, offsetType string) (time.Time, error) {
	return AddOffsetWithHolidays(base, offsetDays, offsetType, nil)
}

// AddOffsetWithHolidays is AddOffset with a pluggable holiday predicate.
// A nil predicate skips weekends only.
func AddOffsetWithHolidays(base time.Time, offsetDays int, offsetType string, isHoliday HolidayFunc) (time.Time, error) {
	base = Normalize(base)

	switch offsetType {
	case types.OffsetCalendarDays:
		return base.AddDate(0, 0, offsetDays), nil
	case types.OffsetBusinessDays:
		return addBusinessDays(base, offsetDays, isHoliday), nil
	default:
		return time.Time{}, apperrors.Validation("unknown offset type %q", offsetType)
	}
}

func addBusinessDays(base time.Time, offsetDays int, isHoliday HolidayFunc) time.Time {
	if offsetDays == 0 {
		return base
	}

	step := 1
	if offsetDays < 0 {
		step = -1
		offsetDays = -offsetDays
	}

	date := base
	for taken := 0; taken < offsetDays; {
		date = date.AddDate(0, 0, step)
		if isBusinessDay(date, isHoliday) {
			taken++
		}
	}

	return date
}

func isBusinessDay(t time.Time, isHoliday HolidayFunc) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if isHoliday != nil && isHoliday(t) {
		return false
	}
	return true
}

// DaysUntil returns the signed number of calendar days from today until date.
func DaysUntil(date, today time.Time) int {
	return int(Normalize(date).Sub(Normalize(today)).Hours() / 24)
}

// DueStatus classifies a deadline date against today: before today is past
// due, today is due today, anything later is upcoming.
func DueStatus(date, today time.Time) string {
	switch days := DaysUntil(date, today); {
	case days < 0:
		return types.DueStatusPastDue
	case days == 0:
		return types.DueStatusDueToday
	default:
		return types.DueStatusUpcoming
	}
}
