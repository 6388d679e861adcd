package calendar

import (
	"testing"
	"time"

	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddOffsetCalendarDays(t *testing.T) {
	tests := []struct {
		name   string
		base   time.Time
		offset int
		want   time.Time
	}{
		{"forward 21 days", date(2024, time.January, 1), 21, date(2024, time.January, 22)},
		{"backward 14 days", date(2024, time.March, 1), -14, date(2024, time.February, 16)},
		{"zero offset", date(2024, time.June, 15), 0, date(2024, time.June, 15)},
		{"across month boundary", date(2024, time.January, 25), 10, date(2024, time.February, 4)},
		{"leap day", date(2024, time.February, 28), 1, date(2024, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddOffset(tt.base, tt.offset, types.OffsetCalendarDays)
			if err != nil {
				t.Fatalf("AddOffset() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("AddOffset(%v, %d) = %v, want %v", tt.base, tt.offset, got, tt.want)
			}
		})
	}
}

func TestAddOffsetBusinessDays(t *testing.T) {
	// 2024-03-01 is a Friday.
	friday := date(2024, time.March, 1)
	monday := date(2024, time.March, 4)
	saturday := date(2024, time.March, 2)

	tests := []struct {
		name   string
		base   time.Time
		offset int
		want   time.Time
	}{
		{"friday plus one skips weekend", friday, 1, monday},
		{"monday minus one skips weekend", monday, -1, friday},
		{"five business days is one week", monday, 5, date(2024, time.March, 11)},
		{"backward five business days", date(2024, time.March, 11), -5, monday},
		{"zero offset on weekend is unchanged", saturday, 0, saturday},
		{"weekend base steps to business days only", saturday, 1, monday},
		{"ten business days spans two weekends", friday, 10, date(2024, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddOffset(tt.base, tt.offset, types.OffsetBusinessDays)
			if err != nil {
				t.Fatalf("AddOffset() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("AddOffset(%v, %d) = %v, want %v", tt.base, tt.offset, got, tt.want)
			}
			if got.Weekday() == time.Saturday || got.Weekday() == time.Sunday {
				if tt.offset != 0 {
					t.Errorf("AddOffset landed on a weekend: %v", got.Weekday())
				}
			}
		})
	}
}

func TestAddOffsetWithHolidays(t *testing.T) {
	// 2024-03-01 is a Friday; treat the following Monday as a holiday.
	friday := date(2024, time.March, 1)
	holiday := date(2024, time.March, 4)

	isHoliday := func(d time.Time) bool { return d.Equal(holiday) }

	got, err := AddOffsetWithHolidays(friday, 1, types.OffsetBusinessDays, isHoliday)
	if err != nil {
		t.Fatalf("AddOffsetWithHolidays() error = %v", err)
	}

	want := date(2024, time.March, 5)
	if !got.Equal(want) {
		t.Errorf("AddOffsetWithHolidays() = %v, want %v", got, want)
	}
}

func TestAddOffsetUnknownType(t *testing.T) {
	_, err := AddOffset(date(2024, time.March, 1), 1, "court_days")

	if err == nil {
		t.Fatal("AddOffset() expected error for unknown offset type")
	}

	if !apperrors.IsValidation(err) {
		t.Errorf("AddOffset() error = %T, want ValidationError", err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-22")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}

	if !got.Equal(date(2024, time.January, 22)) {
		t.Errorf("ParseDate() = %v", got)
	}

	if _, err := ParseDate("01/22/2024"); !apperrors.IsValidation(err) {
		t.Errorf("ParseDate() error = %v, want ValidationError", err)
	}
}

func TestDueStatus(t *testing.T) {
	today := date(2024, time.June, 15)

	tests := []struct {
		name string
		d    time.Time
		want string
	}{
		{"yesterday is past due", date(2024, time.June, 14), types.DueStatusPastDue},
		{"today is due today", today, types.DueStatusDueToday},
		{"tomorrow is upcoming", date(2024, time.June, 16), types.DueStatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueStatus(tt.d, today); got != tt.want {
				t.Errorf("DueStatus(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	today := date(2024, time.June, 15)

	if got := DaysUntil(date(2024, time.July, 15), today); got != 30 {
		t.Errorf("DaysUntil() = %d, want 30", got)
	}

	if got := DaysUntil(date(2024, time.June, 10), today); got != -5 {
		t.Errorf("DaysUntil() = %d, want -5", got)
	}
}
