package civil

import (
	"errors"
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// ErrCrossesMidnight indicates a time-of-day addition would pass the end of
// the day. Tasks never span midnight; callers must reject such inputs.
var ErrCrossesMidnight = errors.New("civil: result crosses midnight")

// ErrNegativeInterval indicates an interval whose end precedes its start.
var ErrNegativeInterval = errors.New("civil: end precedes start")

// Date is a plain calendar date without a time zone. Using a dedicated value
// type keeps day arithmetic free of the off-by-one errors that timestamp
// truncation introduces across zone boundaries.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's location. It is the only
// sanctioned conversion from a timestamp; core code never holds time.Time.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("civil: invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// IsValid reports whether the date names a real calendar day.
func (d Date) IsValid() bool {
	return d == DateOf(d.midnightUTC())
}

func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.midnightUTC().Weekday()
}

// AddDays returns the date n days after d. Negative n moves backwards.
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to other. Negative when other
// precedes d.
func (d Date) DaysUntil(other Date) int {
	return int(other.midnightUTC().Sub(d.midnightUTC()) / (24 * time.Hour))
}

// Compare orders two dates: -1 when d precedes other, 0 when equal, 1 after.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return compareInt(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInt(int(d.Month), int(other.Month))
	default:
		return compareInt(d.Day, other.Day)
	}
}

// Before reports whether d precedes other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d follows other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// TimeOfDay is a clock time expressed as seconds since midnight, in the range
// [0, 86400).
type TimeOfDay int

// TimeOfDayAt builds a TimeOfDay from clock components.
func TimeOfDayAt(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDayAt(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("civil: invalid time of day %q", value)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 3600 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return (int(t) % 3600) / 60 }

// Second returns the second component.
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Minutes returns whole minutes since midnight, truncated. Interval overlap
// and working-hours checks compare at this granularity.
func (t TimeOfDay) Minutes() int { return int(t) / 60 }

// String renders the time as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Short renders the time as HH:MM, dropping seconds.
func (t TimeOfDay) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// IsValid reports whether the value lies within a single day.
func (t TimeOfDay) IsValid() bool {
	return t >= 0 && int(t) < secondsPerDay
}

// AddSeconds advances a time of day. The result must stay strictly within the
// same day; additions that reach or pass midnight fail with ErrCrossesMidnight.
func AddSeconds(t TimeOfDay, seconds int) (TimeOfDay, error) {
	total := int(t) + seconds
	if total < 0 || total >= secondsPerDay {
		return 0, ErrCrossesMidnight
	}
	return TimeOfDay(total), nil
}

// DiffMinutes returns the whole minutes between start and end on the same
// notional day, truncated toward zero at the second level. end must not
// precede start.
func DiffMinutes(start, end TimeOfDay) (int, error) {
	if end < start {
		return 0, ErrNegativeInterval
	}
	return (int(end) - int(start)) / 60, nil
}

// FormatDuration renders a duration in seconds as "{h}h {mm}min {ss}s" with
// hours unpadded and minutes and seconds zero-padded to two digits. Negative
// inputs clamp to zero.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %02dmin %02ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
