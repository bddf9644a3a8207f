package civil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("accepts ISO dates", func(t *testing.T) {
		t.Parallel()

		date, err := ParseDate("2025-01-06")
		if err != nil {
			t.Fatalf("ParseDate returned error: %v", err)
		}
		if date != (Date{Year: 2025, Month: time.January, Day: 6}) {
			t.Fatalf("unexpected date: %+v", date)
		}
		if got := date.String(); got != "2025-01-06" {
			t.Fatalf("String() = %q", got)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()

		for _, value := range []string{"", "2025-13-01", "2025-02-30", "06/01/2025", "2025-1-6x"} {
			if _, err := ParseDate(value); err == nil {
				t.Errorf("ParseDate(%q) succeeded, want error", value)
			}
		}
	})
}

func TestDate_Ordering(t *testing.T) {
	t.Parallel()

	earlier := Date{Year: 2025, Month: time.March, Day: 1}
	later := Date{Year: 2025, Month: time.March, Day: 2}

	if !earlier.Before(later) {
		t.Fatalf("expected %v before %v", earlier, later)
	}
	if !later.After(earlier) {
		t.Fatalf("expected %v after %v", later, earlier)
	}
	if earlier.Compare(earlier) != 0 {
		t.Fatalf("expected equal dates to compare as 0")
	}
	if got := (Date{Year: 2024, Month: time.December, Day: 31}).Compare(earlier); got != -1 {
		t.Fatalf("year boundary comparison = %d, want -1", got)
	}
}

func TestDate_AddDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from Date
		days int
		want Date
	}{
		{"within month", Date{2025, time.January, 6}, 7, Date{2025, time.January, 13}},
		{"month boundary", Date{2025, time.January, 30}, 3, Date{2025, time.February, 2}},
		{"year boundary", Date{2024, time.December, 30}, 3, Date{2025, time.January, 2}},
		{"leap day", Date{2024, time.February, 28}, 1, Date{2024, time.February, 29}},
		{"backwards", Date{2025, time.March, 1}, -1, Date{2025, time.February, 28}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.from.AddDays(tc.days); got != tc.want {
				t.Fatalf("AddDays(%d) = %v, want %v", tc.days, got, tc.want)
			}
		})
	}
}

func TestDate_DaysUntil(t *testing.T) {
	t.Parallel()

	start := Date{Year: 2025, Month: time.January, Day: 6}
	if got := start.DaysUntil(Date{Year: 2025, Month: time.January, Day: 13}); got != 7 {
		t.Fatalf("DaysUntil = %d, want 7", got)
	}
	if got := start.DaysUntil(start.AddDays(-2)); got != -2 {
		t.Fatalf("DaysUntil backwards = %d, want -2", got)
	}
}

func TestDate_Weekday(t *testing.T) {
	t.Parallel()

	// 2025-01-06 is a Monday.
	date := Date{Year: 2025, Month: time.January, Day: 6}
	if got := date.Weekday(); got != time.Monday {
		t.Fatalf("Weekday = %v, want Monday", got)
	}
	if got := date.AddDays(5).Weekday(); got != time.Saturday {
		t.Fatalf("Weekday = %v, want Saturday", got)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    TimeOfDay
		wantErr bool
	}{
		{value: "09:30", want: TimeOfDayAt(9, 30, 0)},
		{value: "09:30:15", want: TimeOfDayAt(9, 30, 15)},
		{value: "00:00", want: 0},
		{value: "23:59:59", want: TimeOfDayAt(23, 59, 59)},
		{value: "24:00", wantErr: true},
		{value: "09:60", wantErr: true},
		{value: "nine thirty", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeOfDay(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q) succeeded, want error", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) returned error: %v", tc.value, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTimeOfDay(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestTimeOfDay_Rendering(t *testing.T) {
	t.Parallel()

	at := TimeOfDayAt(7, 5, 9)
	if got := at.String(); got != "07:05:09" {
		t.Fatalf("String = %q", got)
	}
	if got := at.Short(); got != "07:05" {
		t.Fatalf("Short = %q", got)
	}
	if got := at.Minutes(); got != 7*60+5 {
		t.Fatalf("Minutes = %d", got)
	}
}

func TestAddSeconds(t *testing.T) {
	t.Parallel()

	t.Run("advances within the day", func(t *testing.T) {
		t.Parallel()

		got, err := AddSeconds(TimeOfDayAt(9, 0, 0), 6000)
		if err != nil {
			t.Fatalf("AddSeconds returned error: %v", err)
		}
		if got != TimeOfDayAt(10, 40, 0) {
			t.Fatalf("AddSeconds = %v, want 10:40:00", got)
		}
	})

	t.Run("rejects crossing midnight", func(t *testing.T) {
		t.Parallel()

		if _, err := AddSeconds(TimeOfDayAt(23, 30, 0), 3600); !errors.Is(err, ErrCrossesMidnight) {
			t.Fatalf("expected ErrCrossesMidnight, got %v", err)
		}
		// Landing exactly on midnight counts as crossing.
		if _, err := AddSeconds(TimeOfDayAt(23, 0, 0), 3600); !errors.Is(err, ErrCrossesMidnight) {
			t.Fatalf("expected ErrCrossesMidnight at exact midnight, got %v", err)
		}
	})

	t.Run("rejects negative results", func(t *testing.T) {
		t.Parallel()

		if _, err := AddSeconds(TimeOfDayAt(0, 10, 0), -700); !errors.Is(err, ErrCrossesMidnight) {
			t.Fatalf("expected ErrCrossesMidnight going backwards, got %v", err)
		}
	})
}

func TestDiffMinutes(t *testing.T) {
	t.Parallel()

	got, err := DiffMinutes(TimeOfDayAt(9, 0, 0), TimeOfDayAt(10, 30, 45))
	if err != nil {
		t.Fatalf("DiffMinutes returned error: %v", err)
	}
	if got != 90 {
		t.Fatalf("DiffMinutes = %d, want 90 (seconds truncate)", got)
	}

	if _, err := DiffMinutes(TimeOfDayAt(10, 0, 0), TimeOfDayAt(9, 0, 0)); !errors.Is(err, ErrNegativeInterval) {
		t.Fatalf("expected ErrNegativeInterval, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds int
		want    string
	}{
		{6000, "1h 40min 00s"},
		{0, "0h 00min 00s"},
		{59, "0h 00min 59s"},
		{3661, "1h 01min 01s"},
		{-5, "0h 00min 00s"},
		{36000, "10h 00min 00s"},
	}

	for _, tc := range tests {
		tc := tc
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
