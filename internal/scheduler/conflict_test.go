package scheduler

import (
	"reflect"
	"testing"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
)

func TestFindConflicts(t *testing.T) {
	t.Parallel()

	day := civil.Date{Year: 2025, Month: time.March, Day: 1}

	existing := func(id string, start, end civil.TimeOfDay, members ...string) Task {
		return Task{ID: id, Date: day, Start: start, End: end, MemberIDs: members}
	}

	t.Run("flags members shared with an overlapping task", func(t *testing.T) {
		t.Parallel()

		candidate := Candidate{
			Date:      day,
			Start:     civil.TimeOfDayAt(9, 0, 0),
			End:       civil.TimeOfDayAt(10, 0, 0),
			MemberIDs: []string{"A", "B"},
		}
		tasks := []Task{
			existing("t1", civil.TimeOfDayAt(8, 30, 0), civil.TimeOfDayAt(9, 30, 0), "B", "C"),
		}

		got := FindConflicts(candidate, tasks, "")
		if want := []string{"B"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("FindConflicts = %v, want %v", got, want)
		}
	})

	t.Run("empty roster never conflicts", func(t *testing.T) {
		t.Parallel()

		candidate := Candidate{Date: day, Start: civil.TimeOfDayAt(9, 0, 0), End: civil.TimeOfDayAt(10, 0, 0)}
		tasks := []Task{
			existing("t1", civil.TimeOfDayAt(9, 0, 0), civil.TimeOfDayAt(10, 0, 0), "A"),
		}

		if got := FindConflicts(candidate, tasks, ""); got != nil {
			t.Fatalf("FindConflicts = %v, want nil", got)
		}
	})

	t.Run("different dates never conflict", func(t *testing.T) {
		t.Parallel()

		candidate := Candidate{
			Date:      day.AddDays(1),
			Start:     civil.TimeOfDayAt(9, 0, 0),
			End:       civil.TimeOfDayAt(10, 0, 0),
			MemberIDs: []string{"A"},
		}
		tasks := []Task{
			existing("t1", civil.TimeOfDayAt(9, 0, 0), civil.TimeOfDayAt(10, 0, 0), "A"),
		}

		if got := FindConflicts(candidate, tasks, ""); got != nil {
			t.Fatalf("FindConflicts = %v, want nil", got)
		}
	})

	t.Run("overlap geometry", func(t *testing.T) {
		t.Parallel()

		// Existing commitment 09:00-11:00.
		tasks := []Task{
			existing("t1", civil.TimeOfDayAt(9, 0, 0), civil.TimeOfDayAt(11, 0, 0), "A"),
		}

		tests := []struct {
			name       string
			start, end civil.TimeOfDay
			conflict   bool
		}{
			{"fully contained", civil.TimeOfDayAt(9, 30, 0), civil.TimeOfDayAt(10, 0, 0), true},
			{"partial overlap at the end", civil.TimeOfDayAt(10, 30, 0), civil.TimeOfDayAt(12, 0, 0), true},
			{"containing the existing task", civil.TimeOfDayAt(8, 0, 0), civil.TimeOfDayAt(12, 0, 0), true},
			{"adjacent after", civil.TimeOfDayAt(11, 0, 0), civil.TimeOfDayAt(12, 0, 0), false},
			{"adjacent before", civil.TimeOfDayAt(8, 0, 0), civil.TimeOfDayAt(9, 0, 0), false},
			{"disjoint", civil.TimeOfDayAt(13, 0, 0), civil.TimeOfDayAt(14, 0, 0), false},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				candidate := Candidate{Date: day, Start: tc.start, End: tc.end, MemberIDs: []string{"A"}}
				got := FindConflicts(candidate, tasks, "")
				if tc.conflict && len(got) == 0 {
					t.Fatalf("expected conflict for %s-%s", tc.start.Short(), tc.end.Short())
				}
				if !tc.conflict && len(got) != 0 {
					t.Fatalf("unexpected conflict %v for %s-%s", got, tc.start.Short(), tc.end.Short())
				}
			})
		}
	})

	t.Run("excluded task does not conflict with itself", func(t *testing.T) {
		t.Parallel()

		candidate := Candidate{
			Date:      day,
			Start:     civil.TimeOfDayAt(9, 0, 0),
			End:       civil.TimeOfDayAt(10, 0, 0),
			MemberIDs: []string{"A"},
		}
		tasks := []Task{
			existing("editing", civil.TimeOfDayAt(9, 0, 0), civil.TimeOfDayAt(10, 0, 0), "A"),
		}

		if got := FindConflicts(candidate, tasks, "editing"); got != nil {
			t.Fatalf("task conflicted with itself: %v", got)
		}
	})

	t.Run("completed tasks hold no commitment", func(t *testing.T) {
		t.Parallel()

		done := existing("t1", civil.TimeOfDayAt(9, 0, 0), civil.TimeOfDayAt(10, 0, 0), "A")
		done.Completed = true

		candidate := Candidate{
			Date:      day,
			Start:     civil.TimeOfDayAt(9, 0, 0),
			End:       civil.TimeOfDayAt(10, 0, 0),
			MemberIDs: []string{"A"},
		}

		if got := FindConflicts(candidate, []Task{done}, ""); got != nil {
			t.Fatalf("completed task produced conflict: %v", got)
		}
	})

	t.Run("members are reported once across tasks, sorted", func(t *testing.T) {
		t.Parallel()

		candidate := Candidate{
			Date:      day,
			Start:     civil.TimeOfDayAt(9, 0, 0),
			End:       civil.TimeOfDayAt(12, 0, 0),
			MemberIDs: []string{"B", "A"},
		}
		tasks := []Task{
			existing("t1", civil.TimeOfDayAt(9, 0, 0), civil.TimeOfDayAt(10, 0, 0), "B"),
			existing("t2", civil.TimeOfDayAt(10, 30, 0), civil.TimeOfDayAt(11, 30, 0), "B", "A"),
		}

		got := FindConflicts(candidate, tasks, "")
		if want := []string{"A", "B"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("FindConflicts = %v, want %v", got, want)
		}
	})
}
