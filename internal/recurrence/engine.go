// Package recurrence models template repetition rules and answers occurrence
// queries over plain calendar dates.
package recurrence

import (
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
)

// OccursOn reports whether the pattern fires on the given date. Inactive
// patterns never fire; dates outside the [StartDate, EndDate] window never
// fire. A zero StartDate leaves the window open at the start, a nil EndDate
// leaves it open at the end.
func OccursOn(p Pattern, date civil.Date) bool {
	if !p.Active {
		return false
	}
	if !p.StartDate.IsZero() && date.Before(p.StartDate) {
		return false
	}
	if p.EndDate != nil && date.After(*p.EndDate) {
		return false
	}

	switch p.Kind {
	case KindDaily:
		return true
	case KindWeekly:
		return date.Weekday() == p.AnchorDate.Weekday()
	case KindWeekdays:
		day := date.Weekday()
		return day >= time.Monday && day <= time.Friday
	case KindCustom:
		return p.HasWeekday(date.Weekday())
	default:
		// KindNone and anything unknown: a one-off template is materialized
		// directly by its caller, never through the engine.
		return false
	}
}

// NextOccurrence scans day by day from the given date and returns the first
// firing date within horizonDays (inclusive). Daily and custom patterns with
// no end date are unbounded, so the caller-supplied horizon is mandatory; a
// non-positive horizon restricts the scan to the start date itself.
func NextOccurrence(p Pattern, from civil.Date, horizonDays int) (civil.Date, bool) {
	if horizonDays < 0 {
		horizonDays = 0
	}
	for offset := 0; offset <= horizonDays; offset++ {
		candidate := from.AddDays(offset)
		if p.EndDate != nil && candidate.After(*p.EndDate) {
			break
		}
		if OccursOn(p, candidate) {
			return candidate, true
		}
	}
	return civil.Date{}, false
}
