package scheduler

import (
	"fmt"

	"github.com/LVcicario/optines-sub000/internal/civil"
)

// WorkingHours is a store's configured open window. At most one active record
// exists per store; the scheduling core treats it as a read-only snapshot.
type WorkingHours struct {
	Start  civil.TimeOfDay
	End    civil.TimeOfDay
	Active bool
}

// HoursError reports a candidate range that falls outside the configured
// store hours. It carries both ranges so callers can state them in messages.
type HoursError struct {
	Start       civil.TimeOfDay
	End         civil.TimeOfDay
	WindowStart civil.TimeOfDay
	WindowEnd   civil.TimeOfDay
}

// Error implements the error interface.
func (e *HoursError) Error() string {
	return fmt.Sprintf("scheduler: range %s-%s outside working hours %s-%s",
		e.Start.Short(), e.End.Short(), e.WindowStart.Short(), e.WindowEnd.Short())
}

// WithinHours reports whether a time of day falls inside the window,
// inclusive on both ends, comparing at minute granularity.
func WithinHours(t civil.TimeOfDay, hours WorkingHours) bool {
	return t.Minutes() >= hours.Start.Minutes() && t.Minutes() <= hours.End.Minutes()
}

// RangeWithinHours reports whether both endpoints of [start, end) fall inside
// the window. The final end check is redundant given the endpoint checks but
// stays as a safety net against swapped arguments. A nil or inactive hours
// record validates permissively: before a store configures its hours, every
// range passes.
func RangeWithinHours(start, end civil.TimeOfDay, hours *WorkingHours) bool {
	if hours == nil || !hours.Active {
		return true
	}
	return WithinHours(start, *hours) &&
		WithinHours(end, *hours) &&
		end.Minutes() <= hours.End.Minutes()
}

// CheckRange converts a failed range validation into a HoursError. It returns
// nil when the range is admissible.
func CheckRange(start, end civil.TimeOfDay, hours *WorkingHours) error {
	if RangeWithinHours(start, end, hours) {
		return nil
	}
	return &HoursError{
		Start:       start,
		End:         end,
		WindowStart: hours.Start,
		WindowEnd:   hours.End,
	}
}
