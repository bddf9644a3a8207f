package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
)

// Kind names the supported repetition rules for an event template.
type Kind string

const (
	// KindNone marks a one-off template that is never expanded by the engine.
	KindNone Kind = "none"
	// KindDaily fires on every date inside the pattern window.
	KindDaily Kind = "daily"
	// KindWeekly fires on the weekday of the pattern's anchor date.
	KindWeekly Kind = "weekly"
	// KindWeekdays fires Monday through Friday.
	KindWeekdays Kind = "weekdays"
	// KindCustom fires on an explicit weekday selection.
	KindCustom Kind = "custom"
)

// ErrUnknownKind indicates a pattern kind outside the supported set.
var ErrUnknownKind = errors.New("recurrence: unknown kind")

// ErrEmptyWeekdays indicates a custom pattern without any selected weekdays.
var ErrEmptyWeekdays = errors.New("recurrence: custom pattern requires at least one weekday")

// ErrInvalidWeekday indicates a weekday value outside Sunday..Saturday.
var ErrInvalidWeekday = errors.New("recurrence: weekday out of range")

// ErrWindowInverted indicates an end date that precedes the start date.
var ErrWindowInverted = errors.New("recurrence: end date precedes start date")

// Pattern describes how an event template repeats. It is read-only to the
// scheduling core; edits happen at template-definition time.
type Pattern struct {
	Kind       Kind
	AnchorDate civil.Date
	Weekdays   []time.Weekday
	StartDate  civil.Date
	EndDate    *civil.Date
	Active     bool
}

// ParseKind converts a stored kind string, rejecting unknown values.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindNone, KindDaily, KindWeekly, KindWeekdays, KindCustom:
		return Kind(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
}

// Validate reports structural violations. It runs when a template is defined
// or edited, not at materialization time; a pattern that fails here is fatal
// for its template until corrected.
func (p Pattern) Validate() error {
	if _, err := ParseKind(string(p.Kind)); err != nil {
		return err
	}

	if p.Kind == KindCustom {
		if len(p.Weekdays) == 0 {
			return ErrEmptyWeekdays
		}
		for _, day := range p.Weekdays {
			if day < time.Sunday || day > time.Saturday {
				return fmt.Errorf("%w: %d", ErrInvalidWeekday, int(day))
			}
		}
	}

	if p.EndDate != nil && !p.StartDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return ErrWindowInverted
	}

	return nil
}

// HasWeekday reports membership in the custom weekday selection.
func (p Pattern) HasWeekday(day time.Weekday) bool {
	for _, selected := range p.Weekdays {
		if selected == day {
			return true
		}
	}
	return false
}
