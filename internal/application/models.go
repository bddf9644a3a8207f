package application

import (
	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
)

// TemplateInput captures caller provided template fields.
type TemplateInput struct {
	Title             string
	StartTime         civil.TimeOfDay
	DurationMinutes   int
	Packages          int
	TeamSize          int
	Section           string
	Initials          string
	PalletConditionOK bool
	Recurrence        recurrence.Pattern
}

// TaskInput captures caller provided task fields. EndTime is never accepted
// from callers; it is derived from the start time and the estimated duration.
type TaskInput struct {
	Title              string
	Date               civil.Date
	StartTime          civil.TimeOfDay
	Packages           int
	PalletConditionOK  bool
	ManualDelayMinutes int
	MemberIDs          []string
	Pinned             bool
}

// ConflictCheckParams describes a prospective assignment to test against the
// tasks already planned on the same date.
type ConflictCheckParams struct {
	Date          civil.Date
	StartTime     civil.TimeOfDay
	EndTime       civil.TimeOfDay
	MemberIDs     []string
	ExcludeTaskID string
}

// SkippedDate records a date a range expansion could not produce a task for.
type SkippedDate struct {
	Date   civil.Date
	Reason string
}

// ExpansionResult reports what a template expansion produced.
type ExpansionResult struct {
	Tasks   []persistence.Task
	Skipped []SkippedDate
}

// WorkingHoursInput captures caller provided working-hours fields.
type WorkingHoursInput struct {
	StartTime civil.TimeOfDay
	EndTime   civil.TimeOfDay
	Active    bool
}
