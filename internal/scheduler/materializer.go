// Package scheduler holds the pure scheduling core: working-hours validation,
// roster conflict detection, and materialization of event templates into
// concrete dated tasks. Every function is a synchronous computation over
// caller-supplied snapshots; persistence and messaging live elsewhere.
package scheduler

import (
	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
	"github.com/LVcicario/optines-sub000/internal/workload"
)

// Template is the scheduling core's view of an event template.
type Template struct {
	ID                string
	Title             string
	Start             civil.TimeOfDay
	DurationMinutes   int
	Packages          int
	TeamSize          int
	Section           string
	Initials          string
	PalletConditionOK bool
	Recurrence        recurrence.Pattern
}

// SkippedDate records a date inside a materialization range that could not
// produce a task, together with the reason.
type SkippedDate struct {
	Date   civil.Date
	Reason error
}

// MaterializeForDate expands a template for a single date. When the
// template's pattern does not fire on the date, it returns fired == false
// with no error: silent non-materialization is the normal case, distinct from
// a validation failure. When the pattern fires, the task duration comes from
// the workload policy, the end time is derived from the template start, and
// the resulting range must respect the store's hours.
func MaterializeForDate(tmpl Template, date civil.Date, hours *WorkingHours) (Task, bool, error) {
	if !recurrence.OccursOn(tmpl.Recurrence, date) {
		return Task{}, false, nil
	}

	seconds := workload.EstimateSeconds(tmpl.Packages, tmpl.PalletConditionOK, 0)
	end, err := civil.AddSeconds(tmpl.Start, seconds)
	if err != nil {
		return Task{}, true, err
	}

	if err := CheckRange(tmpl.Start, end, hours); err != nil {
		return Task{}, true, err
	}

	return Task{
		Title:           tmpl.Title,
		Date:            date,
		Start:           tmpl.Start,
		End:             end,
		DurationSeconds: seconds,
		DurationLabel:   civil.FormatDuration(seconds),
		Packages:        tmpl.Packages,
		MemberIDs:       nil,
		Completed:       false,
		TemplateID:      tmpl.ID,
	}, true, nil
}

// MaterializeForRange expands a template across every calendar date from
// startDate to endDate inclusive. Dates the pattern skips produce nothing;
// dates that fire but fail validation are collected as skips so that one bad
// date never blocks the rest of the range. The function performs no
// de-duplication: detecting "already materialized for this template and date"
// belongs to the persistence boundary.
func MaterializeForRange(tmpl Template, startDate, endDate civil.Date, hours *WorkingHours) ([]Task, []SkippedDate) {
	var tasks []Task
	var skipped []SkippedDate

	for date := startDate; !date.After(endDate); date = date.AddDays(1) {
		task, fired, err := MaterializeForDate(tmpl, date, hours)
		if err != nil {
			skipped = append(skipped, SkippedDate{Date: date, Reason: err})
			continue
		}
		if !fired {
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, skipped
}
