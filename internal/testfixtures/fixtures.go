package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
)

var (
	templateCounter uint64
	taskCounter     uint64
)

var referenceTime = time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the canonical planning date used by fixtures, a
// Monday.
func ReferenceDate() civil.Date {
	return civil.Date{Year: 2025, Month: time.January, Day: 6}
}

// --------------------------- Template fixtures ---------------------------

// TemplateOption configures the generated template fixture.
type TemplateOption func(*persistence.EventTemplate)

// NewTemplateFixture returns a deterministic event template with optional
// overrides. The default recurs weekly from the reference date.
func NewTemplateFixture(opts ...TemplateOption) persistence.EventTemplate {
	idx := atomic.AddUint64(&templateCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.EventTemplate{
		ID:                fmt.Sprintf("template-%03d", idx),
		Title:             fmt.Sprintf("Delivery %03d", idx),
		StartTime:         civil.TimeOfDayAt(6, 30, 0),
		DurationMinutes:   90,
		Packages:          150,
		TeamSize:          3,
		Section:           "grocery",
		Initials:          "DL",
		PalletConditionOK: true,
		Recurrence: recurrence.Pattern{
			Kind:       recurrence.KindWeekly,
			AnchorDate: ReferenceDate(),
			StartDate:  ReferenceDate(),
			Active:     true,
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithTemplateID overrides the generated template ID.
func WithTemplateID(id string) TemplateOption {
	return func(f *persistence.EventTemplate) {
		f.ID = id
	}
}

// WithTemplateTitle overrides the generated title.
func WithTemplateTitle(title string) TemplateOption {
	return func(f *persistence.EventTemplate) {
		f.Title = title
	}
}

// WithTemplateStart overrides the start time.
func WithTemplateStart(start civil.TimeOfDay) TemplateOption {
	return func(f *persistence.EventTemplate) {
		f.StartTime = start
	}
}

// WithTemplatePackages overrides the package count.
func WithTemplatePackages(packages int) TemplateOption {
	return func(f *persistence.EventTemplate) {
		f.Packages = packages
	}
}

// WithTemplateRecurrence overrides the recurrence pattern.
func WithTemplateRecurrence(pattern recurrence.Pattern) TemplateOption {
	return func(f *persistence.EventTemplate) {
		f.Recurrence = pattern
	}
}

// ----------------------------- Task fixtures -----------------------------

// TaskOption configures the generated task fixture.
type TaskOption func(*persistence.Task)

// NewTaskFixture returns a deterministic task on the reference date with
// optional overrides.
func NewTaskFixture(opts ...TaskOption) persistence.Task {
	idx := atomic.AddUint64(&taskCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Task{
		ID:              fmt.Sprintf("task-%03d", idx),
		Title:           fmt.Sprintf("Restock %03d", idx),
		Date:            ReferenceDate(),
		StartTime:       civil.TimeOfDayAt(9, 0, 0),
		EndTime:         civil.TimeOfDayAt(10, 40, 0),
		DurationSeconds: 6000,
		DurationLabel:   civil.FormatDuration(6000),
		Packages:        150,
		MemberIDs:       []string{fmt.Sprintf("member-%03d", idx)},
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithTaskID overrides the generated task ID.
func WithTaskID(id string) TaskOption {
	return func(f *persistence.Task) {
		f.ID = id
	}
}

// WithTaskDate overrides the planning date.
func WithTaskDate(date civil.Date) TaskOption {
	return func(f *persistence.Task) {
		f.Date = date
	}
}

// WithTaskWindow overrides the start and end times.
func WithTaskWindow(start, end civil.TimeOfDay) TaskOption {
	return func(f *persistence.Task) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithTaskMembers overrides the roster.
func WithTaskMembers(memberIDs ...string) TaskOption {
	return func(f *persistence.Task) {
		f.MemberIDs = memberIDs
	}
}

// WithTaskCompleted marks the task completed.
func WithTaskCompleted() TaskOption {
	return func(f *persistence.Task) {
		f.Completed = true
	}
}

// WithTaskTemplateID links the task to a template.
func WithTaskTemplateID(templateID string) TaskOption {
	return func(f *persistence.Task) {
		f.TemplateID = &templateID
	}
}

// ------------------------- Working-hours fixtures ------------------------

// NewWorkingHoursFixture returns the standard store window, 06:00 to 21:00.
func NewWorkingHoursFixture() persistence.WorkingHours {
	return persistence.WorkingHours{
		StartTime: civil.TimeOfDayAt(6, 0, 0),
		EndTime:   civil.TimeOfDayAt(21, 0, 0),
		Active:    true,
		UpdatedAt: referenceTime,
	}
}
