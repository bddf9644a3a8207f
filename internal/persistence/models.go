package persistence

import (
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
)

// EventTemplate is the stored form of a recurring work definition.
type EventTemplate struct {
	ID                string
	Title             string
	StartTime         civil.TimeOfDay
	DurationMinutes   int
	Packages          int
	TeamSize          int
	Section           string
	Initials          string
	PalletConditionOK bool
	Recurrence        recurrence.Pattern
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Task is the stored form of a single dated unit of work. EndTime is always
// derived from StartTime plus DurationSeconds before a write; it is persisted
// for query convenience only.
type Task struct {
	ID              string
	Title           string
	Date            civil.Date
	StartTime       civil.TimeOfDay
	EndTime         civil.TimeOfDay
	DurationSeconds int
	DurationLabel   string
	Packages        int
	MemberIDs       []string
	Completed       bool
	Pinned          bool
	TemplateID      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkingHours is the store's configured open window. At most one row exists.
type WorkingHours struct {
	StartTime civil.TimeOfDay
	EndTime   civil.TimeOfDay
	Active    bool
	UpdatedAt time.Time
}
