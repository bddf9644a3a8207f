package persistence

import (
	"context"

	"github.com/LVcicario/optines-sub000/internal/civil"
)

// TemplateRepository exposes CRUD operations for event templates.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template EventTemplate) error
	UpdateTemplate(ctx context.Context, template EventTemplate) error
	GetTemplate(ctx context.Context, id string) (EventTemplate, error)
	ListTemplates(ctx context.Context) ([]EventTemplate, error)
	// DeleteTemplate removes the template and clears the back-reference on
	// tasks materialized from it; the tasks themselves survive as historical
	// records.
	DeleteTemplate(ctx context.Context, id string) error
}

// TaskFilter narrows task queries to a date range.
type TaskFilter struct {
	From *civil.Date
	To   *civil.Date
}

// TaskRepository stores tasks and their rosters.
type TaskRepository interface {
	CreateTask(ctx context.Context, task Task) error
	UpdateTask(ctx context.Context, task Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	ListTasksForDate(ctx context.Context, date civil.Date) ([]Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// WorkingHoursRepository stores the store's single working-hours record.
type WorkingHoursRepository interface {
	// GetWorkingHours returns ErrNotFound when no record has been configured;
	// callers treat absence as permissive validation.
	GetWorkingHours(ctx context.Context) (WorkingHours, error)
	SetWorkingHours(ctx context.Context, hours WorkingHours) error
}
