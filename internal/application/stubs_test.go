package application_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

// stubTemplateRepo is an in-memory persistence.TemplateRepository.
type stubTemplateRepo struct {
	templates map[string]persistence.EventTemplate
	failWith  error
}

func newStubTemplateRepo(seed ...persistence.EventTemplate) *stubTemplateRepo {
	repo := &stubTemplateRepo{templates: make(map[string]persistence.EventTemplate)}
	for _, template := range seed {
		repo.templates[template.ID] = template
	}
	return repo
}

func (r *stubTemplateRepo) CreateTemplate(_ context.Context, template persistence.EventTemplate) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.templates[template.ID] = template
	return nil
}

func (r *stubTemplateRepo) UpdateTemplate(_ context.Context, template persistence.EventTemplate) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.templates[template.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.templates[template.ID] = template
	return nil
}

func (r *stubTemplateRepo) GetTemplate(_ context.Context, id string) (persistence.EventTemplate, error) {
	if r.failWith != nil {
		return persistence.EventTemplate{}, r.failWith
	}
	template, ok := r.templates[id]
	if !ok {
		return persistence.EventTemplate{}, persistence.ErrNotFound
	}
	return template, nil
}

func (r *stubTemplateRepo) ListTemplates(_ context.Context) ([]persistence.EventTemplate, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]persistence.EventTemplate, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.templates[id])
	}
	return result, nil
}

func (r *stubTemplateRepo) DeleteTemplate(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.templates[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

// stubTaskRepo is an in-memory persistence.TaskRepository that enforces the
// template+date uniqueness the real schema carries.
type stubTaskRepo struct {
	tasks    map[string]persistence.Task
	failWith error
}

func newStubTaskRepo(seed ...persistence.Task) *stubTaskRepo {
	repo := &stubTaskRepo{tasks: make(map[string]persistence.Task)}
	for _, task := range seed {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (r *stubTaskRepo) CreateTask(_ context.Context, task persistence.Task) error {
	if r.failWith != nil {
		return r.failWith
	}
	if task.TemplateID != nil {
		for _, existing := range r.tasks {
			if existing.TemplateID != nil && *existing.TemplateID == *task.TemplateID && existing.Date == task.Date {
				return fmt.Errorf("%w: template %s on %s", persistence.ErrDuplicate, *task.TemplateID, task.Date)
			}
		}
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *stubTaskRepo) UpdateTask(_ context.Context, task persistence.Task) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *stubTaskRepo) GetTask(_ context.Context, id string) (persistence.Task, error) {
	if r.failWith != nil {
		return persistence.Task{}, r.failWith
	}
	task, ok := r.tasks[id]
	if !ok {
		return persistence.Task{}, persistence.ErrNotFound
	}
	return task, nil
}

func (r *stubTaskRepo) ListTasksForDate(ctx context.Context, date civil.Date) ([]persistence.Task, error) {
	return r.ListTasks(ctx, persistence.TaskFilter{From: &date, To: &date})
}

func (r *stubTaskRepo) ListTasks(_ context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var result []persistence.Task
	for _, task := range r.tasks {
		if filter.From != nil && task.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && task.Date.After(*filter.To) {
			continue
		}
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *stubTaskRepo) DeleteTask(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.tasks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// stubHoursRepo is an in-memory persistence.WorkingHoursRepository.
type stubHoursRepo struct {
	hours    *persistence.WorkingHours
	failWith error
}

func (r *stubHoursRepo) GetWorkingHours(_ context.Context) (persistence.WorkingHours, error) {
	if r.failWith != nil {
		return persistence.WorkingHours{}, r.failWith
	}
	if r.hours == nil {
		return persistence.WorkingHours{}, persistence.ErrNotFound
	}
	return *r.hours, nil
}

func (r *stubHoursRepo) SetWorkingHours(_ context.Context, hours persistence.WorkingHours) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.hours = &hours
	return nil
}
