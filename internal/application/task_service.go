package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
	"github.com/LVcicario/optines-sub000/internal/scheduler"
	"github.com/LVcicario/optines-sub000/internal/workload"
)

// TaskService orchestrates task CRUD, template expansion, and roster conflict
// checks. All timing rules live in the scheduler package; this service feeds
// it persisted state and stores what it produces.
type TaskService struct {
	tasks       persistence.TaskRepository
	templates   persistence.TemplateRepository
	hours       persistence.WorkingHoursRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTaskService wires dependencies for task operations.
func NewTaskService(tasks persistence.TaskRepository, templates persistence.TemplateRepository, hours persistence.WorkingHoursRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TaskService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		tasks:       tasks,
		templates:   templates,
		hours:       hours,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// ExpandTemplateForDate materializes a template for a single date. A pattern
// that does not fire on the date produces an empty result; a date already
// materialized is reported as skipped rather than failing.
func (s *TaskService) ExpandTemplateForDate(ctx context.Context, templateID string, date civil.Date) (ExpansionResult, error) {
	if s == nil || s.tasks == nil || s.templates == nil {
		return ExpansionResult{}, fmt.Errorf("task service not configured")
	}
	if !date.IsValid() {
		vErr := &ValidationError{}
		vErr.add("date", "date is invalid")
		return ExpansionResult{}, vErr
	}

	template, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return ExpansionResult{}, mapRepoError(err)
	}
	hours, err := s.loadHours(ctx)
	if err != nil {
		return ExpansionResult{}, err
	}

	task, fired, err := scheduler.MaterializeForDate(toSchedulerTemplate(template), date, hours)
	if !fired {
		return ExpansionResult{}, nil
	}
	if err != nil {
		return ExpansionResult{Skipped: []SkippedDate{{Date: date, Reason: err.Error()}}}, nil
	}

	result := s.persistMaterialized(ctx, []scheduler.Task{task}, nil)

	serviceLogger(ctx, s.logger, "task", "expand_date",
		"template_id", templateID, "date", date.String()).
		InfoContext(ctx, "template expanded",
			"created", len(result.Tasks), "skipped", len(result.Skipped))
	return result, nil
}

// ExpandTemplateForRange materializes a template over every date from start
// to end inclusive. One bad date never blocks the rest: validation failures
// and already-materialized dates are collected as skips.
func (s *TaskService) ExpandTemplateForRange(ctx context.Context, templateID string, start, end civil.Date) (ExpansionResult, error) {
	if s == nil || s.tasks == nil || s.templates == nil {
		return ExpansionResult{}, fmt.Errorf("task service not configured")
	}

	vErr := &ValidationError{}
	if !start.IsValid() {
		vErr.add("start", "start date is invalid")
	}
	if !end.IsValid() {
		vErr.add("end", "end date is invalid")
	}
	if start.IsValid() && end.IsValid() && start.After(end) {
		vErr.add("range", "start date must not be after end date")
	}
	if vErr.HasErrors() {
		return ExpansionResult{}, vErr
	}

	template, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return ExpansionResult{}, mapRepoError(err)
	}
	hours, err := s.loadHours(ctx)
	if err != nil {
		return ExpansionResult{}, err
	}

	produced, rejected := scheduler.MaterializeForRange(toSchedulerTemplate(template), start, end, hours)
	result := s.persistMaterialized(ctx, produced, rejected)

	serviceLogger(ctx, s.logger, "task", "expand_range",
		"template_id", templateID, "start", start.String(), "end", end.String()).
		InfoContext(ctx, "template expanded",
			"created", len(result.Tasks), "skipped", len(result.Skipped))
	return result, nil
}

// CheckRosterConflicts reports which proposed members are already committed
// to an overlapping task on the same date.
func (s *TaskService) CheckRosterConflicts(ctx context.Context, params ConflictCheckParams) ([]string, error) {
	if s == nil || s.tasks == nil {
		return nil, fmt.Errorf("task service not configured")
	}
	if len(params.MemberIDs) == 0 {
		return nil, nil
	}

	existing, err := s.tasks.ListTasksForDate(ctx, params.Date)
	if err != nil {
		return nil, mapRepoError(err)
	}

	candidate := scheduler.Candidate{
		Date:      params.Date,
		Start:     params.StartTime,
		End:       params.EndTime,
		MemberIDs: params.MemberIDs,
	}
	return scheduler.FindConflicts(candidate, toSchedulerTasks(existing), params.ExcludeTaskID), nil
}

// CreateTask stores an ad hoc task. The end time and duration label are
// derived from the workload estimate; roster conflicts do not block the
// write but are returned so callers can warn the planner.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (persistence.Task, []string, error) {
	if s == nil || s.tasks == nil {
		return persistence.Task{}, nil, fmt.Errorf("task service not configured")
	}

	derived, err := s.deriveTiming(input)
	if err != nil {
		return persistence.Task{}, nil, err
	}

	hours, err := s.loadHours(ctx)
	if err != nil {
		return persistence.Task{}, nil, err
	}
	if err := scheduler.CheckRange(input.StartTime, derived.end, hours); err != nil {
		return persistence.Task{}, nil, hoursValidation(err)
	}

	conflicts, err := s.CheckRosterConflicts(ctx, ConflictCheckParams{
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   derived.end,
		MemberIDs: input.MemberIDs,
	})
	if err != nil {
		return persistence.Task{}, nil, err
	}

	now := s.now()
	task := persistence.Task{
		ID:              s.idGenerator(),
		Title:           strings.TrimSpace(input.Title),
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         derived.end,
		DurationSeconds: derived.seconds,
		DurationLabel:   derived.label,
		Packages:        input.Packages,
		MemberIDs:       uniqueStrings(input.MemberIDs),
		Pinned:          input.Pinned,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return persistence.Task{}, nil, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "task", "create", "task_id", task.ID).
		InfoContext(ctx, "task created", "date", task.Date.String(), "conflicts", len(conflicts))
	return task, conflicts, nil
}

// UpdateTask rewrites a task's editable fields. The end time is always
// re-derived and working hours re-checked; the conflict scan excludes the
// task itself so an unchanged roster never conflicts with its own slot.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input TaskInput) (persistence.Task, []string, error) {
	if s == nil || s.tasks == nil {
		return persistence.Task{}, nil, fmt.Errorf("task service not configured")
	}

	existing, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return persistence.Task{}, nil, mapRepoError(err)
	}

	derived, err := s.deriveTiming(input)
	if err != nil {
		return persistence.Task{}, nil, err
	}

	hours, err := s.loadHours(ctx)
	if err != nil {
		return persistence.Task{}, nil, err
	}
	if err := scheduler.CheckRange(input.StartTime, derived.end, hours); err != nil {
		return persistence.Task{}, nil, hoursValidation(err)
	}

	conflicts, err := s.CheckRosterConflicts(ctx, ConflictCheckParams{
		Date:          input.Date,
		StartTime:     input.StartTime,
		EndTime:       derived.end,
		MemberIDs:     input.MemberIDs,
		ExcludeTaskID: taskID,
	})
	if err != nil {
		return persistence.Task{}, nil, err
	}

	updated := existing
	updated.Title = strings.TrimSpace(input.Title)
	updated.Date = input.Date
	updated.StartTime = input.StartTime
	updated.EndTime = derived.end
	updated.DurationSeconds = derived.seconds
	updated.DurationLabel = derived.label
	updated.Packages = input.Packages
	updated.MemberIDs = uniqueStrings(input.MemberIDs)
	updated.Pinned = input.Pinned
	updated.UpdatedAt = s.now()

	if err := s.tasks.UpdateTask(ctx, updated); err != nil {
		return persistence.Task{}, nil, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "task", "update", "task_id", taskID).
		InfoContext(ctx, "task updated", "conflicts", len(conflicts))
	return updated, conflicts, nil
}

// SetCompleted flips the completion flag. Completed tasks stop counting in
// conflict detection.
func (s *TaskService) SetCompleted(ctx context.Context, taskID string, completed bool) (persistence.Task, error) {
	return s.patchTask(ctx, taskID, "complete", func(task *persistence.Task) error {
		task.Completed = completed
		return nil
	})
}

// SetPinned flips the pinned flag.
func (s *TaskService) SetPinned(ctx context.Context, taskID string, pinned bool) (persistence.Task, error) {
	return s.patchTask(ctx, taskID, "pin", func(task *persistence.Task) error {
		task.Pinned = pinned
		return nil
	})
}

// AdjustDelay shifts a task's duration by the given number of minutes,
// re-deriving the end time and re-checking store hours. Negative adjustments
// shorten the task but never below zero.
func (s *TaskService) AdjustDelay(ctx context.Context, taskID string, delayMinutes int) (persistence.Task, error) {
	hours, err := s.loadHours(ctx)
	if err != nil {
		return persistence.Task{}, err
	}

	return s.patchTask(ctx, taskID, "adjust_delay", func(task *persistence.Task) error {
		seconds := task.DurationSeconds + delayMinutes*60
		if seconds < 0 {
			seconds = 0
		}
		end, err := civil.AddSeconds(task.StartTime, seconds)
		if err != nil {
			vErr := &ValidationError{}
			vErr.add("delay_minutes", "adjusted task would cross midnight")
			return vErr
		}
		if err := scheduler.CheckRange(task.StartTime, end, hours); err != nil {
			return hoursValidation(err)
		}

		task.DurationSeconds = seconds
		task.DurationLabel = civil.FormatDuration(seconds)
		task.EndTime = end
		return nil
	})
}

// DeleteTask removes a task and its roster assignments.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if s == nil || s.tasks == nil {
		return fmt.Errorf("task service not configured")
	}
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		return mapRepoError(err)
	}
	serviceLogger(ctx, s.logger, "task", "delete", "task_id", taskID).
		InfoContext(ctx, "task deleted")
	return nil
}

// GetTask retrieves a task by ID.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (persistence.Task, error) {
	if s == nil || s.tasks == nil {
		return persistence.Task{}, fmt.Errorf("task service not configured")
	}
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return persistence.Task{}, mapRepoError(err)
	}
	return task, nil
}

// ListForDate returns the tasks planned on a single date.
func (s *TaskService) ListForDate(ctx context.Context, date civil.Date) ([]persistence.Task, error) {
	if s == nil || s.tasks == nil {
		return nil, fmt.Errorf("task service not configured")
	}
	tasks, err := s.tasks.ListTasksForDate(ctx, date)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tasks, nil
}

// ListForRange returns the tasks planned between two dates inclusive.
func (s *TaskService) ListForRange(ctx context.Context, from, to civil.Date) ([]persistence.Task, error) {
	if s == nil || s.tasks == nil {
		return nil, fmt.Errorf("task service not configured")
	}
	if from.After(to) {
		vErr := &ValidationError{}
		vErr.add("range", "start date must not be after end date")
		return nil, vErr
	}
	tasks, err := s.tasks.ListTasks(ctx, persistence.TaskFilter{From: &from, To: &to})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tasks, nil
}

func (s *TaskService) patchTask(ctx context.Context, taskID, operation string, mutate func(*persistence.Task) error) (persistence.Task, error) {
	if s == nil || s.tasks == nil {
		return persistence.Task{}, fmt.Errorf("task service not configured")
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return persistence.Task{}, mapRepoError(err)
	}
	if err := mutate(&task); err != nil {
		return persistence.Task{}, err
	}
	task.UpdatedAt = s.now()

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return persistence.Task{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "task", operation, "task_id", taskID).
		InfoContext(ctx, "task updated")
	return task, nil
}

// persistMaterialized stores tasks the scheduler produced, converting a
// duplicate insert into a skip: another expansion already covered that date.
func (s *TaskService) persistMaterialized(ctx context.Context, produced []scheduler.Task, rejected []scheduler.SkippedDate) ExpansionResult {
	var result ExpansionResult
	for _, r := range rejected {
		result.Skipped = append(result.Skipped, SkippedDate{Date: r.Date, Reason: r.Reason.Error()})
	}

	now := s.now()
	for _, task := range produced {
		record := persistence.Task{
			ID:              s.idGenerator(),
			Title:           task.Title,
			Date:            task.Date,
			StartTime:       task.Start,
			EndTime:         task.End,
			DurationSeconds: task.DurationSeconds,
			DurationLabel:   task.DurationLabel,
			Packages:        task.Packages,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if task.TemplateID != "" {
			templateID := task.TemplateID
			record.TemplateID = &templateID
		}

		err := s.tasks.CreateTask(ctx, record)
		switch {
		case err == nil:
			result.Tasks = append(result.Tasks, record)
		case errors.Is(err, persistence.ErrDuplicate):
			result.Skipped = append(result.Skipped, SkippedDate{
				Date:   task.Date,
				Reason: "already materialized for this date",
			})
		default:
			result.Skipped = append(result.Skipped, SkippedDate{
				Date:   task.Date,
				Reason: err.Error(),
			})
		}
	}
	return result
}

type derivedTiming struct {
	seconds int
	label   string
	end     civil.TimeOfDay
}

// deriveTiming validates task input and computes the workload estimate and
// end time from it.
func (s *TaskService) deriveTiming(input TaskInput) (derivedTiming, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if !input.Date.IsValid() {
		vErr.add("date", "date is invalid")
	}
	if !input.StartTime.IsValid() {
		vErr.add("start_time", "start time must be within the day")
	}
	if input.Packages < 0 {
		vErr.add("packages", "packages cannot be negative")
	}
	if vErr.HasErrors() {
		return derivedTiming{}, vErr
	}

	seconds := workload.EstimateSeconds(input.Packages, input.PalletConditionOK, input.ManualDelayMinutes)
	end, err := civil.AddSeconds(input.StartTime, seconds)
	if err != nil {
		vErr.add("time", "task would cross midnight")
		return derivedTiming{}, vErr
	}

	return derivedTiming{
		seconds: seconds,
		label:   civil.FormatDuration(seconds),
		end:     end,
	}, nil
}

// loadHours fetches the configured window. Absence is a valid state that
// validates permissively.
func (s *TaskService) loadHours(ctx context.Context) (*scheduler.WorkingHours, error) {
	if s.hours == nil {
		return nil, nil
	}
	record, err := s.hours.GetWorkingHours(ctx)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &scheduler.WorkingHours{
		Start:  record.StartTime,
		End:    record.EndTime,
		Active: record.Active,
	}, nil
}

func hoursValidation(err error) error {
	var hoursErr *scheduler.HoursError
	if !errors.As(err, &hoursErr) {
		return err
	}
	vErr := &ValidationError{}
	vErr.add("time", fmt.Sprintf("range %s-%s is outside working hours %s-%s",
		hoursErr.Start.Short(), hoursErr.End.Short(),
		hoursErr.WindowStart.Short(), hoursErr.WindowEnd.Short()))
	return vErr
}

func toSchedulerTemplate(template persistence.EventTemplate) scheduler.Template {
	return scheduler.Template{
		ID:                template.ID,
		Title:             template.Title,
		Start:             template.StartTime,
		DurationMinutes:   template.DurationMinutes,
		Packages:          template.Packages,
		TeamSize:          template.TeamSize,
		Section:           template.Section,
		Initials:          template.Initials,
		PalletConditionOK: template.PalletConditionOK,
		Recurrence:        template.Recurrence,
	}
}

func toSchedulerTasks(tasks []persistence.Task) []scheduler.Task {
	converted := make([]scheduler.Task, 0, len(tasks))
	for _, task := range tasks {
		entry := scheduler.Task{
			ID:              task.ID,
			Title:           task.Title,
			Date:            task.Date,
			Start:           task.StartTime,
			End:             task.EndTime,
			DurationSeconds: task.DurationSeconds,
			DurationLabel:   task.DurationLabel,
			Packages:        task.Packages,
			MemberIDs:       task.MemberIDs,
			Completed:       task.Completed,
			Pinned:          task.Pinned,
		}
		if task.TemplateID != nil {
			entry.TemplateID = *task.TemplateID
		}
		converted = append(converted, entry)
	}
	return converted
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
