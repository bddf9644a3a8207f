package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LVcicario/optines-sub000/internal/persistence"
)

// WorkingHoursService manages the store's single working-hours window.
type WorkingHoursService struct {
	hours  persistence.WorkingHoursRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewWorkingHoursService wires dependencies for working-hours operations.
func NewWorkingHoursService(hours persistence.WorkingHoursRepository, now func() time.Time, logger *slog.Logger) *WorkingHoursService {
	if now == nil {
		now = time.Now
	}
	return &WorkingHoursService{hours: hours, now: now, logger: logger}
}

// Get returns the configured window, or nil when none has been set. An
// unconfigured store validates every task range permissively.
func (s *WorkingHoursService) Get(ctx context.Context) (*persistence.WorkingHours, error) {
	if s == nil || s.hours == nil {
		return nil, fmt.Errorf("working-hours repository not configured")
	}
	record, err := s.hours.GetWorkingHours(ctx)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Set creates or replaces the window after validating it.
func (s *WorkingHoursService) Set(ctx context.Context, input WorkingHoursInput) (persistence.WorkingHours, error) {
	if s == nil || s.hours == nil {
		return persistence.WorkingHours{}, fmt.Errorf("working-hours repository not configured")
	}

	vErr := &ValidationError{}
	if !input.StartTime.IsValid() {
		vErr.add("start_time", "start time must be within the day")
	}
	if !input.EndTime.IsValid() {
		vErr.add("end_time", "end time must be within the day")
	}
	if input.StartTime.IsValid() && input.EndTime.IsValid() &&
		input.StartTime.Minutes() >= input.EndTime.Minutes() {
		vErr.add("time", "start must be before end")
	}
	if vErr.HasErrors() {
		return persistence.WorkingHours{}, vErr
	}

	record := persistence.WorkingHours{
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Active:    input.Active,
		UpdatedAt: s.now(),
	}
	if err := s.hours.SetWorkingHours(ctx, record); err != nil {
		return persistence.WorkingHours{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "working_hours", "set").
		InfoContext(ctx, "working hours updated",
			"start", record.StartTime.Short(), "end", record.EndTime.Short(), "active", record.Active)
	return record, nil
}
