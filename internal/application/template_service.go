package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LVcicario/optines-sub000/internal/persistence"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
)

// TemplateService orchestrates validation and persistence for event templates.
type TemplateService struct {
	templates   persistence.TemplateRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTemplateService wires dependencies for template operations.
func NewTemplateService(templates persistence.TemplateRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TemplateService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TemplateService{
		templates:   templates,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateTemplate validates the request before delegating to persistence.
func (s *TemplateService) CreateTemplate(ctx context.Context, input TemplateInput) (persistence.EventTemplate, error) {
	if s == nil || s.templates == nil {
		return persistence.EventTemplate{}, fmt.Errorf("template repository not configured")
	}

	vErr := &ValidationError{}
	validateTemplateCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.EventTemplate{}, vErr
	}

	now := s.now()
	template := persistence.EventTemplate{
		ID:                s.idGenerator(),
		Title:             strings.TrimSpace(input.Title),
		StartTime:         input.StartTime,
		DurationMinutes:   input.DurationMinutes,
		Packages:          input.Packages,
		TeamSize:          input.TeamSize,
		Section:           strings.TrimSpace(input.Section),
		Initials:          strings.TrimSpace(input.Initials),
		PalletConditionOK: input.PalletConditionOK,
		Recurrence:        input.Recurrence,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.templates.CreateTemplate(ctx, template); err != nil {
		return persistence.EventTemplate{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "template", "create", "template_id", template.ID).
		InfoContext(ctx, "template created")
	return template, nil
}

// UpdateTemplate applies validation before updating persistence state.
func (s *TemplateService) UpdateTemplate(ctx context.Context, templateID string, input TemplateInput) (persistence.EventTemplate, error) {
	if s == nil || s.templates == nil {
		return persistence.EventTemplate{}, fmt.Errorf("template repository not configured")
	}

	existing, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return persistence.EventTemplate{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateTemplateCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.EventTemplate{}, vErr
	}

	updated := existing
	updated.Title = strings.TrimSpace(input.Title)
	updated.StartTime = input.StartTime
	updated.DurationMinutes = input.DurationMinutes
	updated.Packages = input.Packages
	updated.TeamSize = input.TeamSize
	updated.Section = strings.TrimSpace(input.Section)
	updated.Initials = strings.TrimSpace(input.Initials)
	updated.PalletConditionOK = input.PalletConditionOK
	updated.Recurrence = input.Recurrence
	updated.UpdatedAt = s.now()

	if err := s.templates.UpdateTemplate(ctx, updated); err != nil {
		return persistence.EventTemplate{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "template", "update", "template_id", templateID).
		InfoContext(ctx, "template updated")
	return updated, nil
}

// GetTemplate retrieves a template by ID.
func (s *TemplateService) GetTemplate(ctx context.Context, templateID string) (persistence.EventTemplate, error) {
	if s == nil || s.templates == nil {
		return persistence.EventTemplate{}, fmt.Errorf("template repository not configured")
	}
	template, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return persistence.EventTemplate{}, mapRepoError(err)
	}
	return template, nil
}

// ListTemplates enumerates all templates.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]persistence.EventTemplate, error) {
	if s == nil || s.templates == nil {
		return nil, fmt.Errorf("template repository not configured")
	}
	templates, err := s.templates.ListTemplates(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return templates, nil
}

// DeleteTemplate removes a template. Tasks already materialized from it
// survive with their template reference cleared.
func (s *TemplateService) DeleteTemplate(ctx context.Context, templateID string) error {
	if s == nil || s.templates == nil {
		return fmt.Errorf("template repository not configured")
	}
	if err := s.templates.DeleteTemplate(ctx, templateID); err != nil {
		return mapRepoError(err)
	}
	serviceLogger(ctx, s.logger, "template", "delete", "template_id", templateID).
		InfoContext(ctx, "template deleted")
	return nil
}

func validateTemplateCore(input TemplateInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if !input.StartTime.IsValid() {
		vErr.add("start_time", "start time must be within the day")
	}
	if input.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "duration must be positive")
	}
	if input.Packages < 0 {
		vErr.add("packages", "packages cannot be negative")
	}
	if input.TeamSize < 0 {
		vErr.add("team_size", "team size cannot be negative")
	}
	if err := input.Recurrence.Validate(); err != nil {
		vErr.add("recurrence", recurrenceErrorMessage(err))
	}
}

func recurrenceErrorMessage(err error) string {
	switch {
	case errors.Is(err, recurrence.ErrUnknownKind):
		return "unknown recurrence kind"
	case errors.Is(err, recurrence.ErrEmptyWeekdays):
		return "custom recurrence needs at least one weekday"
	case errors.Is(err, recurrence.ErrInvalidWeekday):
		return "weekday out of range"
	case errors.Is(err, recurrence.ErrWindowInverted):
		return "recurrence end date is before its start date"
	default:
		return err.Error()
	}
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("template_id", "referenced template does not exist")
		return vErr
	}
	return err
}
