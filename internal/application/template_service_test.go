package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
	"github.com/LVcicario/optines-sub000/internal/testfixtures"
)

func validTemplateInput() application.TemplateInput {
	return application.TemplateInput{
		Title:             "Morning delivery",
		StartTime:         civil.TimeOfDayAt(6, 30, 0),
		DurationMinutes:   90,
		Packages:          150,
		TeamSize:          3,
		Section:           "grocery",
		Initials:          "MD",
		PalletConditionOK: true,
		Recurrence: recurrence.Pattern{
			Kind:       recurrence.KindWeekly,
			AnchorDate: testfixtures.ReferenceDate(),
			StartDate:  testfixtures.ReferenceDate(),
			Active:     true,
		},
	}
}

func newTemplateService(repo *stubTemplateRepo) *application.TemplateService {
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("template")
	return application.NewTemplateService(repo, ids.NextFunc(), clock.NowFunc(), nil)
}

func TestTemplateServiceCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*application.TemplateInput)
		field  string
	}{
		{
			name:   "missing title",
			mutate: func(in *application.TemplateInput) { in.Title = "   " },
			field:  "title",
		},
		{
			name:   "zero duration",
			mutate: func(in *application.TemplateInput) { in.DurationMinutes = 0 },
			field:  "duration_minutes",
		},
		{
			name:   "negative packages",
			mutate: func(in *application.TemplateInput) { in.Packages = -1 },
			field:  "packages",
		},
		{
			name:   "negative team size",
			mutate: func(in *application.TemplateInput) { in.TeamSize = -2 },
			field:  "team_size",
		},
		{
			name:   "start time out of range",
			mutate: func(in *application.TemplateInput) { in.StartTime = civil.TimeOfDay(-1) },
			field:  "start_time",
		},
		{
			name: "custom recurrence without weekdays",
			mutate: func(in *application.TemplateInput) {
				in.Recurrence.Kind = recurrence.KindCustom
				in.Recurrence.Weekdays = nil
			},
			field: "recurrence",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := newTemplateService(newStubTemplateRepo())
			input := validTemplateInput()
			tt.mutate(&input)

			_, err := service.CreateTemplate(context.Background(), input)

			var vErr *application.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tt.field]; !ok {
				t.Errorf("missing field %q in %v", tt.field, vErr.FieldErrors)
			}
		})
	}
}

func TestTemplateServiceCreatePersists(t *testing.T) {
	t.Parallel()

	repo := newStubTemplateRepo()
	service := newTemplateService(repo)

	input := validTemplateInput()
	input.Title = "  Morning delivery  "

	created, err := service.CreateTemplate(context.Background(), input)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if created.ID != "template-1" {
		t.Errorf("ID = %q, want template-1", created.ID)
	}
	if created.Title != "Morning delivery" {
		t.Errorf("Title = %q, want trimmed", created.Title)
	}
	if !created.CreatedAt.Equal(testfixtures.ReferenceTime()) {
		t.Errorf("CreatedAt = %v, want clock time", created.CreatedAt)
	}
	if _, ok := repo.templates["template-1"]; !ok {
		t.Errorf("template not stored: %v", repo.templates)
	}
}

func TestTemplateServiceUpdate(t *testing.T) {
	t.Parallel()

	seed := testfixtures.NewTemplateFixture(testfixtures.WithTemplateID("tpl-1"))
	repo := newStubTemplateRepo(seed)
	service := newTemplateService(repo)

	input := validTemplateInput()
	input.Title = "Evening delivery"

	updated, err := service.UpdateTemplate(context.Background(), "tpl-1", input)
	if err != nil {
		t.Fatalf("update template: %v", err)
	}
	if updated.Title != "Evening delivery" {
		t.Errorf("Title = %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(seed.CreatedAt) {
		t.Errorf("CreatedAt changed on update")
	}
	if updated.UpdatedAt.Equal(seed.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed")
	}
}

func TestTemplateServiceUpdateNotFound(t *testing.T) {
	t.Parallel()

	service := newTemplateService(newStubTemplateRepo())
	_, err := service.UpdateTemplate(context.Background(), "missing", validTemplateInput())
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("error = %v, want application.ErrNotFound", err)
	}
}

func TestTemplateServiceDelete(t *testing.T) {
	t.Parallel()

	seed := testfixtures.NewTemplateFixture(testfixtures.WithTemplateID("tpl-1"))
	repo := newStubTemplateRepo(seed)
	service := newTemplateService(repo)

	if err := service.DeleteTemplate(context.Background(), "tpl-1"); err != nil {
		t.Fatalf("delete template: %v", err)
	}
	if err := service.DeleteTemplate(context.Background(), "tpl-1"); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("second delete error = %v, want application.ErrNotFound", err)
	}
}

func TestTemplateServiceList(t *testing.T) {
	t.Parallel()

	repo := newStubTemplateRepo(
		testfixtures.NewTemplateFixture(testfixtures.WithTemplateID("tpl-a")),
		testfixtures.NewTemplateFixture(testfixtures.WithTemplateID("tpl-b")),
	)
	service := newTemplateService(repo)

	templates, err := service.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 2 {
		t.Errorf("len = %d, want 2", len(templates))
	}
}
