// Package jobs hosts the background work the service runs on a schedule,
// currently the horizon expansion that keeps upcoming template occurrences
// materialized as tasks.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

type templateLister interface {
	ListTemplates(ctx context.Context) ([]persistence.EventTemplate, error)
}

type templateExpander interface {
	ExpandTemplateForRange(ctx context.Context, templateID string, start, end civil.Date) (application.ExpansionResult, error)
}

// ExpansionJob materializes every active template over a rolling horizon so
// stores always see their upcoming tasks without a manual generate step.
// Dates already covered are absorbed by the storage layer and reported back
// as skips, so reruns are harmless.
type ExpansionJob struct {
	templates   templateLister
	expander    templateExpander
	horizonDays int
	now         func() time.Time
	logger      *slog.Logger
}

func NewExpansionJob(templates templateLister, expander templateExpander, horizonDays int, now func() time.Time, logger *slog.Logger) *ExpansionJob {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpansionJob{
		templates:   templates,
		expander:    expander,
		horizonDays: horizonDays,
		now:         now,
		logger:      logger,
	}
}

// Run expands every active template from today through the horizon. A
// failing template is logged and skipped so one broken pattern cannot stall
// the rest of the batch.
func (j *ExpansionJob) Run(ctx context.Context) error {
	start := civil.DateOf(j.now())
	end := start.AddDays(j.horizonDays)
	logger := j.logger.With("job", "horizon_expansion", "start", start.String(), "end", end.String())
	logger.InfoContext(ctx, "expansion run started")

	templates, err := j.templates.ListTemplates(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list templates", "error", err)
		return err
	}

	var created, skipped, failed int
	for _, template := range templates {
		if !template.Recurrence.Active {
			continue
		}

		result, err := j.expander.ExpandTemplateForRange(ctx, template.ID, start, end)
		if err != nil {
			failed++
			logger.ErrorContext(ctx, "template expansion failed",
				"template_id", template.ID, "error", err)
			continue
		}
		created += len(result.Tasks)
		skipped += len(result.Skipped)
	}

	logger.InfoContext(ctx, "expansion run completed",
		"templates", len(templates), "created", created, "skipped", skipped, "failed", failed)
	return nil
}

// Scheduler drives the expansion job on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers the job under the given cron expression (standard
// five-field syntax). The job context carries no deadline; a run is bounded
// by the work itself.
func NewScheduler(schedule string, job *ExpansionJob, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := job.Run(context.Background()); err != nil {
			logger.Error("scheduled expansion failed", "error", err)
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("expansion scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("expansion scheduler stopped")
}
