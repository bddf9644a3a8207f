package testfixtures

import (
	"log/slog"
	"time"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger overrides the logger passed to constructed services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// TemplateService constructs a template service from the factory defaults.
func (f *ServiceFactory) TemplateService(templates persistence.TemplateRepository) *application.TemplateService {
	return application.NewTemplateService(templates, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// TaskService constructs a task service from the factory defaults.
func (f *ServiceFactory) TaskService(tasks persistence.TaskRepository, templates persistence.TemplateRepository, hours persistence.WorkingHoursRepository) *application.TaskService {
	return application.NewTaskService(tasks, templates, hours, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// WorkingHoursService constructs a working-hours service from the factory
// defaults.
func (f *ServiceFactory) WorkingHoursService(hours persistence.WorkingHoursRepository) *application.WorkingHoursService {
	return application.NewWorkingHoursService(hours, f.Clock.NowFunc(), f.Logger)
}
