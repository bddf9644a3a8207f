package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/config"
	httptransport "github.com/LVcicario/optines-sub000/internal/http"
	"github.com/LVcicario/optines-sub000/internal/jobs"
	"github.com/LVcicario/optines-sub000/internal/logging"
	"github.com/LVcicario/optines-sub000/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", os.Stdout).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, os.Stdout)

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	templateRepo := sqlite.NewTemplateRepository(storage)
	taskRepo := sqlite.NewTaskRepository(storage)
	hoursRepo := sqlite.NewWorkingHoursRepository(storage)

	templateService := application.NewTemplateService(templateRepo, idGenerator, now, logger)
	taskService := application.NewTaskService(taskRepo, templateRepo, hoursRepo, idGenerator, now, logger)
	hoursService := application.NewWorkingHoursService(hoursRepo, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Templates:    httptransport.NewTemplateHandler(templateService, taskService, logger),
		Tasks:        httptransport.NewTaskHandler(taskService, logger),
		Conflicts:    httptransport.NewConflictHandler(taskService, logger),
		WorkingHours: httptransport.NewWorkingHoursHandler(hoursService, logger),
		Health:       httptransport.NewHealthHandler(storage, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})

	expansionJob := jobs.NewExpansionJob(templateRepo, taskService, cfg.ExpansionHorizonDays, now, logger)
	scheduler, err := jobs.NewScheduler(cfg.ExpansionSchedule, expansionJob, logger)
	if err != nil {
		logger.Error("failed to build expansion scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("store operations API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
