package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

type taskService interface {
	CreateTask(ctx context.Context, input application.TaskInput) (persistence.Task, []string, error)
	UpdateTask(ctx context.Context, taskID string, input application.TaskInput) (persistence.Task, []string, error)
	SetCompleted(ctx context.Context, taskID string, completed bool) (persistence.Task, error)
	SetPinned(ctx context.Context, taskID string, pinned bool) (persistence.Task, error)
	AdjustDelay(ctx context.Context, taskID string, delayMinutes int) (persistence.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	GetTask(ctx context.Context, taskID string) (persistence.Task, error)
	ListForDate(ctx context.Context, date civil.Date) ([]persistence.Task, error)
	ListForRange(ctx context.Context, from, to civil.Date) ([]persistence.Task, error)
}

type TaskHandler struct {
	service   taskService
	responder responder
}

func NewTaskHandler(service taskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{service: service, responder: newResponder(logger)}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	task, conflicts, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderTask(r.Context(), w, task, conflicts, http.StatusCreated)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	task, conflicts, err := h.service.UpdateTask(r.Context(), taskID, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderTask(r.Context(), w, task, conflicts, http.StatusOK)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	task, err := h.service.GetTask(r.Context(), taskID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderTask(r.Context(), w, task, nil, http.StatusOK)
}

// List serves either a single day (?date=) or an inclusive range
// (?from=&to=). Without parameters it serves today's plan.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	dateParam := strings.TrimSpace(query.Get("date"))
	fromParam := strings.TrimSpace(query.Get("from"))
	toParam := strings.TrimSpace(query.Get("to"))

	var (
		tasks []persistence.Task
		err   error
	)
	switch {
	case dateParam != "":
		date, parseErr := civil.ParseDate(dateParam)
		if parseErr != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateParam)
			return
		}
		tasks, err = h.service.ListForDate(r.Context(), date)
	case fromParam != "" || toParam != "":
		if fromParam == "" || toParam == "" {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRangeParams)
			return
		}
		from, fromErr := civil.ParseDate(fromParam)
		to, toErr := civil.ParseDate(toParam)
		if fromErr != nil || toErr != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateParam)
			return
		}
		tasks, err = h.service.ListForRange(r.Context(), from, to)
	default:
		tasks, err = h.service.ListForDate(r.Context(), civil.DateOf(time.Now()))
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTasksResponse{Tasks: toTaskDTOs(tasks)})
}

// Complete toggles the completion flag.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "completed", func(ctx context.Context, taskID string, value bool) (persistence.Task, error) {
		return h.service.SetCompleted(ctx, taskID, value)
	})
}

// Pin toggles the pinned flag.
func (h *TaskHandler) Pin(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "pinned", func(ctx context.Context, taskID string, value bool) (persistence.Task, error) {
		return h.service.SetPinned(ctx, taskID, value)
	})
}

// Delay shifts a task's duration by a number of minutes.
func (h *TaskHandler) Delay(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	var req delayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	task, err := h.service.AdjustDelay(r.Context(), taskID, req.DelayMinutes)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderTask(r.Context(), w, task, nil, http.StatusOK)
}

func (h *TaskHandler) toggle(w http.ResponseWriter, r *http.Request, field string, apply func(context.Context, string, bool) (persistence.Task, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	// An empty body means "set", matching the common client shortcut.
	value := true
	var payload map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
		if v, ok := payload[field]; ok {
			value = v
		}
	}

	task, err := apply(r.Context(), taskID, value)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderTask(r.Context(), w, task, nil, http.StatusOK)
}

func (h *TaskHandler) renderTask(ctx context.Context, w http.ResponseWriter, task persistence.Task, conflicts []string, status int) {
	h.responder.writeJSON(ctx, w, status, taskResponse{
		Task:      toTaskDTO(task),
		Conflicts: conflicts,
	})
}

type taskRequest struct {
	Title              string   `json:"title"`
	Date               string   `json:"date"`
	StartTime          string   `json:"start_time"`
	Packages           int      `json:"packages"`
	PalletConditionOK  *bool    `json:"pallet_condition_ok"`
	ManualDelayMinutes int      `json:"manual_delay_minutes"`
	MemberIDs          []string `json:"member_ids"`
	Pinned             bool     `json:"pinned"`
}

func (r taskRequest) toInput() (application.TaskInput, error) {
	date, err := civil.ParseDate(r.Date)
	if err != nil {
		return application.TaskInput{}, fmt.Errorf("date: %w", errInvalidDateParam)
	}
	start, err := civil.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return application.TaskInput{}, fmt.Errorf("start_time: %w", errInvalidTimeValue)
	}

	palletOK := true
	if r.PalletConditionOK != nil {
		palletOK = *r.PalletConditionOK
	}

	return application.TaskInput{
		Title:              strings.TrimSpace(r.Title),
		Date:               date,
		StartTime:          start,
		Packages:           r.Packages,
		PalletConditionOK:  palletOK,
		ManualDelayMinutes: r.ManualDelayMinutes,
		MemberIDs:          append([]string(nil), r.MemberIDs...),
		Pinned:             r.Pinned,
	}, nil
}

type delayRequest struct {
	DelayMinutes int `json:"delay_minutes"`
}

type taskResponse struct {
	Task      taskDTO  `json:"task"`
	Conflicts []string `json:"conflicts,omitempty"`
}

type listTasksResponse struct {
	Tasks []taskDTO `json:"tasks"`
}

type taskDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationSeconds int      `json:"duration_seconds"`
	DurationLabel   string   `json:"duration_label"`
	Packages        int      `json:"packages"`
	MemberIDs       []string `json:"member_ids"`
	Completed       bool     `json:"completed"`
	Pinned          bool     `json:"pinned"`
	TemplateID      *string  `json:"template_id,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

func toTaskDTO(task persistence.Task) taskDTO {
	return taskDTO{
		ID:              task.ID,
		Title:           task.Title,
		Date:            task.Date.String(),
		StartTime:       task.StartTime.String(),
		EndTime:         task.EndTime.String(),
		DurationSeconds: task.DurationSeconds,
		DurationLabel:   task.DurationLabel,
		Packages:        task.Packages,
		MemberIDs:       append([]string(nil), task.MemberIDs...),
		Completed:       task.Completed,
		Pinned:          task.Pinned,
		TemplateID:      task.TemplateID,
		CreatedAt:       task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toTaskDTOs(tasks []persistence.Task) []taskDTO {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]taskDTO, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskDTO(task))
	}
	return out
}
