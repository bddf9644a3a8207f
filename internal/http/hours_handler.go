package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

type workingHoursService interface {
	Get(ctx context.Context) (*persistence.WorkingHours, error)
	Set(ctx context.Context, input application.WorkingHoursInput) (persistence.WorkingHours, error)
}

type WorkingHoursHandler struct {
	service   workingHoursService
	responder responder
}

func NewWorkingHoursHandler(service workingHoursService, logger *slog.Logger) *WorkingHoursHandler {
	return &WorkingHoursHandler{service: service, responder: newResponder(logger)}
}

// Get returns the configured window. An unconfigured store is not an error;
// it answers 200 with configured set to false.
func (h *WorkingHoursHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	hours, err := h.service.Get(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if hours == nil {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, workingHoursResponse{Configured: false})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWorkingHoursResponse(*hours))
}

func (h *WorkingHoursHandler) Set(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req workingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	hours, err := h.service.Set(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWorkingHoursResponse(hours))
}

type workingHoursRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"active"`
}

func (r workingHoursRequest) toInput() (application.WorkingHoursInput, error) {
	start, err := civil.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return application.WorkingHoursInput{}, fmt.Errorf("start_time: %w", errInvalidTimeValue)
	}
	end, err := civil.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return application.WorkingHoursInput{}, fmt.Errorf("end_time: %w", errInvalidTimeValue)
	}
	return application.WorkingHoursInput{StartTime: start, EndTime: end, Active: r.Active}, nil
}

type workingHoursResponse struct {
	Configured bool   `json:"configured"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Active     bool   `json:"active,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

func toWorkingHoursResponse(hours persistence.WorkingHours) workingHoursResponse {
	return workingHoursResponse{
		Configured: true,
		StartTime:  hours.StartTime.String(),
		EndTime:    hours.EndTime.String(),
		Active:     hours.Active,
		UpdatedAt:  hours.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
