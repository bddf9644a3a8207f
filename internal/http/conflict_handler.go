package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/LVcicario/optines-sub000/internal/application"
	"github.com/LVcicario/optines-sub000/internal/civil"
)

type conflictChecker interface {
	CheckRosterConflicts(ctx context.Context, params application.ConflictCheckParams) ([]string, error)
}

// ConflictHandler exposes dry-run roster conflict detection so planners can
// probe a slot before committing a task.
type ConflictHandler struct {
	service   conflictChecker
	responder responder
}

func NewConflictHandler(service conflictChecker, logger *slog.Logger) *ConflictHandler {
	return &ConflictHandler{service: service, responder: newResponder(logger)}
}

func (h *ConflictHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req conflictCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	params, err := req.toParams()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	conflicts, err := h.service.CheckRosterConflicts(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictCheckResponse{Conflicts: conflicts})
}

type conflictCheckRequest struct {
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	MemberIDs     []string `json:"member_ids"`
	ExcludeTaskID string   `json:"exclude_task_id,omitempty"`
}

func (r conflictCheckRequest) toParams() (application.ConflictCheckParams, error) {
	date, err := civil.ParseDate(r.Date)
	if err != nil {
		return application.ConflictCheckParams{}, fmt.Errorf("date: %w", errInvalidDateParam)
	}
	start, err := civil.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return application.ConflictCheckParams{}, fmt.Errorf("start_time: %w", errInvalidTimeValue)
	}
	end, err := civil.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return application.ConflictCheckParams{}, fmt.Errorf("end_time: %w", errInvalidTimeValue)
	}

	return application.ConflictCheckParams{
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		MemberIDs:     append([]string(nil), r.MemberIDs...),
		ExcludeTaskID: strings.TrimSpace(r.ExcludeTaskID),
	}, nil
}

type conflictCheckResponse struct {
	Conflicts []string `json:"conflicts"`
}
