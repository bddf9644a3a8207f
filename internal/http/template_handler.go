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
	"github.com/LVcicario/optines-sub000/internal/recurrence"
)

type templateService interface {
	CreateTemplate(ctx context.Context, input application.TemplateInput) (persistence.EventTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, input application.TemplateInput) (persistence.EventTemplate, error)
	GetTemplate(ctx context.Context, templateID string) (persistence.EventTemplate, error)
	ListTemplates(ctx context.Context) ([]persistence.EventTemplate, error)
	DeleteTemplate(ctx context.Context, templateID string) error
}

type templateExpander interface {
	ExpandTemplateForDate(ctx context.Context, templateID string, date civil.Date) (application.ExpansionResult, error)
	ExpandTemplateForRange(ctx context.Context, templateID string, start, end civil.Date) (application.ExpansionResult, error)
}

type TemplateHandler struct {
	service   templateService
	expander  templateExpander
	responder responder
}

func NewTemplateHandler(service templateService, expander templateExpander, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{service: service, expander: expander, responder: newResponder(logger)}
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	template, err := h.service.CreateTemplate(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, templateResponse{Template: toTemplateDTO(template)})
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	templateID, ok := TemplateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(templateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTemplateID)
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	template, err := h.service.UpdateTemplate(r.Context(), templateID, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, templateResponse{Template: toTemplateDTO(template)})
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	templateID, ok := TemplateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(templateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTemplateID)
		return
	}

	if err := h.service.DeleteTemplate(r.Context(), templateID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	templateID, ok := TemplateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(templateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTemplateID)
		return
	}

	template, err := h.service.GetTemplate(r.Context(), templateID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, templateResponse{Template: toTemplateDTO(template)})
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTemplatesResponse{Templates: toTemplateDTOs(templates)})
}

// Expand materializes a template for a date or an inclusive date range.
func (h *TemplateHandler) Expand(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.expander == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	templateID, ok := TemplateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(templateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTemplateID)
		return
	}

	var req expandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	var (
		result application.ExpansionResult
		err    error
	)
	switch {
	case req.Date != "":
		date, parseErr := civil.ParseDate(req.Date)
		if parseErr != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateParam)
			return
		}
		result, err = h.expander.ExpandTemplateForDate(r.Context(), templateID, date)
	case req.Start != "" && req.End != "":
		start, startErr := civil.ParseDate(req.Start)
		end, endErr := civil.ParseDate(req.End)
		if startErr != nil || endErr != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateParam)
			return
		}
		result, err = h.expander.ExpandTemplateForRange(r.Context(), templateID, start, end)
	default:
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingExpandBody)
		return
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "template", "expand", "template_id", templateID).
		InfoContext(r.Context(), "expansion finished",
			"created", len(result.Tasks), "skipped", len(result.Skipped))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toExpansionResponse(result))
}

type templateRequest struct {
	Title             string        `json:"title"`
	StartTime         string        `json:"start_time"`
	DurationMinutes   int           `json:"duration_minutes"`
	Packages          int           `json:"packages"`
	TeamSize          int           `json:"team_size"`
	Section           string        `json:"section"`
	Initials          string        `json:"initials"`
	PalletConditionOK *bool         `json:"pallet_condition_ok"`
	Recurrence        recurrenceDTO `json:"recurrence"`
}

func (r templateRequest) toInput() (application.TemplateInput, error) {
	start, err := civil.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return application.TemplateInput{}, fmt.Errorf("start_time: %w", errInvalidTimeValue)
	}
	pattern, err := r.Recurrence.toPattern()
	if err != nil {
		return application.TemplateInput{}, err
	}

	// An omitted pallet flag means the pallet arrived in workable shape.
	palletOK := true
	if r.PalletConditionOK != nil {
		palletOK = *r.PalletConditionOK
	}

	return application.TemplateInput{
		Title:             strings.TrimSpace(r.Title),
		StartTime:         start,
		DurationMinutes:   r.DurationMinutes,
		Packages:          r.Packages,
		TeamSize:          r.TeamSize,
		Section:           strings.TrimSpace(r.Section),
		Initials:          strings.TrimSpace(r.Initials),
		PalletConditionOK: palletOK,
		Recurrence:        pattern,
	}, nil
}

type recurrenceDTO struct {
	Kind       string `json:"kind"`
	AnchorDate string `json:"anchor_date,omitempty"`
	Weekdays   []int  `json:"weekdays,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	Active     bool   `json:"active"`
}

func (d recurrenceDTO) toPattern() (recurrence.Pattern, error) {
	kind, err := recurrence.ParseKind(d.Kind)
	if err != nil {
		return recurrence.Pattern{}, fmt.Errorf("recurrence kind: %w", err)
	}

	pattern := recurrence.Pattern{Kind: kind, Active: d.Active}
	for _, day := range d.Weekdays {
		pattern.Weekdays = append(pattern.Weekdays, time.Weekday(day))
	}

	if d.AnchorDate != "" {
		if pattern.AnchorDate, err = civil.ParseDate(d.AnchorDate); err != nil {
			return recurrence.Pattern{}, fmt.Errorf("anchor_date: %w", errInvalidDateParam)
		}
	}
	if d.StartDate != "" {
		if pattern.StartDate, err = civil.ParseDate(d.StartDate); err != nil {
			return recurrence.Pattern{}, fmt.Errorf("start_date: %w", errInvalidDateParam)
		}
	}
	if d.EndDate != "" {
		endDate, err := civil.ParseDate(d.EndDate)
		if err != nil {
			return recurrence.Pattern{}, fmt.Errorf("end_date: %w", errInvalidDateParam)
		}
		pattern.EndDate = &endDate
	}
	return pattern, nil
}

func toRecurrenceDTO(pattern recurrence.Pattern) recurrenceDTO {
	dto := recurrenceDTO{
		Kind:   string(pattern.Kind),
		Active: pattern.Active,
	}
	for _, day := range pattern.Weekdays {
		dto.Weekdays = append(dto.Weekdays, int(day))
	}
	if !pattern.AnchorDate.IsZero() {
		dto.AnchorDate = pattern.AnchorDate.String()
	}
	if !pattern.StartDate.IsZero() {
		dto.StartDate = pattern.StartDate.String()
	}
	if pattern.EndDate != nil {
		dto.EndDate = pattern.EndDate.String()
	}
	return dto
}

type templateResponse struct {
	Template templateDTO `json:"template"`
}

type listTemplatesResponse struct {
	Templates []templateDTO `json:"templates"`
}

type templateDTO struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	StartTime         string        `json:"start_time"`
	DurationMinutes   int           `json:"duration_minutes"`
	Packages          int           `json:"packages"`
	TeamSize          int           `json:"team_size"`
	Section           string        `json:"section,omitempty"`
	Initials          string        `json:"initials,omitempty"`
	PalletConditionOK bool          `json:"pallet_condition_ok"`
	Recurrence        recurrenceDTO `json:"recurrence"`
	CreatedAt         string        `json:"created_at"`
	UpdatedAt         string        `json:"updated_at"`
}

func toTemplateDTO(template persistence.EventTemplate) templateDTO {
	return templateDTO{
		ID:                template.ID,
		Title:             template.Title,
		StartTime:         template.StartTime.String(),
		DurationMinutes:   template.DurationMinutes,
		Packages:          template.Packages,
		TeamSize:          template.TeamSize,
		Section:           template.Section,
		Initials:          template.Initials,
		PalletConditionOK: template.PalletConditionOK,
		Recurrence:        toRecurrenceDTO(template.Recurrence),
		CreatedAt:         template.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:         template.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toTemplateDTOs(templates []persistence.EventTemplate) []templateDTO {
	if len(templates) == 0 {
		return nil
	}
	out := make([]templateDTO, 0, len(templates))
	for _, template := range templates {
		out = append(out, toTemplateDTO(template))
	}
	return out
}

type expandRequest struct {
	Date  string `json:"date,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type expansionResponse struct {
	Tasks   []taskDTO        `json:"tasks"`
	Skipped []skippedDateDTO `json:"skipped,omitempty"`
}

type skippedDateDTO struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func toExpansionResponse(result application.ExpansionResult) expansionResponse {
	response := expansionResponse{Tasks: toTaskDTOs(result.Tasks)}
	for _, skip := range result.Skipped {
		response.Skipped = append(response.Skipped, skippedDateDTO{
			Date:   skip.Date.String(),
			Reason: skip.Reason,
		})
	}
	return response
}
