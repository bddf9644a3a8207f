package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
	"github.com/LVcicario/optines-sub000/internal/recurrence"
)

// TemplateRepository implements persistence.TemplateRepository on SQLite.
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository wires a template repository to the database.
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, title, start_time, duration_minutes, packages, team_size,
	section, initials, pallet_condition_ok, recurrence_kind, recurrence_anchor,
	recurrence_weekdays, recurrence_start, recurrence_end, recurrence_active,
	created_at, updated_at`

// CreateTemplate inserts a new event template.
func (r *TemplateRepository) CreateTemplate(ctx context.Context, template persistence.EventTemplate) error {
	query := `INSERT INTO event_templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.db.ExecContext(ctx, query,
		template.ID,
		template.Title,
		template.StartTime.String(),
		template.DurationMinutes,
		template.Packages,
		template.TeamSize,
		template.Section,
		template.Initials,
		boolToInt(template.PalletConditionOK),
		string(template.Recurrence.Kind),
		nullableDate(template.Recurrence.AnchorDate),
		encodeWeekdays(template.Recurrence.Weekdays),
		nullableDate(template.Recurrence.StartDate),
		nullableDatePtr(template.Recurrence.EndDate),
		boolToInt(template.Recurrence.Active),
		template.CreatedAt.UTC().Format(time.RFC3339),
		template.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateTemplate rewrites an existing template.
func (r *TemplateRepository) UpdateTemplate(ctx context.Context, template persistence.EventTemplate) error {
	query := `UPDATE event_templates SET
		title = ?, start_time = ?, duration_minutes = ?, packages = ?, team_size = ?,
		section = ?, initials = ?, pallet_condition_ok = ?, recurrence_kind = ?,
		recurrence_anchor = ?, recurrence_weekdays = ?, recurrence_start = ?,
		recurrence_end = ?, recurrence_active = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.db.ExecContext(ctx, query,
		template.Title,
		template.StartTime.String(),
		template.DurationMinutes,
		template.Packages,
		template.TeamSize,
		template.Section,
		template.Initials,
		boolToInt(template.PalletConditionOK),
		string(template.Recurrence.Kind),
		nullableDate(template.Recurrence.AnchorDate),
		encodeWeekdays(template.Recurrence.Weekdays),
		nullableDate(template.Recurrence.StartDate),
		nullableDatePtr(template.Recurrence.EndDate),
		boolToInt(template.Recurrence.Active),
		template.UpdatedAt.UTC().Format(time.RFC3339),
		template.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

// GetTemplate retrieves a template by ID.
func (r *TemplateRepository) GetTemplate(ctx context.Context, id string) (persistence.EventTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM event_templates WHERE id = ?`
	row := r.db.db.QueryRowContext(ctx, query, id)
	template, err := scanTemplate(row)
	if err != nil {
		return persistence.EventTemplate{}, mapError(err)
	}
	return template, nil
}

// ListTemplates returns all templates ordered by creation time.
func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]persistence.EventTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM event_templates ORDER BY created_at, id`
	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var templates []persistence.EventTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, mapError(err)
		}
		templates = append(templates, template)
	}
	return templates, mapError(rows.Err())
}

// DeleteTemplate removes a template. The ON DELETE SET NULL reference on
// tasks clears the back-reference while keeping the tasks themselves.
func (r *TemplateRepository) DeleteTemplate(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM event_templates WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (persistence.EventTemplate, error) {
	var (
		template             persistence.EventTemplate
		startTime            string
		palletOK, active     int
		kind, weekdays       string
		anchor, start, end   sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(
		&template.ID,
		&template.Title,
		&startTime,
		&template.DurationMinutes,
		&template.Packages,
		&template.TeamSize,
		&template.Section,
		&template.Initials,
		&palletOK,
		&kind,
		&anchor,
		&weekdays,
		&start,
		&end,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.EventTemplate{}, err
	}

	if template.StartTime, err = civil.ParseTimeOfDay(startTime); err != nil {
		return persistence.EventTemplate{}, err
	}
	template.PalletConditionOK = palletOK != 0

	pattern := recurrence.Pattern{
		Kind:   recurrence.Kind(kind),
		Active: active != 0,
	}
	if pattern.Weekdays, err = decodeWeekdays(weekdays); err != nil {
		return persistence.EventTemplate{}, err
	}
	if anchor.Valid {
		if pattern.AnchorDate, err = civil.ParseDate(anchor.String); err != nil {
			return persistence.EventTemplate{}, err
		}
	}
	if start.Valid {
		if pattern.StartDate, err = civil.ParseDate(start.String); err != nil {
			return persistence.EventTemplate{}, err
		}
	}
	if end.Valid {
		endDate, err := civil.ParseDate(end.String)
		if err != nil {
			return persistence.EventTemplate{}, err
		}
		pattern.EndDate = &endDate
	}
	template.Recurrence = pattern

	if template.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.EventTemplate{}, err
	}
	if template.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.EventTemplate{}, err
	}
	return template, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func nullableDate(date civil.Date) any {
	if date.IsZero() {
		return nil
	}
	return date.String()
}

func nullableDatePtr(date *civil.Date) any {
	if date == nil {
		return nil
	}
	return date.String()
}

func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(int(day)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(value string) ([]time.Weekday, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("sqlite: invalid weekday %q: %w", part, err)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func ensureRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
