package sqlite

import (
	"context"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

// WorkingHoursRepository implements persistence.WorkingHoursRepository. The
// schema pins the table to a single row.
type WorkingHoursRepository struct {
	db *DB
}

// NewWorkingHoursRepository wires a working-hours repository to the database.
func NewWorkingHoursRepository(db *DB) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

// GetWorkingHours returns the configured window, or persistence.ErrNotFound
// when none has been set yet.
func (r *WorkingHoursRepository) GetWorkingHours(ctx context.Context) (persistence.WorkingHours, error) {
	row := r.db.db.QueryRowContext(ctx,
		"SELECT start_time, end_time, active, updated_at FROM working_hours WHERE id = 1")

	var (
		start, end, updatedAt string
		active                int
	)
	if err := row.Scan(&start, &end, &active, &updatedAt); err != nil {
		return persistence.WorkingHours{}, mapError(err)
	}

	var (
		hours persistence.WorkingHours
		err   error
	)
	if hours.StartTime, err = civil.ParseTimeOfDay(start); err != nil {
		return persistence.WorkingHours{}, err
	}
	if hours.EndTime, err = civil.ParseTimeOfDay(end); err != nil {
		return persistence.WorkingHours{}, err
	}
	hours.Active = active != 0
	if hours.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.WorkingHours{}, err
	}
	return hours, nil
}

// SetWorkingHours creates or replaces the single working-hours record.
func (r *WorkingHoursRepository) SetWorkingHours(ctx context.Context, hours persistence.WorkingHours) error {
	query := `INSERT INTO working_hours (id, start_time, end_time, active, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_time = excluded.start_time,
			end_time   = excluded.end_time,
			active     = excluded.active,
			updated_at = excluded.updated_at`

	_, err := r.db.db.ExecContext(ctx, query,
		hours.StartTime.String(),
		hours.EndTime.String(),
		boolToInt(hours.Active),
		hours.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}
