package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/LVcicario/optines-sub000/internal/civil"
	"github.com/LVcicario/optines-sub000/internal/persistence"
)

// TaskRepository implements persistence.TaskRepository on SQLite. Task rows
// and their roster assignments are written atomically.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository wires a task repository to the database.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, date, start_time, end_time, duration_seconds,
	duration_label, packages, completed, pinned, template_id, created_at, updated_at`

// CreateTask inserts a task together with its roster.
func (r *TaskRepository) CreateTask(ctx context.Context, task persistence.Task) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO tasks (` + taskColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.ExecContext(ctx, query,
			task.ID,
			task.Title,
			task.Date.String(),
			task.StartTime.String(),
			task.EndTime.String(),
			task.DurationSeconds,
			task.DurationLabel,
			task.Packages,
			boolToInt(task.Completed),
			boolToInt(task.Pinned),
			task.TemplateID,
			task.CreatedAt.UTC().Format(time.RFC3339),
			task.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}
		return replaceRoster(ctx, tx, task.ID, task.MemberIDs)
	})
}

// UpdateTask rewrites a task and replaces its roster.
func (r *TaskRepository) UpdateTask(ctx context.Context, task persistence.Task) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE tasks SET
			title = ?, date = ?, start_time = ?, end_time = ?, duration_seconds = ?,
			duration_label = ?, packages = ?, completed = ?, pinned = ?,
			template_id = ?, updated_at = ?
			WHERE id = ?`

		result, err := tx.ExecContext(ctx, query,
			task.Title,
			task.Date.String(),
			task.StartTime.String(),
			task.EndTime.String(),
			task.DurationSeconds,
			task.DurationLabel,
			task.Packages,
			boolToInt(task.Completed),
			boolToInt(task.Pinned),
			task.TemplateID,
			task.UpdatedAt.UTC().Format(time.RFC3339),
			task.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := ensureRowAffected(result); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM task_assignments WHERE task_id = ?", task.ID); err != nil {
			return mapError(err)
		}
		return replaceRoster(ctx, tx, task.ID, task.MemberIDs)
	})
}

// GetTask retrieves a task and its roster by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row)
	if err != nil {
		return persistence.Task{}, mapError(err)
	}
	if task.MemberIDs, err = r.rosterFor(ctx, id); err != nil {
		return persistence.Task{}, err
	}
	return task, nil
}

// ListTasksForDate returns all tasks on a single date ordered by start time.
func (r *TaskRepository) ListTasksForDate(ctx context.Context, date civil.Date) ([]persistence.Task, error) {
	from := date
	to := date
	return r.ListTasks(ctx, persistence.TaskFilter{From: &from, To: &to})
}

// ListTasks returns tasks matching the filter ordered by date and start time.
func (r *TaskRepository) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var (
		clauses []string
		args    []any
	)
	if filter.From != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.From.String())
	}
	if filter.To != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.To.String())
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY date, start_time, id"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var tasks []persistence.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range tasks {
		if tasks[i].MemberIDs, err = r.rosterFor(ctx, tasks[i].ID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// DeleteTask removes a task; assignments cascade.
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

func (r *TaskRepository) rosterFor(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.db.QueryContext(ctx,
		"SELECT member_id FROM task_assignments WHERE task_id = ?", taskID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, mapError(err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	sort.Strings(members)
	return members, nil
}

func replaceRoster(ctx context.Context, tx *sql.Tx, taskID string, memberIDs []string) error {
	for _, member := range memberIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO task_assignments (task_id, member_id) VALUES (?, ?)",
			taskID, member)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func scanTask(row rowScanner) (persistence.Task, error) {
	var (
		task                 persistence.Task
		date, start, end     string
		completed, pinned    int
		templateID           sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&date,
		&start,
		&end,
		&task.DurationSeconds,
		&task.DurationLabel,
		&task.Packages,
		&completed,
		&pinned,
		&templateID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Task{}, err
	}

	if task.Date, err = civil.ParseDate(date); err != nil {
		return persistence.Task{}, err
	}
	if task.StartTime, err = civil.ParseTimeOfDay(start); err != nil {
		return persistence.Task{}, err
	}
	if task.EndTime, err = civil.ParseTimeOfDay(end); err != nil {
		return persistence.Task{}, err
	}
	task.Completed = completed != 0
	task.Pinned = pinned != 0
	if templateID.Valid {
		task.TemplateID = &templateID.String
	}
	if task.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Task{}, err
	}
	if task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Task{}, err
	}
	return task, nil
}
