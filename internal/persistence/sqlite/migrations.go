package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is a single versioned schema change. Migrations are embedded in
// the binary and applied sequentially; the schema_migrations table prevents
// re-execution.
type migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     "001",
		Description: "initial schema",
		SQL: `
CREATE TABLE event_templates (
	id                  TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	start_time          TEXT NOT NULL,
	duration_minutes    INTEGER NOT NULL CHECK (duration_minutes > 0),
	packages            INTEGER NOT NULL DEFAULT 0 CHECK (packages >= 0),
	team_size           INTEGER NOT NULL DEFAULT 0,
	section             TEXT NOT NULL DEFAULT '',
	initials            TEXT NOT NULL DEFAULT '',
	pallet_condition_ok INTEGER NOT NULL DEFAULT 1,
	recurrence_kind     TEXT NOT NULL DEFAULT 'none',
	recurrence_anchor   TEXT,
	recurrence_weekdays TEXT NOT NULL DEFAULT '',
	recurrence_start    TEXT,
	recurrence_end      TEXT,
	recurrence_active   INTEGER NOT NULL DEFAULT 1,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE TABLE tasks (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	date             TEXT NOT NULL,
	start_time       TEXT NOT NULL,
	end_time         TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
	duration_label   TEXT NOT NULL DEFAULT '',
	packages         INTEGER NOT NULL DEFAULT 0,
	completed        INTEGER NOT NULL DEFAULT 0,
	pinned           INTEGER NOT NULL DEFAULT 0,
	template_id      TEXT REFERENCES event_templates(id) ON DELETE SET NULL,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE INDEX idx_tasks_date ON tasks(date);

CREATE TABLE task_assignments (
	task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	member_id TEXT NOT NULL,
	PRIMARY KEY (task_id, member_id)
);

CREATE TABLE working_hours (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	active     INTEGER NOT NULL DEFAULT 1,
	updated_at TEXT NOT NULL
);
`,
	},
	{
		Version:     "002",
		Description: "unique materialization per template and date",
		// Absorbs the duplicate-materialization race: a second expansion of
		// the same template over an overlapping range hits this index and is
		// reported as a skip instead of inserting twice.
		SQL: `
CREATE UNIQUE INDEX idx_tasks_template_date
	ON tasks(template_id, date)
	WHERE template_id IS NOT NULL;
`,
	},
}

// Migrate applies all pending migrations in order, each inside its own
// transaction.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`); err != nil {
		return fmt.Errorf("sqlite: initialize schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := d.versionApplied(ctx, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = d.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("sqlite: migration %s (%s): %w", m.Version, m.Description, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				m.Version, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *DB) versionApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: check migration %s: %w", version, err)
	}
	return count > 0, nil
}
