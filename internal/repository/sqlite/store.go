// Package sqlite implements repository.Provider on top of a local sqlite
// database, migrated via internal/migration.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/migration"
	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/repository"
	"github.com/lkleinbrodt/chewy/migrations"
)

// Store is a sqlite-backed repository.Provider.
type Store struct {
	path string
	db   *sql.DB
}

// NewStore returns a Store that opens its database lazily via Init or Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// dsn builds the modernc.org/sqlite connection string for path, enabling
// foreign key enforcement on every connection the pool opens. Without this,
// SQLite accepts but silently ignores the schema's ON DELETE CASCADE
// clauses, since FK enforcement is off by default per connection.
func dsn(path string) string {
	return path + "?_pragma=foreign_keys(1)"
}

// Init creates the database file (if absent) and runs every pending
// migration. Safe to call on an already-initialized database.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.runMigrations()
}

// Load opens an already-initialized database, validating its schema
// version without applying migrations.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'chewy init' first")
	}

	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

// SchemaStatus reports the database's current and latest known schema
// versions, for diagnostics.
func (s *Store) SchemaStatus() (current, latest int, err error) {
	runner, err := s.migrationRunner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

// Ping verifies the underlying connection is usable.
func (s *Store) Ping() error {
	var result int
	return s.db.QueryRow("SELECT 1").Scan(&result)
}

func (s *Store) runMigrations() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations()
	return err
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func timeFromNullable(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTimeOfDay(tod *models.TimeOfDay) sql.NullString {
	if tod == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: fmt.Sprintf("%02d:%02d:%02d", tod.Hour, tod.Minute, tod.Second), Valid: true}
}

func parseTimeOfDay(ns sql.NullString) (*models.TimeOfDay, error) {
	if !ns.Valid {
		return nil, nil
	}
	var h, m, sec int
	if _, err := fmt.Sscanf(ns.String, "%d:%d:%d", &h, &m, &sec); err != nil {
		return nil, err
	}
	return &models.TimeOfDay{Hour: h, Minute: m, Second: sec}, nil
}

// ListActiveCalendarEvents implements repository.Provider.
func (s *Store) ListActiveCalendarEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, start, end, is_chewy_managed
		FROM calendar_events
		WHERE is_chewy_managed = 0 AND end >= ? AND start <= ?
		ORDER BY start ASC`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepositoryError, "list_active_calendar_events", err)
	}
	defer rows.Close()

	var out []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		var startStr, endStr string
		var managed int
		if err := rows.Scan(&e.ID, &e.Subject, &startStr, &endStr, &managed); err != nil {
			return nil, cerrors.Wrap(cerrors.KindRepositoryError, "scan calendar_event", err)
		}
		if e.Start, err = parseTime(startStr); err != nil {
			return nil, err
		}
		if e.End, err = parseTime(endStr); err != nil {
			return nil, err
		}
		e.IsChewyManaged = managed != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSchedulableTasks implements repository.Provider.
func (s *Store) ListSchedulableTasks(ctx context.Context, start, _ time.Time) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, duration_minutes, due_by, time_window_start, time_window_end,
		       instance_date, recurring_parent_id, status, start, end, created_at, updated_at
		FROM tasks
		WHERE status != 'completed' AND due_by >= ?
		ORDER BY due_by ASC`, formatTime(start))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepositoryError, "list_schedulable_tasks", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var durationMin int
	var dueBy, winStart, winEnd, instanceDate, parentID, startStr, endStr sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.Content, &durationMin, &dueBy, &winStart, &winEnd,
		&instanceDate, &parentID, &t.Status, &startStr, &endStr, &createdAt, &updatedAt)
	if err != nil {
		return models.Task{}, cerrors.Wrap(cerrors.KindRepositoryError, "scan task", err)
	}

	t.Duration = time.Duration(durationMin) * time.Minute
	if parentID.Valid {
		t.RecurringParentID = parentID.String
	}

	if t.DueBy, err = timeFromNullable(dueBy); err != nil {
		return models.Task{}, err
	}
	if t.Start, err = timeFromNullable(startStr); err != nil {
		return models.Task{}, err
	}
	if t.End, err = timeFromNullable(endStr); err != nil {
		return models.Task{}, err
	}
	if t.TimeWindowStart, err = parseTimeOfDay(winStart); err != nil {
		return models.Task{}, err
	}
	if t.TimeWindowEnd, err = parseTimeOfDay(winEnd); err != nil {
		return models.Task{}, err
	}
	if instanceDate.Valid {
		d, err := parseTime(instanceDate.String)
		if err != nil {
			return models.Task{}, err
		}
		t.InstanceDate = &d
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Task{}, err
	}

	return t, nil
}

// ListRecurringTemplates implements repository.Provider.
func (s *Store) ListRecurringTemplates(ctx context.Context) ([]models.RecurringEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, duration_minutes, time_window_start, time_window_end, recurrence,
		       created_at, updated_at
		FROM recurring_events`)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepositoryError, "list_recurring_templates", err)
	}
	defer rows.Close()

	var out []models.RecurringEvent
	for rows.Next() {
		var r models.RecurringEvent
		var durationMin int
		var winStart, winEnd sql.NullString
		var recurrenceJSON, createdAt, updatedAt string

		if err := rows.Scan(&r.ID, &r.Content, &durationMin, &winStart, &winEnd, &recurrenceJSON, &createdAt, &updatedAt); err != nil {
			return nil, cerrors.Wrap(cerrors.KindRepositoryError, "scan recurring_event", err)
		}
		r.Duration = time.Duration(durationMin) * time.Minute

		if r.TimeWindowStart, err = parseTimeOfDay(winStart); err != nil {
			return nil, err
		}
		if r.TimeWindowEnd, err = parseTimeOfDay(winEnd); err != nil {
			return nil, err
		}
		var weekdays []int
		if err := json.Unmarshal([]byte(recurrenceJSON), &weekdays); err != nil {
			return nil, cerrors.Wrap(cerrors.KindRepositoryError, "unmarshal recurrence", err)
		}
		r.Recurrence = map[int]bool{}
		for _, w := range weekdays {
			r.Recurrence[w] = true
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListDependencies implements repository.Provider.
func (s *Store) ListDependencies(ctx context.Context) ([]models.TaskDependency, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT task_id, dependency_id FROM task_dependencies`)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepositoryError, "list_dependencies", err)
	}
	defer rows.Close()

	var out []models.TaskDependency
	for rows.Next() {
		var d models.TaskDependency
		if err := rows.Scan(&d.TaskID, &d.DependencyID); err != nil {
			return nil, cerrors.Wrap(cerrors.KindRepositoryError, "scan task_dependency", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReplaceRecurringInstances implements repository.Provider: atomic
// delete-then-regenerate of every derived Task for templateID.
func (s *Store) ReplaceRecurringInstances(ctx context.Context, templateID string, _, _ time.Time, instances []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "replace_recurring_instances: begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE recurring_parent_id = ?`, templateID); err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "replace_recurring_instances: delete", err)
	}

	now := formatTime(time.Now())
	for _, t := range instances {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, content, duration_minutes, due_by, time_window_start, time_window_end,
			                    instance_date, recurring_parent_id, status, start, end, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Content, t.DurationMinutes(), nullableTime(t.DueBy),
			formatTimeOfDay(t.TimeWindowStart), formatTimeOfDay(t.TimeWindowEnd),
			nullableTime(t.InstanceDate), templateID, string(models.StatusUnscheduled),
			nullableTime(t.Start), nullableTime(t.End), now, now,
		); err != nil {
			return cerrors.Wrap(cerrors.KindRepositoryError, "replace_recurring_instances: insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "replace_recurring_instances: commit", err)
	}
	return nil
}

// ApplySchedule implements repository.Provider: atomic update of every
// assignment, failing without partial effect if any id is unknown.
func (s *Store) ApplySchedule(ctx context.Context, assignments []repository.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "apply_schedule: begin", err)
	}
	defer tx.Rollback()

	sorted := make([]repository.Assignment, len(assignments))
	copy(sorted, assignments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TaskID < sorted[j].TaskID })

	now := formatTime(time.Now())
	for _, a := range sorted {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks SET start = ?, end = ?, status = ?, updated_at = ?
			WHERE id = ?`, formatTime(a.Start), formatTime(a.End), string(models.StatusScheduled), now, a.TaskID)
		if err != nil {
			return cerrors.Wrap(cerrors.KindRepositoryError, "apply_schedule: update", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return cerrors.Wrap(cerrors.KindRepositoryError, "apply_schedule: rows_affected", err)
		}
		if affected == 0 {
			return cerrors.New(cerrors.KindInternalError, "apply_schedule: unknown task id "+a.TaskID)
		}
	}

	if err := tx.Commit(); err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "apply_schedule: commit", err)
	}
	return nil
}

var _ repository.Provider = (*Store)(nil)
