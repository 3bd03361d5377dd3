package sqlite

import (
	"context"
	"time"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/models"
)

// AddTask inserts a new one-off task (CLI-facing; not part of
// repository.Provider, which only exposes what the scheduler itself needs).
func (s *Store) AddTask(ctx context.Context, t models.Task) error {
	now := formatTime(time.Now())
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, content, duration_minutes, due_by, time_window_start, time_window_end,
		                    instance_date, recurring_parent_id, status, start, end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Content, t.DurationMinutes(), nullableTime(t.DueBy),
		formatTimeOfDay(t.TimeWindowStart), formatTimeOfDay(t.TimeWindowEnd),
		nullableTime(t.InstanceDate), nullOrString(t.RecurringParentID), string(t.Status),
		nullableTime(t.Start), nullableTime(t.End), formatTime(t.CreatedAt), now)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "add_task", err)
	}
	return nil
}

// GetTask fetches a single task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content, duration_minutes, due_by, time_window_start, time_window_end,
		       instance_date, recurring_parent_id, status, start, end, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// ListAllTasks returns every task regardless of status, ordered by id for
// stable output.
func (s *Store) ListAllTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, duration_minutes, due_by, time_window_start, time_window_end,
		       instance_date, recurring_parent_id, status, start, end, created_at, updated_at
		FROM tasks ORDER BY id`)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepositoryError, "list_all_tasks", err)
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

// CompleteTask marks a task completed.
func (s *Store) CompleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(models.StatusCompleted), formatTime(time.Now()), id)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "complete_task", err)
	}
	return requireAffected(res, id)
}

// DeleteTask removes a task (its dependencies cascade per the schema).
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "delete_task", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res interface{ RowsAffected() (int64, error) }, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "rows_affected", err)
	}
	if affected == 0 {
		return cerrors.New(cerrors.KindInternalError, "unknown id "+id)
	}
	return nil
}

func nullOrString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
