package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/models"
)

// AddRecurringEvent inserts a new recurring template.
func (s *Store) AddRecurringEvent(ctx context.Context, r models.RecurringEvent) error {
	weekdays := make([]int, 0, len(r.Recurrence))
	for wd, on := range r.Recurrence {
		if on {
			weekdays = append(weekdays, wd)
		}
	}
	recurrenceJSON, err := json.Marshal(weekdays)
	if err != nil {
		return cerrors.Wrap(cerrors.KindInternalError, "marshal recurrence", err)
	}

	now := formatTime(time.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recurring_events (id, content, duration_minutes, time_window_start, time_window_end,
		                               recurrence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Content, int(r.Duration/time.Minute), formatTimeOfDay(r.TimeWindowStart),
		formatTimeOfDay(r.TimeWindowEnd), string(recurrenceJSON), now, now)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "add_recurring_event", err)
	}
	return nil
}

// DeleteRecurringEvent removes a template; its derived tasks cascade per
// the schema's ON DELETE CASCADE.
func (s *Store) DeleteRecurringEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_events WHERE id = ?`, id)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "delete_recurring_event", err)
	}
	return requireAffected(res, id)
}
