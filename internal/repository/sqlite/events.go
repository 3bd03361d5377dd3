package sqlite

import (
	"context"
	"time"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/models"
)

// AddCalendarEvent inserts a fixed external obligation.
func (s *Store) AddCalendarEvent(ctx context.Context, e models.CalendarEvent) error {
	managed := 0
	if e.IsChewyManaged {
		managed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, subject, start, end, is_chewy_managed)
		VALUES (?, ?, ?, ?, ?)`, e.ID, e.Subject, formatTime(e.Start), formatTime(e.End), managed)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "add_calendar_event", err)
	}
	return nil
}

// ListAllCalendarEvents returns every calendar event with end >= start and
// start <= end, including chewy-managed ones (unlike ListActiveCalendarEvents, which the
// scheduler uses and which excludes managed events by contract).
func (s *Store) ListAllCalendarEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, start, end, is_chewy_managed
		FROM calendar_events
		WHERE end >= ? AND start <= ?
		ORDER BY start ASC`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindRepositoryError, "list_all_calendar_events", err)
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
