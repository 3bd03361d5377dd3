// Package recurrence expands RecurringEvent templates into concrete Task
// instances for a given planning horizon.
package recurrence

import (
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/timeutil"
)

// Expand materializes one Task per calendar day within [horizonStart,
// horizonEnd) on which event recurs. Each instance gets a fresh ID, a
// due_by of the end of its target day (pushed to the following day if the
// event's time window crosses midnight), and RecurringParentID set to
// event.ID so the result can be distinguished from one-off tasks and
// traced back to its template.
func Expand(event models.RecurringEvent, horizonStart, horizonEnd time.Time) []models.Task {
	var out []models.Task

	day := timeutil.StartOfDay(horizonStart)
	end := timeutil.StartOfDay(horizonEnd)
	if horizonEnd.After(end) {
		// horizonEnd's own partial day still counts as a candidate day.
		end = end.AddDate(0, 0, 1)
	}

	now := day
	for !now.After(end) && now.Before(end) {
		weekday := timeutil.Weekday0Mon(now)
		if event.RecursOn(weekday) {
			out = append(out, instanceFor(event, now))
		}
		now = now.AddDate(0, 0, 1)
	}
	return out
}

func instanceFor(event models.RecurringEvent, date time.Time) models.Task {
	dueDate := date
	if windowCrossesMidnight(event) {
		dueDate = date.AddDate(0, 0, 1)
	}
	dueBy := timeutil.EndOfDay(dueDate)
	instanceDate := date

	return models.Task{
		ID:                models.NewTaskID(),
		Content:           event.Content,
		Duration:          event.Duration,
		DueBy:             &dueBy,
		TimeWindowStart:   event.TimeWindowStart,
		TimeWindowEnd:     event.TimeWindowEnd,
		InstanceDate:      &instanceDate,
		RecurringParentID: event.ID,
		Status:            models.StatusUnscheduled,
	}
}

func windowCrossesMidnight(event models.RecurringEvent) bool {
	if event.TimeWindowStart == nil || event.TimeWindowEnd == nil {
		return false
	}
	return event.TimeWindowEnd.Before(*event.TimeWindowStart)
}
