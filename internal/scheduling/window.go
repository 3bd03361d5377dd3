package scheduling

import (
	"time"

	"github.com/lkleinbrodt/chewy/internal/config"
	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/solver"
	"github.com/lkleinbrodt/chewy/internal/timeutil"
)

// addWindowConstraint enumerates valid (day, slot) candidates for a task
// with a complete time window and binds its placement to exactly one of
// them via indicator booleans, per §4.6. Tasks without a complete window
// pair are left unconstrained beyond the global forbidden zones (the
// caller should simply not call this for them).
func addWindowConstraint(model *solver.Model, tv *taskVar, periodStart, periodEnd time.Time, settings config.Settings) bool {
	task := tv.task

	days, ok := candidateDays(task, periodStart, periodEnd)
	if !ok {
		model.MarkInfeasible()
		return false
	}

	var slots []timeutil.Interval
	for _, d := range days {
		if slot, ok := buildSlot(d, *task.TimeWindowStart, *task.TimeWindowEnd, periodStart, periodEnd, settings); ok {
			if slot.Len() >= task.DurationMinutes() {
				slots = append(slots, slot)
			}
		}
	}

	if len(slots) == 0 {
		model.MarkInfeasible()
		return false
	}

	bools := make([]*solver.BoolVar, len(slots))
	for i, slot := range slots {
		b := model.NewBoolVar(tv.task.ID + "_slot")
		bools[i] = b
		model.AddGE(tv.interval.Start, slot.Start).OnlyEnforceIf(b)
		model.AddLE(tv.interval.End, slot.End).OnlyEnforceIf(b)
	}
	model.AddExactlyOne(bools)
	return true
}

// candidateDays resolves §4.6 step 1.
func candidateDays(task models.Task, periodStart, periodEnd time.Time) ([]time.Time, bool) {
	if task.InstanceDate != nil {
		d := timeutil.StartOfDay(*task.InstanceDate)
		if d.Before(timeutil.StartOfDay(periodStart)) || !d.Before(periodEnd) {
			return nil, false
		}
		if timeutil.Weekday0Mon(d) >= 5 {
			return nil, false
		}
		return []time.Time{d}, true
	}

	var days []time.Time
	for d := timeutil.StartOfDay(periodStart); d.Before(periodEnd); d = d.AddDate(0, 0, 1) {
		if timeutil.Weekday0Mon(d) < 5 {
			days = append(days, d)
		}
	}
	return days, true
}

// buildSlot resolves §4.6 step 2 for a single candidate day.
func buildSlot(d time.Time, ws, we models.TimeOfDay, periodStart, periodEnd time.Time, settings config.Settings) (timeutil.Interval, bool) {
	winStart := ws.OnDate(d)
	winEnd := we.OnDate(d)
	overnight := we.Before(ws)
	if overnight {
		winEnd = winEnd.AddDate(0, 0, 1)
	}

	clipStart, clipEnd := timeutil.ClipToHorizon(winStart, winEnd, periodStart, periodEnd)
	if !clipStart.Before(clipEnd) {
		return timeutil.Interval{}, false
	}

	workStartToday := time.Date(d.Year(), d.Month(), d.Day(), settings.WorkStartHour, 0, 0, 0, time.UTC)
	workEndToday := time.Date(d.Year(), d.Month(), d.Day(), settings.WorkEndHour, 0, 0, 0, time.UTC)

	lower := clipStart
	if workStartToday.After(lower) {
		lower = workStartToday
	}

	var upper time.Time
	if !overnight {
		upper = clipEnd
		if workEndToday.Before(upper) {
			upper = workEndToday
		}
	} else {
		next := d.AddDate(0, 0, 1)
		if timeutil.Weekday0Mon(next) >= 5 {
			// Crosses midnight into a non-weekday: discard per the
			// resolved open question rather than silently truncate.
			return timeutil.Interval{}, false
		}

		nextWorkStart := time.Date(next.Year(), next.Month(), next.Day(), settings.WorkStartHour, 0, 0, 0, time.UTC)
		nextWorkEnd := time.Date(next.Year(), next.Month(), next.Day(), settings.WorkEndHour, 0, 0, 0, time.UTC)

		upper = clipEnd
		if nextWorkEnd.Before(upper) {
			upper = nextWorkEnd
		}
		if lower.After(d.AddDate(0, 0, 1).Add(-time.Nanosecond)) && nextWorkStart.After(lower) {
			lower = nextWorkStart
		}
	}

	if !lower.Before(upper) {
		return timeutil.Interval{}, false
	}

	return timeutil.Interval{
		Start: timeutil.ProjectMinutes(periodStart, lower),
		End:   timeutil.ProjectMinutes(periodStart, upper),
	}, true
}
