package scheduling

import (
	"time"

	"github.com/lkleinbrodt/chewy/internal/config"
	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/timeutil"
)

// buildForbiddenZones composes calendar events, weekends, and pre/post-work
// hours into the minimal disjoint set of intervals (in minutes relative to
// periodStart) during which no task may be placed.
func buildForbiddenZones(events []models.CalendarEvent, periodStart, periodEnd time.Time, settings config.Settings) []timeutil.Interval {
	var raw []timeutil.Interval

	for _, e := range events {
		if e.IsChewyManaged {
			continue
		}
		s, en := timeutil.ClipToHorizon(e.Start, e.End, periodStart, periodEnd)
		if s.Before(en) {
			raw = append(raw, toMinutes(periodStart, s, en))
		}
	}

	for day := timeutil.StartOfDay(periodStart); day.Before(periodEnd); day = day.AddDate(0, 0, 1) {
		dayStart := day
		dayEnd := day.AddDate(0, 0, 1)

		if timeutil.IsWeekend(day) {
			s, en := timeutil.ClipToHorizon(dayStart, dayEnd, periodStart, periodEnd)
			if s.Before(en) {
				raw = append(raw, toMinutes(periodStart, s, en))
			}
			continue
		}

		workStart := time.Date(day.Year(), day.Month(), day.Day(), settings.WorkStartHour, 0, 0, 0, time.UTC)
		workEnd := time.Date(day.Year(), day.Month(), day.Day(), settings.WorkEndHour, 0, 0, 0, time.UTC)

		if s, en := timeutil.ClipToHorizon(dayStart, workStart, periodStart, periodEnd); s.Before(en) {
			raw = append(raw, toMinutes(periodStart, s, en))
		}
		if s, en := timeutil.ClipToHorizon(workEnd, dayEnd, periodStart, periodEnd); s.Before(en) {
			raw = append(raw, toMinutes(periodStart, s, en))
		}
	}

	return timeutil.Merge(raw)
}

func toMinutes(origin, start, end time.Time) timeutil.Interval {
	return timeutil.Interval{
		Start: timeutil.ProjectMinutes(origin, start),
		End:   timeutil.ProjectMinutes(origin, end),
	}
}
