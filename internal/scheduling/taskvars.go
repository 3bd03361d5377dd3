package scheduling

import (
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/solver"
	"github.com/lkleinbrodt/chewy/internal/timeutil"
)

// taskVar ties a Task to its solver interval and the minute-space horizon
// it was built against, so results can be translated back to datetimes.
type taskVar struct {
	task     models.Task
	interval *solver.IntervalVar
}

// buildTaskVar introduces start/end/interval variables for task T within a
// horizon of horizonMinutes length. Domain edge cases from spec §4.4 are
// applied by calling model.MarkInfeasible() and returning a placeholder
// taskVar (see placeholderTaskVar); callers still continue building (the
// model reports infeasible uniformly rather than panicking or omitting T).
func buildTaskVar(model *solver.Model, task models.Task, periodStart, periodEnd time.Time, horizonMinutes int) *taskVar {
	delta := task.DurationMinutes()

	if delta <= 0 || delta > horizonMinutes {
		model.MarkInfeasible()
		return placeholderTaskVar(model, task, horizonMinutes)
	}

	if task.DueBy != nil {
		if task.DueBy.Before(periodStart) {
			model.MarkInfeasible()
			return placeholderTaskVar(model, task, horizonMinutes)
		}
		dueByMin := timeutil.ProjectMinutes(periodStart, *task.DueBy)
		if dueByMin < delta {
			model.MarkInfeasible()
			return placeholderTaskVar(model, task, horizonMinutes)
		}
	}

	start := model.NewIntVar(0, horizonMinutes-delta, "task_"+task.ID+"_start")
	iv := model.NewIntervalVar(start, delta, "task_"+task.ID)

	if task.DueBy != nil {
		dueByMin := timeutil.ProjectMinutes(periodStart, *task.DueBy)
		model.AddLE(iv.End, dueByMin)
	}

	return &taskVar{task: task, interval: iv}
}

// placeholderTaskVar still allocates a (degenerate) interval for an
// already-infeasible task so downstream constraint builders (dependencies,
// windows) have something to attach to without special-casing a nil
// interval; the model is already marked infeasible and the solver will
// short-circuit regardless of what happens to this variable.
func placeholderTaskVar(model *solver.Model, task models.Task, horizonMinutes int) *taskVar {
	delta := task.DurationMinutes()
	if delta <= 0 {
		delta = 1
	}
	hi := horizonMinutes - delta
	if hi < 0 {
		hi = 0
	}
	start := model.NewIntVar(0, hi, "task_"+task.ID+"_start")
	iv := model.NewIntervalVar(start, delta, "task_"+task.ID)
	return &taskVar{task: task, interval: iv}
}
