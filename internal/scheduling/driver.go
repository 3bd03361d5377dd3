// Package scheduling implements the constraint-based scheduler: forbidden
// zone construction, task/window/dependency variable wiring, solver
// invocation, and result translation. It is the core described in §1-§2 of
// the scheduler's design: everything else in the repository is a thin
// adapter around this package.
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/config"
	"github.com/lkleinbrodt/chewy/internal/logger"
	"github.com/lkleinbrodt/chewy/internal/recurrence"
	"github.com/lkleinbrodt/chewy/internal/repository"
	"github.com/lkleinbrodt/chewy/internal/solver"
	"github.com/lkleinbrodt/chewy/internal/timeutil"
)

// Status strings mirror the on-wire contract in §6.
const (
	StatusFeasible   = "Feasible"
	StatusInfeasible = "Infeasible"
	StatusTimeout    = "Timeout"
)

// Scheduler orchestrates a single scheduling request against a repository.
type Scheduler struct {
	repo     repository.Provider
	settings config.Settings
}

// New returns a Scheduler bound to the given repository and settings.
func New(repo repository.Provider, settings config.Settings) *Scheduler {
	return &Scheduler{repo: repo, settings: settings}
}

// GenerateSchedule runs the full pipeline described in §4.7: fetch inputs,
// expand recurrences, build the constraint model, solve, and persist.
// Assignments is nil unless status == StatusFeasible.
func (s *Scheduler) GenerateSchedule(ctx context.Context, periodStart, periodEnd time.Time) ([]repository.Assignment, string, error) {
	if !periodStart.Before(periodEnd) {
		return nil, "", cerrors.New(cerrors.KindInvalidInput, "period_start must be before period_end")
	}

	events, err := s.repo.ListActiveCalendarEvents(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.KindRepositoryError, "list_active_calendar_events", err)
	}
	deps, err := s.repo.ListDependencies(ctx)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.KindRepositoryError, "list_dependencies", err)
	}
	templates, err := s.repo.ListRecurringTemplates(ctx)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.KindRepositoryError, "list_recurring_templates", err)
	}

	for _, tmpl := range templates {
		instances := recurrence.Expand(tmpl, periodStart, periodEnd)
		if err := s.repo.ReplaceRecurringInstances(ctx, tmpl.ID, periodStart, periodEnd, instances); err != nil {
			return nil, "", cerrors.Wrap(cerrors.KindRepositoryError, "replace_recurring_instances", err)
		}
	}

	tasks, err := s.repo.ListSchedulableTasks(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.KindRepositoryError, "list_schedulable_tasks", err)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	model := solver.NewModel()
	horizonMinutes := timeutil.ProjectMinutes(periodStart, periodEnd)

	byID := make(map[string]*taskVar, len(tasks))
	var allIntervals []*solver.IntervalVar
	for _, t := range tasks {
		tv := buildTaskVar(model, t, periodStart, periodEnd, horizonMinutes)
		byID[t.ID] = tv
		allIntervals = append(allIntervals, tv.interval)
	}

	for _, t := range tasks {
		tv := byID[t.ID]
		if tv.task.HasTimeWindow() {
			addWindowConstraint(model, tv, periodStart, periodEnd, s.settings)
		}
	}

	if err := addDependencyConstraints(model, deps, byID); err != nil {
		return nil, "", err
	}

	zones := buildForbiddenZones(events, periodStart, periodEnd, s.settings)
	for i, z := range zones {
		fixed := model.NewFixedInterval(z.Start, z.Len(), fmt.Sprintf("forbidden_%d", i))
		allIntervals = append(allIntervals, fixed)
	}

	model.AddNoOverlap(allIntervals)

	solveCtx, cancel := context.WithTimeout(ctx, s.settings.SolveTimeout)
	defer cancel()

	sv := solver.NewSolver()
	status, err := sv.Solve(solveCtx, model)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.KindInternalError, "solve", err)
	}

	switch status {
	case solver.StatusTimeout:
		logger.Info("schedule run timed out", "period_start", periodStart, "period_end", periodEnd)
		return nil, StatusTimeout, nil
	case solver.StatusInfeasible:
		logger.Info("schedule run infeasible", "period_start", periodStart, "period_end", periodEnd)
		return nil, StatusInfeasible, nil
	case solver.StatusOptimal, solver.StatusFeasible:
		// fall through
	default:
		return nil, "", cerrors.New(cerrors.KindInternalError, "solver returned an unrecognized status")
	}

	assignments := make([]repository.Assignment, 0, len(tasks))
	for _, t := range tasks {
		tv := byID[t.ID]
		startMin := sv.Value(tv.interval.Start)
		start := timeutil.AbsoluteFromMinutes(periodStart, startMin)
		end := start.Add(t.Duration)
		assignments = append(assignments, repository.Assignment{TaskID: t.ID, Start: start, End: end})
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].Start.Before(assignments[j].Start) })

	if err := s.repo.ApplySchedule(ctx, assignments); err != nil {
		return nil, "", cerrors.Wrap(cerrors.KindInternalError, "apply_schedule", err)
	}

	return assignments, StatusFeasible, nil
}
