package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/lkleinbrodt/chewy/internal/config"
	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/repository"
)

func testSettings() config.Settings {
	return config.Settings{WorkStartHour: 15, WorkEndHour: 23, SolveTimeout: 5 * time.Second}
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tm
}

func TestGenerateScheduleTrivial(t *testing.T) {
	repo := repository.NewMemory()
	dueBy := mustParse(t, "2025-01-07T23:00:00Z")
	task := models.Task{
		ID:       "t1",
		Content:  "write report",
		Duration: 60 * time.Minute,
		DueBy:    &dueBy,
		Status:   models.StatusUnscheduled,
	}
	repo.Tasks[task.ID] = task

	sched := New(repo, testSettings())
	start := mustParse(t, "2025-01-06T00:00:00Z")
	end := mustParse(t, "2025-01-09T00:00:00Z")

	assignments, status, err := sched.GenerateSchedule(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusFeasible {
		t.Fatalf("status = %q, want Feasible", status)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}
	a := assignments[0]
	workStart := mustParse(t, "2025-01-06T15:00:00Z")
	if a.Start.Before(workStart) {
		t.Fatalf("start %v before work hours begin %v", a.Start, workStart)
	}
	if a.End.After(dueBy) {
		t.Fatalf("end %v after due_by %v", a.End, dueBy)
	}
}

func TestGenerateScheduleAvoidsCalendarConflict(t *testing.T) {
	repo := repository.NewMemory()
	dueBy := mustParse(t, "2025-01-08T23:00:00Z")
	task := models.Task{ID: "t1", Content: "call", Duration: 60 * time.Minute, DueBy: &dueBy, Status: models.StatusUnscheduled}
	repo.Tasks[task.ID] = task
	repo.CalendarEvents["e1"] = models.CalendarEvent{
		ID:      "e1",
		Subject: "busy",
		Start:   mustParse(t, "2025-01-06T16:00:00Z"),
		End:     mustParse(t, "2025-01-06T17:00:00Z"),
	}

	sched := New(repo, testSettings())
	start := mustParse(t, "2025-01-06T00:00:00Z")
	end := mustParse(t, "2025-01-09T00:00:00Z")

	assignments, status, err := sched.GenerateSchedule(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusFeasible {
		t.Fatalf("status = %q, want Feasible", status)
	}
	a := assignments[0]
	conflictStart := mustParse(t, "2025-01-06T16:00:00Z")
	conflictEnd := mustParse(t, "2025-01-06T17:00:00Z")
	if a.Start.Before(conflictEnd) && conflictStart.Before(a.End) {
		t.Fatalf("assignment [%v,%v) overlaps forbidden zone [%v,%v)", a.Start, a.End, conflictStart, conflictEnd)
	}
}

func TestGenerateScheduleDependencyChain(t *testing.T) {
	repo := repository.NewMemory()
	dueBy := mustParse(t, "2025-01-08T23:00:00Z")
	for _, id := range []string{"a", "b", "c"} {
		repo.Tasks[id] = models.Task{ID: id, Content: id, Duration: 60 * time.Minute, DueBy: &dueBy, Status: models.StatusUnscheduled}
	}
	repo.Dependencies = []models.TaskDependency{
		{TaskID: "c", DependencyID: "b"},
		{TaskID: "b", DependencyID: "a"},
	}

	sched := New(repo, testSettings())
	start := mustParse(t, "2025-01-06T00:00:00Z")
	end := mustParse(t, "2025-01-09T00:00:00Z")

	assignments, status, err := sched.GenerateSchedule(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusFeasible {
		t.Fatalf("status = %q, want Feasible", status)
	}

	byID := map[string]repository.Assignment{}
	for _, a := range assignments {
		byID[a.TaskID] = a
	}
	if byID["a"].End.After(byID["b"].Start) {
		t.Fatalf("a must end before or when b starts: a.end=%v b.start=%v", byID["a"].End, byID["b"].Start)
	}
	if byID["b"].End.After(byID["c"].Start) {
		t.Fatalf("b must end before or when c starts: b.end=%v c.start=%v", byID["b"].End, byID["c"].Start)
	}
}

func TestGenerateScheduleDependencyCycleIsFatal(t *testing.T) {
	repo := repository.NewMemory()
	dueBy := mustParse(t, "2025-01-08T23:00:00Z")
	repo.Tasks["a"] = models.Task{ID: "a", Content: "a", Duration: 30 * time.Minute, DueBy: &dueBy}
	repo.Tasks["b"] = models.Task{ID: "b", Content: "b", Duration: 30 * time.Minute, DueBy: &dueBy}
	repo.Dependencies = []models.TaskDependency{
		{TaskID: "a", DependencyID: "b"},
		{TaskID: "b", DependencyID: "a"},
	}

	sched := New(repo, testSettings())
	start := mustParse(t, "2025-01-06T00:00:00Z")
	end := mustParse(t, "2025-01-09T00:00:00Z")

	_, _, err := sched.GenerateSchedule(context.Background(), start, end)
	if err == nil {
		t.Fatalf("expected a dependency cycle error")
	}
}

func TestGenerateScheduleWindow(t *testing.T) {
	repo := repository.NewMemory()
	dueBy := mustParse(t, "2025-01-06T23:59:59Z")
	ws := &models.TimeOfDay{Hour: 13}
	we := &models.TimeOfDay{Hour: 16}
	repo.Tasks["t1"] = models.Task{
		ID: "t1", Content: "focus block", Duration: 60 * time.Minute,
		DueBy: &dueBy, TimeWindowStart: ws, TimeWindowEnd: we,
	}

	settings := config.Settings{WorkStartHour: 9, WorkEndHour: 17, SolveTimeout: 5 * time.Second}
	sched := New(repo, settings)
	start := mustParse(t, "2025-01-06T00:00:00Z")
	end := mustParse(t, "2025-01-07T00:00:00Z")

	assignments, status, err := sched.GenerateSchedule(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusFeasible {
		t.Fatalf("status = %q, want Feasible", status)
	}
	a := assignments[0]
	if a.Start.Hour() < 13 || a.Start.Hour() > 15 {
		t.Fatalf("start hour %d not in [13,15]", a.Start.Hour())
	}
	windowEnd := mustParse(t, "2025-01-06T16:00:00Z")
	if a.End.After(windowEnd) {
		t.Fatalf("end %v after window end %v", a.End, windowEnd)
	}
}

func TestGenerateScheduleWeeklyRecurrence(t *testing.T) {
	repo := repository.NewMemory()
	ws := &models.TimeOfDay{Hour: 10}
	we := &models.TimeOfDay{Hour: 15}
	repo.Recurring["evt"] = models.RecurringEvent{
		ID: "evt", Content: "gym", Duration: 45 * time.Minute,
		TimeWindowStart: ws, TimeWindowEnd: we,
		Recurrence: map[int]bool{0: true, 3: true},
	}

	settings := config.Settings{WorkStartHour: 8, WorkEndHour: 18, SolveTimeout: 5 * time.Second}
	sched := New(repo, settings)
	start := mustParse(t, "2025-01-06T00:00:00Z") // Monday
	end := start.AddDate(0, 0, 7)

	assignments, status, err := sched.GenerateSchedule(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusFeasible {
		t.Fatalf("status = %q, want Feasible", status)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 derived assignments, got %d", len(assignments))
	}
}

func TestGenerateScheduleInfeasibleDeadline(t *testing.T) {
	repo := repository.NewMemory()
	start := mustParse(t, "2025-01-06T00:00:00Z")
	dueBy := start.Add(30 * time.Minute)
	repo.Tasks["t1"] = models.Task{ID: "t1", Content: "too big", Duration: 120 * time.Minute, DueBy: &dueBy}

	sched := New(repo, testSettings())
	end := start.AddDate(0, 0, 3)

	assignments, status, err := sched.GenerateSchedule(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusInfeasible {
		t.Fatalf("status = %q, want Infeasible", status)
	}
	if assignments != nil {
		t.Fatalf("expected no assignments on infeasible result")
	}
	if repo.Tasks["t1"].Status == models.StatusScheduled {
		t.Fatalf("infeasible run must not write back task state")
	}
}
