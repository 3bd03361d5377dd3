package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "chewy.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndListSchedulableTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:       "t1",
		Content:  "write report",
		Duration: 30 * time.Minute,
		DueBy:    &due,
		Status:   models.StatusUnscheduled,
	}
	if err := store.AddTask(ctx, task); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	got, err := store.ListSchedulableTasks(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if err != nil {
		t.Fatalf("ListSchedulableTasks: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected 1 task t1, got %+v", got)
	}
	if got[0].DurationMinutes() != 30 {
		t.Fatalf("expected duration 30, got %d", got[0].DurationMinutes())
	}
}

func TestCompleteTaskExcludesFromSchedulable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task := models.Task{ID: "t1", Content: "x", Duration: 15 * time.Minute, DueBy: &due}
	if err := store.AddTask(ctx, task); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := store.CompleteTask(ctx, "t1"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	got, err := store.ListSchedulableTasks(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if err != nil {
		t.Fatalf("ListSchedulableTasks: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected completed task excluded, got %+v", got)
	}
}

func TestDeleteTaskCascadesDependencies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if err := store.AddTask(ctx, models.Task{ID: "t1", Content: "depends on t2", Duration: 15 * time.Minute, DueBy: &due}); err != nil {
		t.Fatalf("AddTask t1: %v", err)
	}
	if err := store.AddTask(ctx, models.Task{ID: "t2", Content: "prerequisite", Duration: 15 * time.Minute, DueBy: &due}); err != nil {
		t.Fatalf("AddTask t2: %v", err)
	}
	if err := store.AddDependency(ctx, models.TaskDependency{TaskID: "t1", DependencyID: "t2"}); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	deps, err := store.ListDependencies(ctx)
	if err != nil {
		t.Fatalf("ListDependencies: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("expected 1 dependency before delete, got %d", len(deps))
	}

	if err := store.DeleteTask(ctx, "t2"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	deps, err = store.ListDependencies(ctx)
	if err != nil {
		t.Fatalf("ListDependencies after delete: %v", err)
	}
	if len(deps) != 0 {
		t.Fatalf("expected dependency row to cascade-delete with its task, got %+v", deps)
	}
}

func TestApplyScheduleUnknownIDFailsAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if err := store.AddTask(ctx, models.Task{ID: "t1", Content: "x", Duration: 15 * time.Minute, DueBy: &due}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	err := store.ApplySchedule(ctx, []repository.Assignment{
		{TaskID: "t1", Start: start, End: end},
		{TaskID: "does-not-exist", Start: start, End: end},
	})
	if err == nil {
		t.Fatalf("expected error for unknown task id")
	}

	t1, err := store.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if t1.Status == models.StatusScheduled {
		t.Fatalf("t1 must not be scheduled after a failed batch")
	}
}
