// Package repository defines the task-repository contract consumed by the
// scheduler driver, plus in-memory and sqlite-backed implementations.
// Persistence, JSON ingestion, and transport are external collaborators to
// the scheduling core; this package is the seam between them.
package repository

import (
	"context"
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
)

// Assignment is the scheduler's write-back payload for a single task.
type Assignment struct {
	TaskID string
	Start  time.Time
	End    time.Time
}

// Provider is the task repository contract the scheduler driver consumes.
// Implementations must honor the filters and ordering described on each
// method; the driver relies on them rather than re-filtering client-side.
type Provider interface {
	// ListActiveCalendarEvents returns events with end >= start, start <=
	// end, and is_chewy_managed = false, ordered by Start ascending.
	ListActiveCalendarEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error)

	// ListSchedulableTasks returns tasks with status != completed and
	// due_by >= start, ordered by due_by ascending (nulls last).
	ListSchedulableTasks(ctx context.Context, start, end time.Time) ([]models.Task, error)

	// ListRecurringTemplates returns every active RecurringEvent.
	ListRecurringTemplates(ctx context.Context) ([]models.RecurringEvent, error)

	// ListDependencies returns every TaskDependency edge.
	ListDependencies(ctx context.Context) ([]models.TaskDependency, error)

	// ReplaceRecurringInstances atomically deletes every derived Task
	// belonging to templateID, whatever its date, and inserts instances
	// (generated for [start, end)) in their place.
	ReplaceRecurringInstances(ctx context.Context, templateID string, start, end time.Time, instances []models.Task) error

	// ApplySchedule atomically updates start/end/status=scheduled for
	// every listed assignment. It must fail without partial effect if any
	// TaskID is unknown.
	ApplySchedule(ctx context.Context, assignments []Assignment) error
}
