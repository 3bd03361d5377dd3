package repository

import (
	"context"
	"sort"
	"time"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/models"
)

// Memory is an in-process Provider backed by plain maps, used by
// internal/scheduling's test suite as a fast repository.Provider double. Not
// safe for concurrent use across goroutines without external synchronization,
// matching the single-request concurrency model the scheduler assumes.
type Memory struct {
	Tasks          map[string]models.Task
	CalendarEvents map[string]models.CalendarEvent
	Recurring      map[string]models.RecurringEvent
	Dependencies   []models.TaskDependency
}

// NewMemory returns an empty in-memory Provider.
func NewMemory() *Memory {
	return &Memory{
		Tasks:          map[string]models.Task{},
		CalendarEvents: map[string]models.CalendarEvent{},
		Recurring:      map[string]models.RecurringEvent{},
	}
}

func (m *Memory) ListActiveCalendarEvents(_ context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	for _, e := range m.CalendarEvents {
		if e.IsChewyManaged {
			continue
		}
		if e.End.Before(start) || e.Start.After(end) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *Memory) ListSchedulableTasks(_ context.Context, start, _ time.Time) ([]models.Task, error) {
	var out []models.Task
	for _, t := range m.Tasks {
		if t.Status == models.StatusCompleted {
			continue
		}
		if t.DueBy == nil || t.DueBy.Before(start) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].DueBy, out[j].DueBy
		if ai == nil {
			return false
		}
		if aj == nil {
			return true
		}
		return ai.Before(*aj)
	})
	return out, nil
}

func (m *Memory) ListRecurringTemplates(_ context.Context) ([]models.RecurringEvent, error) {
	var out []models.RecurringEvent
	for _, r := range m.Recurring {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListDependencies(_ context.Context) ([]models.TaskDependency, error) {
	return m.Dependencies, nil
}

// AddDependency records a TaskID -> DependencyID edge, silently ignoring a
// duplicate pair to match the sqlite store's INSERT OR IGNORE semantics.
func (m *Memory) AddDependency(_ context.Context, d models.TaskDependency) error {
	for _, existing := range m.Dependencies {
		if existing.TaskID == d.TaskID && existing.DependencyID == d.DependencyID {
			return nil
		}
	}
	m.Dependencies = append(m.Dependencies, d)
	return nil
}

func (m *Memory) ReplaceRecurringInstances(_ context.Context, templateID string, _, _ time.Time, instances []models.Task) error {
	for id, t := range m.Tasks {
		if t.RecurringParentID == templateID {
			delete(m.Tasks, id)
		}
	}
	for _, t := range instances {
		m.Tasks[t.ID] = t
	}
	return nil
}

func (m *Memory) ApplySchedule(_ context.Context, assignments []Assignment) error {
	for _, a := range assignments {
		if _, ok := m.Tasks[a.TaskID]; !ok {
			return cerrors.New(cerrors.KindInternalError, "apply_schedule: unknown task id "+a.TaskID)
		}
	}
	for _, a := range assignments {
		t := m.Tasks[a.TaskID]
		start, end := a.Start, a.End
		t.Start, t.End = &start, &end
		t.Status = models.StatusScheduled
		t.UpdatedAt = time.Now().UTC()
		m.Tasks[a.TaskID] = t
	}
	return nil
}
