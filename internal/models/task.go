// Package models defines the scheduling domain entities: Task,
// RecurringEvent, CalendarEvent, and TaskDependency.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Task.
type Status string

const (
	StatusUnscheduled Status = "unscheduled"
	StatusScheduled    Status = "scheduled"
	StatusCompleted    Status = "completed"
)

// Kind distinguishes how a Task came to exist; it is derived, not stored.
type Kind string

const (
	KindOneOff    Kind = "one-off"
	KindRecurring Kind = "recurring"
)

// TimeOfDay is a wall-clock time of day, independent of any date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Before reports whether t sorts earlier than o on a 24h clock, compared
// at minute resolution (Second is ignored).
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.minutes() < o.minutes()
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// OnDate returns the UTC datetime combining date's calendar day with t's
// wall-clock time.
func (t TimeOfDay) OnDate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// Task is a schedulable unit: either a one-off task or a derived instance
// of a RecurringEvent.
type Task struct {
	ID      string
	Content string
	Duration time.Duration // stored as a duration but always a whole number of minutes

	DueBy *time.Time // UTC, optional

	TimeWindowStart *TimeOfDay
	TimeWindowEnd   *TimeOfDay

	// InstanceDate identifies the target calendar day for a recurring
	// instance. Nil for a plain one-off task.
	InstanceDate *time.Time

	// RecurringParentID is a weak back-reference to the RecurringEvent
	// that produced this instance. Empty for a one-off task.
	RecurringParentID string

	Status Status
	Start  *time.Time
	End    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes returns the task's duration as a plain integer count of
// minutes, the unit the constraint model operates in.
func (t Task) DurationMinutes() int {
	return int(t.Duration / time.Minute)
}

// Kind reports whether this task is a one-off or a recurring-event
// instance. Mirrors the original system's task_type derived property.
func (t Task) Kind() Kind {
	if t.RecurringParentID != "" {
		return KindRecurring
	}
	return KindOneOff
}

// HasTimeWindow reports whether both window bounds are present.
func (t Task) HasTimeWindow() bool {
	return t.TimeWindowStart != nil && t.TimeWindowEnd != nil
}

// WindowIsOvernight reports whether the task's time window crosses
// midnight (end strictly earlier than start on the same wall clock).
func (t Task) WindowIsOvernight() bool {
	if !t.HasTimeWindow() {
		return false
	}
	return t.TimeWindowEnd.Before(*t.TimeWindowStart)
}

// NewTaskID generates a fresh task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// RecurringEvent is a template that owns derived Task instances.
type RecurringEvent struct {
	ID       string
	Content  string
	Duration time.Duration

	TimeWindowStart *TimeOfDay
	TimeWindowEnd   *TimeOfDay

	// Recurrence is the set of weekday indices (0=Monday .. 6=Sunday) on
	// which this event produces a derived Task instance.
	Recurrence map[int]bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecursOn reports whether this event recurs on the given 0=Monday weekday.
func (r RecurringEvent) RecursOn(weekday0Mon int) bool {
	return r.Recurrence[weekday0Mon]
}

// NewRecurringEventID generates a fresh recurring-event identifier.
func NewRecurringEventID() string {
	return uuid.NewString()
}

// CalendarEvent is a fixed external obligation. Only events with
// IsChewyManaged == false obstruct scheduling.
type CalendarEvent struct {
	ID              string
	Subject         string
	Start           time.Time
	End             time.Time
	IsChewyManaged bool
}

// NewCalendarEventID generates a fresh calendar-event identifier.
func NewCalendarEventID() string {
	return uuid.NewString()
}

// TaskDependency is a directed edge TaskID -> DependencyID meaning TaskID
// cannot start before DependencyID ends.
type TaskDependency struct {
	TaskID       string
	DependencyID string
}
