package recurrence

import (
	"testing"
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
)

func TestExpandWeeklyPattern(t *testing.T) {
	event := models.RecurringEvent{
		ID:         "evt-1",
		Content:    "gym",
		Duration:   45 * time.Minute,
		Recurrence: map[int]bool{0: true, 2: true, 4: true}, // Mon/Wed/Fri
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 7)                        // following Monday, exclusive

	got := Expand(event, start, end)
	if len(got) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(got))
	}
	for _, task := range got {
		if task.RecurringParentID != "evt-1" {
			t.Fatalf("expected parent id evt-1, got %q", task.RecurringParentID)
		}
		if task.DueBy == nil {
			t.Fatalf("expected due_by to be set")
		}
		if task.ID == "" {
			t.Fatalf("expected fresh id")
		}
	}
}

func TestExpandOvernightWindowPushesDueByForward(t *testing.T) {
	ws := &models.TimeOfDay{Hour: 22}
	we := &models.TimeOfDay{Hour: 1}
	event := models.RecurringEvent{
		ID:              "evt-2",
		Content:         "late shift",
		Duration:        30 * time.Minute,
		TimeWindowStart: ws,
		TimeWindowEnd:   we,
		Recurrence:      map[int]bool{0: true},
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 1)

	got := Expand(event, start, end)
	if len(got) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(got))
	}
	inst := got[0]
	if inst.DueBy.Day() != 7 {
		t.Fatalf("expected due_by pushed to the 7th, got %v", inst.DueBy)
	}
}

func TestExpandSkipsNonRecurringDays(t *testing.T) {
	event := models.RecurringEvent{
		ID:         "evt-3",
		Content:    "standup",
		Duration:   15 * time.Minute,
		Recurrence: map[int]bool{}, // never recurs
	}
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	got := Expand(event, start, end)
	if len(got) != 0 {
		t.Fatalf("expected no instances, got %d", len(got))
	}
}
