package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/lkleinbrodt/chewy/internal/constants"
	"github.com/lkleinbrodt/chewy/internal/models"
)

// TaskAddCmd creates a one-off task.
type TaskAddCmd struct {
	Content  string `arg:"" help:"Task description."`
	Duration int    `short:"d" help:"Duration in minutes." required:""`
	DueBy    string `short:"b" help:"Due-by datetime (RFC3339, UTC)."`
	Window   string `short:"w" help:"Time window as HH:MM-HH:MM."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	if c.DueBy != "" {
		if _, err := time.Parse(time.RFC3339, c.DueBy); err != nil {
			return fmt.Errorf("invalid due-by (expected RFC3339): %w", err)
		}
	}
	if c.Window != "" {
		if _, _, err := parseWindow(c.Window); err != nil {
			return err
		}
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	task := models.Task{
		ID:       models.NewTaskID(),
		Content:  c.Content,
		Duration: time.Duration(c.Duration) * time.Minute,
		Status:   models.StatusUnscheduled,
	}

	if c.DueBy != "" {
		due, _ := time.Parse(time.RFC3339, c.DueBy)
		due = due.UTC()
		task.DueBy = &due
	}

	if c.Window != "" {
		start, end, err := parseWindow(c.Window)
		if err != nil {
			return err
		}
		task.TimeWindowStart = &start
		task.TimeWindowEnd = &end
	}

	if err := ctx.Store.AddTask(ctx.stdCtx(), task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("Added task: %s (ID: %s)\n", task.Content, task.ID)
	return nil
}

// parseWindow parses "HH:MM-HH:MM" into two TimeOfDay values.
func parseWindow(s string) (models.TimeOfDay, models.TimeOfDay, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return models.TimeOfDay{}, models.TimeOfDay{}, fmt.Errorf("invalid window %q, expected HH:MM-HH:MM", s)
	}
	start, err := parseTimeOfDayFlag(parts[0])
	if err != nil {
		return models.TimeOfDay{}, models.TimeOfDay{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := parseTimeOfDayFlag(parts[1])
	if err != nil {
		return models.TimeOfDay{}, models.TimeOfDay{}, fmt.Errorf("invalid window end: %w", err)
	}
	return start, end, nil
}

func parseTimeOfDayFlag(s string) (models.TimeOfDay, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return models.TimeOfDay{}, err
	}
	return models.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// TaskListCmd lists every task.
type TaskListCmd struct {
	PendingOnly bool `help:"Show only tasks not yet completed." name:"pending-only"`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	tasks, err := ctx.Store.ListAllTasks(ctx.stdCtx())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	for _, t := range tasks {
		if c.PendingOnly && t.Status == models.StatusCompleted {
			continue
		}
		fmt.Printf("[%s] %s (%s) - %dm\n", t.Status, t.Content, t.ID, t.DurationMinutes())
		if t.DueBy != nil {
			fmt.Printf("    due: %s\n", t.DueBy.Format(time.RFC3339))
		}
		if t.HasTimeWindow() {
			fmt.Printf("    window: %02d:%02d-%02d:%02d\n",
				t.TimeWindowStart.Hour, t.TimeWindowStart.Minute, t.TimeWindowEnd.Hour, t.TimeWindowEnd.Minute)
		}
		if t.Start != nil {
			fmt.Printf("    scheduled: %s - %s\n", t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339))
		}
	}
	return nil
}

// TaskCompleteCmd marks a task completed.
type TaskCompleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskCompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.CompleteTask(ctx.stdCtx(), c.ID); err != nil {
		return fmt.Errorf("failed to complete task %s: %w", c.ID, err)
	}
	fmt.Printf("Completed task: %s\n", c.ID)
	return nil
}

// TaskRmCmd deletes a task.
type TaskRmCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskRmCmd) Run(ctx *Context) error {
	if err := ctx.Store.DeleteTask(ctx.stdCtx(), c.ID); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", c.ID, err)
	}
	fmt.Printf("Deleted task: %s\n", c.ID)
	return nil
}
