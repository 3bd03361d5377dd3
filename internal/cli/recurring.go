package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
)

// RecurringAddCmd creates a recurring task template.
type RecurringAddCmd struct {
	Content  string `arg:"" help:"Task description."`
	Duration int    `short:"d" help:"Duration in minutes." required:""`
	Weekdays string `short:"w" help:"Comma-separated weekdays (mon,tue,...) this recurs on." required:""`
	Window   string `short:"W" help:"Time window as HH:MM-HH:MM; may cross midnight."`
}

func (c *RecurringAddCmd) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	if _, err := ParseWeekdays(c.Weekdays); err != nil {
		return err
	}
	if c.Window != "" {
		if _, _, err := parseWindow(c.Window); err != nil {
			return err
		}
	}
	return nil
}

func (c *RecurringAddCmd) Run(ctx *Context) error {
	weekdays, err := ParseWeekdays(c.Weekdays)
	if err != nil {
		return err
	}

	rec := models.RecurringEvent{
		ID:         models.NewRecurringEventID(),
		Content:    c.Content,
		Duration:   time.Duration(c.Duration) * time.Minute,
		Recurrence: map[int]bool{},
	}
	for _, wd := range weekdays {
		rec.Recurrence[wd] = true
	}

	if c.Window != "" {
		start, end, err := parseWindow(c.Window)
		if err != nil {
			return err
		}
		rec.TimeWindowStart = &start
		rec.TimeWindowEnd = &end
	}

	if err := ctx.Store.AddRecurringEvent(ctx.stdCtx(), rec); err != nil {
		return fmt.Errorf("failed to add recurring event: %w", err)
	}
	fmt.Printf("Added recurring event: %s (ID: %s)\n", rec.Content, rec.ID)
	return nil
}

// RecurringListCmd lists recurring templates.
type RecurringListCmd struct {
	Verbose bool `help:"Also show derived task IDs for each template." name:"verbose"`
}

func (c *RecurringListCmd) Run(ctx *Context) error {
	templates, err := ctx.Store.ListRecurringTemplates(ctx.stdCtx())
	if err != nil {
		return fmt.Errorf("failed to list recurring events: %w", err)
	}
	if len(templates) == 0 {
		fmt.Println("No recurring events found")
		return nil
	}

	var tasks []models.Task
	if c.Verbose {
		tasks, err = ctx.Store.ListAllTasks(ctx.stdCtx())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
	}

	for _, r := range templates {
		fmt.Printf("%s (%s) - %dm on %s\n", r.Content, r.ID, int(r.Duration/time.Minute), formatRecurrence(r.Recurrence))
		if r.TimeWindowStart != nil && r.TimeWindowEnd != nil {
			fmt.Printf("    window: %02d:%02d-%02d:%02d\n",
				r.TimeWindowStart.Hour, r.TimeWindowStart.Minute, r.TimeWindowEnd.Hour, r.TimeWindowEnd.Minute)
		}
		if c.Verbose {
			var derived []string
			for _, t := range tasks {
				if t.RecurringParentID == r.ID {
					derived = append(derived, t.ID)
				}
			}
			if len(derived) == 0 {
				fmt.Printf("    derived tasks: none\n")
			} else {
				fmt.Printf("    derived tasks: %s\n", strings.Join(derived, ", "))
			}
		}
	}
	return nil
}

// RecurringRmCmd deletes a recurring template and its derived instances.
type RecurringRmCmd struct {
	ID string `arg:"" help:"Recurring event ID."`
}

func (c *RecurringRmCmd) Run(ctx *Context) error {
	if err := ctx.Store.DeleteRecurringEvent(ctx.stdCtx(), c.ID); err != nil {
		return fmt.Errorf("failed to delete recurring event %s: %w", c.ID, err)
	}
	fmt.Printf("Deleted recurring event: %s\n", c.ID)
	return nil
}

var weekdayNames = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func formatRecurrence(rec map[int]bool) string {
	var days []string
	for i, name := range weekdayNames {
		if rec[i] {
			days = append(days, name)
		}
	}
	if len(days) == 0 {
		return "never"
	}
	out := days[0]
	for _, d := range days[1:] {
		out += "," + d
	}
	return out
}

// ParseWeekdays parses a comma-separated list of weekday names ("mon",
// "monday", ...) or 0=Monday numeric indices into a slice of indices.
func ParseWeekdays(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		idx, err := weekdayIndex(part)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return out, nil
}

func weekdayIndex(name string) (int, error) {
	fullNames := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for i, n := range weekdayNames {
		if n == name || fullNames[i] == name {
			return i, nil
		}
	}
	if len(name) == 1 && name[0] >= '0' && name[0] <= '6' {
		return int(name[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", name)
}
