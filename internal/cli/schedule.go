package cli

import (
	"fmt"
	"time"

	"github.com/lkleinbrodt/chewy/internal/constants"
	"github.com/lkleinbrodt/chewy/internal/scheduling"
)

// ScheduleRunCmd runs the scheduler over a date range and persists results.
type ScheduleRunCmd struct {
	Start string `short:"s" help:"Horizon start date (YYYY-MM-DD, UTC)." required:""`
	End   string `short:"e" help:"Horizon end date, exclusive (YYYY-MM-DD, UTC)." required:""`
}

func (c *ScheduleRunCmd) Validate() error {
	start, err := time.Parse(constants.DateFormat, c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(constants.DateFormat, c.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start must be before end")
	}
	return nil
}

func (c *ScheduleRunCmd) Run(ctx *Context) error {
	start, _ := time.Parse(constants.DateFormat, c.Start)
	end, _ := time.Parse(constants.DateFormat, c.End)

	assignments, status, err := ctx.Scheduler.GenerateSchedule(ctx.stdCtx(), start.UTC(), end.UTC())
	if err != nil {
		return fmt.Errorf("schedule run failed: %w", err)
	}

	switch status {
	case scheduling.StatusFeasible:
		fmt.Printf("Scheduled %d task(s):\n", len(assignments))
		for _, a := range assignments {
			fmt.Printf("  %s: %s - %s\n", a.TaskID, a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339))
		}
	case scheduling.StatusInfeasible:
		fmt.Println("No feasible schedule exists for this window.")
	case scheduling.StatusTimeout:
		fmt.Println("Scheduler timed out before finding a schedule; try a narrower window.")
	}
	return nil
}
