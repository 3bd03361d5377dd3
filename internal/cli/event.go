package cli

import (
	"fmt"
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
)

// EventAddCmd records a fixed external obligation.
type EventAddCmd struct {
	Subject      string `arg:"" help:"Event subject."`
	Start        string `short:"s" help:"Start datetime (RFC3339, UTC)." required:""`
	End          string `short:"e" help:"End datetime (RFC3339, UTC)." required:""`
	ChewyManaged bool   `help:"Mark as a chewy-managed block (excluded from the forbidden-zone calculation)." name:"chewy-managed"`
}

func (c *EventAddCmd) Validate() error {
	start, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, c.End)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start must be before end")
	}
	return nil
}

func (c *EventAddCmd) Run(ctx *Context) error {
	start, _ := time.Parse(time.RFC3339, c.Start)
	end, _ := time.Parse(time.RFC3339, c.End)

	event := models.CalendarEvent{
		ID:             models.NewCalendarEventID(),
		Subject:        c.Subject,
		Start:          start.UTC(),
		End:            end.UTC(),
		IsChewyManaged: c.ChewyManaged,
	}
	if err := ctx.Store.AddCalendarEvent(ctx.stdCtx(), event); err != nil {
		return fmt.Errorf("failed to add calendar event: %w", err)
	}
	fmt.Printf("Added calendar event: %s (ID: %s)\n", event.Subject, event.ID)
	return nil
}

// EventListCmd lists calendar events in a window.
type EventListCmd struct {
	Start string `short:"s" help:"Window start (RFC3339, UTC)." required:""`
	End   string `short:"e" help:"Window end (RFC3339, UTC)." required:""`
}

func (c *EventListCmd) Run(ctx *Context) error {
	start, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, c.End)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}

	events, err := ctx.Store.ListAllCalendarEvents(ctx.stdCtx(), start.UTC(), end.UTC())
	if err != nil {
		return fmt.Errorf("failed to list calendar events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No calendar events found")
		return nil
	}
	for _, e := range events {
		managed := ""
		if e.IsChewyManaged {
			managed = " (chewy)"
		}
		fmt.Printf("%s%s: %s - %s (%s)\n", e.Subject, managed,
			e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.ID)
	}
	return nil
}
