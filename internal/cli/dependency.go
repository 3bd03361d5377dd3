package cli

import (
	"fmt"

	"github.com/lkleinbrodt/chewy/internal/models"
)

// DependencyAddCmd records that a task cannot start before another ends.
type DependencyAddCmd struct {
	TaskID       string `arg:"" help:"Task that must wait."`
	DependencyID string `arg:"" help:"Task it waits on."`
}

func (c *DependencyAddCmd) Validate() error {
	if c.TaskID == c.DependencyID {
		return fmt.Errorf("a task cannot depend on itself")
	}
	return nil
}

func (c *DependencyAddCmd) Run(ctx *Context) error {
	dep := models.TaskDependency{TaskID: c.TaskID, DependencyID: c.DependencyID}
	if err := ctx.Store.AddDependency(ctx.stdCtx(), dep); err != nil {
		return fmt.Errorf("failed to add dependency: %w", err)
	}
	fmt.Printf("%s now depends on %s\n", c.TaskID, c.DependencyID)
	return nil
}
