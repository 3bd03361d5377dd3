package cli

import "fmt"

// InitCmd creates the sqlite database and applies every migration. Safe to
// run again later; Init is idempotent on an already-migrated database.
type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	fmt.Println("chewy storage initialized")
	return nil
}
