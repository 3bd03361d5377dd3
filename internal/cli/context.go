// Package cli implements chewy's command-line surface: a kong command tree
// over the sqlite repository and the scheduler driver.
package cli

import (
	"context"

	"github.com/lkleinbrodt/chewy/internal/config"
	"github.com/lkleinbrodt/chewy/internal/repository/sqlite"
	"github.com/lkleinbrodt/chewy/internal/scheduling"
)

// Context is threaded into every command's Run method by kong.
type Context struct {
	Store     *sqlite.Store
	Scheduler *scheduling.Scheduler
	Settings  config.Settings
}

// stdCtx returns the background context used for repository calls. Kong
// commands have no request-scoped context of their own to thread through.
func (c *Context) stdCtx() context.Context {
	return context.Background()
}
