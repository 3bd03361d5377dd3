// Command chewy is a personal task scheduler: it fits one-off and recurring
// tasks around fixed calendar obligations, time windows, and dependency
// chains using a constraint-based solver.
package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/cli"
	"github.com/lkleinbrodt/chewy/internal/config"
	"github.com/lkleinbrodt/chewy/internal/constants"
	"github.com/lkleinbrodt/chewy/internal/logger"
	"github.com/lkleinbrodt/chewy/internal/repository/sqlite"
	"github.com/lkleinbrodt/chewy/internal/scheduling"
)

type cliRoot struct {
	Version   kong.VersionFlag
	DebugMode bool   `help:"Enable debug logging." name:"debug"`
	Config    string `help:"Path to the chewy sqlite database." type:"string" default:"~/.config/chewy/chewy.db" env:"CHEWY_CONFIG"`

	Init cli.InitCmd `cmd:"" help:"Initialize chewy storage."`

	Task struct {
		Add      cli.TaskAddCmd      `cmd:"" help:"Add a one-off task."`
		List     cli.TaskListCmd     `cmd:"" help:"List all tasks."`
		Complete cli.TaskCompleteCmd `cmd:"" help:"Mark a task completed."`
		Rm       cli.TaskRmCmd       `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage one-off tasks."`

	Recurring struct {
		Add  cli.RecurringAddCmd  `cmd:"" help:"Add a recurring task template."`
		List cli.RecurringListCmd `cmd:"" help:"List recurring task templates."`
		Rm   cli.RecurringRmCmd   `cmd:"" help:"Delete a recurring task template."`
	} `cmd:"" help:"Manage recurring task templates."`

	Event struct {
		Add  cli.EventAddCmd  `cmd:"" help:"Add a fixed calendar event."`
		List cli.EventListCmd `cmd:"" help:"List calendar events in a window."`
	} `cmd:"" help:"Manage calendar events."`

	Dependency struct {
		Add cli.DependencyAddCmd `cmd:"" help:"Add a task dependency."`
	} `cmd:"" help:"Manage task dependencies."`

	Schedule struct {
		Run cli.ScheduleRunCmd `cmd:"" help:"Generate and persist a schedule for a date range."`
	} `cmd:"" help:"Run the scheduler."`

	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`

	store *sqlite.Store
}

func (c *cliRoot) AfterApply(kctx *kong.Context) error {
	configPath := c.Config
	if configPath == constants.DefaultConfigPath {
		configPath = os.ExpandEnv(configPath)
	}
	configDir := filepath.Dir(configPath)

	if err := logger.Init(logger.Config{
		Debug:     c.DebugMode,
		ConfigDir: configDir,
	}); err != nil {
		logger.Warn("failed to initialize logger", "error", err)
	}

	store := sqlite.NewStore(configPath)
	c.store = store

	if kctx.Command() != "init" {
		if err := store.Load(); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	root := cliRoot{}
	kctx := kong.Parse(&root,
		kong.Name(constants.AppName),
		kong.Description("Personal task scheduler: fits tasks around calendar events, time windows, and dependencies."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	settings := config.DefaultSettings()
	appCtx := &cli.Context{
		Store:     root.store,
		Scheduler: scheduling.New(root.store, settings),
		Settings:  settings,
	}

	if err := kctx.Run(appCtx); err != nil {
		cerrors.Fatal(err)
	}
}
