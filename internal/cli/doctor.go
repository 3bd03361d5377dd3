package cli

import (
	"fmt"
	"time"

	"github.com/lkleinbrodt/chewy/internal/models"
)

// DoctorCmd runs a handful of health checks against the active database.
type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := ctx.Store.Ping(); err != nil {
		fmt.Printf("FAIL database reachable: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("OK   database reachable\n")
		dbReachable = true
	}

	if dbReachable {
		current, latest, err := ctx.Store.SchemaStatus()
		switch {
		case err != nil:
			fmt.Printf("FAIL schema version: %v\n", err)
			hasError = true
		case current < latest:
			fmt.Printf("FAIL migrations incomplete: current %d, latest %d\n", current, latest)
			hasError = true
		case current > latest:
			fmt.Printf("FAIL schema version %d is newer than this binary supports (%d)\n", current, latest)
			hasError = true
		default:
			fmt.Printf("OK   schema version %d\n", current)
		}

		tasks, err := ctx.Store.ListAllTasks(ctx.stdCtx())
		if err != nil {
			fmt.Printf("FAIL data readable: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("OK   data readable (%d task(s))\n", len(tasks))

			if err := checkDanglingDependencies(ctx, tasks); err != nil {
				fmt.Printf("FAIL dependency edges: %v\n", err)
				hasError = true
			} else {
				fmt.Printf("OK   dependency edges\n")
			}

			if err := checkOrphanedRecurringInstances(ctx, tasks); err != nil {
				fmt.Printf("FAIL recurring instances: %v\n", err)
				hasError = true
			} else {
				fmt.Printf("OK   recurring instances\n")
			}
		}
	} else {
		fmt.Println("SKIP schema version: database not reachable")
		fmt.Println("SKIP data readable: database not reachable")
	}

	if err := checkClock(); err != nil {
		fmt.Printf("FAIL clock sanity: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("OK   clock sanity\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed.")
	return nil
}

func checkClock() error {
	now := time.Now().UTC()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkDanglingDependencies reports dependency edges that reference a task
// id no longer present in the database.
func checkDanglingDependencies(ctx *Context, tasks []models.Task) error {
	deps, err := ctx.Store.ListDependencies(ctx.stdCtx())
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	for _, d := range deps {
		if !known[d.TaskID] || !known[d.DependencyID] {
			return fmt.Errorf("edge %s -> %s references a missing task", d.TaskID, d.DependencyID)
		}
	}
	return nil
}

// checkOrphanedRecurringInstances reports derived Task rows whose
// recurring_parent_id no longer matches any template.
func checkOrphanedRecurringInstances(ctx *Context, tasks []models.Task) error {
	templates, err := ctx.Store.ListRecurringTemplates(ctx.stdCtx())
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(templates))
	for _, r := range templates {
		known[r.ID] = true
	}
	for _, t := range tasks {
		if t.RecurringParentID != "" && !known[t.RecurringParentID] {
			return fmt.Errorf("task %s references a deleted recurring template %s", t.ID, t.RecurringParentID)
		}
	}
	return nil
}
