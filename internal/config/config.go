// Package config holds the immutable parameters the scheduler entry point
// is invoked with. Work hours and solve budgets are never read from
// module-level state; callers construct a Settings value and pass it in.
package config

import "time"

// Settings bounds a scheduling run: the daily work envelope and the
// wall-clock budget given to the solver.
type Settings struct {
	// WorkStartHour and WorkEndHour are UTC hours in [0,24] with
	// WorkStartHour < WorkEndHour.
	WorkStartHour int
	WorkEndHour   int

	// SolveTimeout bounds the solver's search; exceeding it yields a
	// Timeout status identical in effect to Infeasible.
	SolveTimeout time.Duration
}

// DefaultSettings returns the scheduler's baseline envelope: a 09:00-17:00
// UTC workday and a 30 second solve budget.
func DefaultSettings() Settings {
	return Settings{
		WorkStartHour: 9,
		WorkEndHour:   17,
		SolveTimeout:  30 * time.Second,
	}
}

// Validate reports whether the settings are internally consistent.
func (s Settings) Validate() bool {
	return s.WorkStartHour >= 0 && s.WorkEndHour <= 24 && s.WorkStartHour < s.WorkEndHour
}
