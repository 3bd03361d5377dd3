// Package constants holds small fixed values shared across the CLI entry
// point and command set.
package constants

const (
	AppName           = "chewy"
	DefaultConfigPath = "~/.config/chewy/chewy.db"
	Version           = "v0.1.0"

	// TimeFormat is the wall-clock format accepted by CLI flags ("HH:MM").
	TimeFormat = "15:04"
	// DateFormat is the calendar-day format accepted by CLI flags ("YYYY-MM-DD").
	DateFormat = "2006-01-02"
)
