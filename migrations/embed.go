// Package migrations embeds the SQL schema files applied by
// internal/migration.Runner.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
