package migration

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fakeMigrations() fstest.MapFS {
	return fstest.MapFS{
		"001_init.sql":       &fstest.MapFile{Data: []byte(`CREATE TABLE widgets (id INTEGER PRIMARY KEY);`)},
		"002_add_column.sql": &fstest.MapFile{Data: []byte(`ALTER TABLE widgets ADD COLUMN name TEXT;`)},
	}
}

func TestGetCurrentVersionStartsAtZero(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fakeMigrations())

	v, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected 0, got %d", v)
	}
}

func TestReadMigrationFilesSortedAndParsed(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fakeMigrations())

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Fatalf("expected versions 1,2 in order, got %d,%d", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].Name != "init" {
		t.Fatalf("expected name init, got %s", migrations[0].Name)
	}
}

func TestReadMigrationFilesRejectsDuplicateVersion(t *testing.T) {
	db := setupTestDB(t)
	fs := fstest.MapFS{
		"001_a.sql": &fstest.MapFile{Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"001_b.sql": &fstest.MapFile{Data: []byte(`CREATE TABLE b (id INTEGER);`)},
	}
	runner := NewRunner(db, fs)

	if _, err := runner.ReadMigrationFiles(); err == nil {
		t.Fatalf("expected error for duplicate migration version")
	}
}

func TestApplyMigrationsAppliesAllPending(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fakeMigrations())

	applied, err := runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 applied, got %d", applied)
	}

	v, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected version 2 after apply, got %d", v)
	}

	if _, err := db.Exec(`INSERT INTO widgets (id, name) VALUES (1, 'gizmo')`); err != nil {
		t.Fatalf("expected migrated schema to accept insert: %v", err)
	}

	history, err := runner.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Version != 1 || history[0].Name != "init" {
		t.Fatalf("expected first entry version 1 name init, got %+v", history[0])
	}
	if history[1].Version != 2 || history[1].Name != "add_column" {
		t.Fatalf("expected second entry version 2 name add_column, got %+v", history[1])
	}
	if history[0].AppliedAt.IsZero() || history[1].AppliedAt.IsZero() {
		t.Fatalf("expected non-zero applied_at timestamps")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fakeMigrations())

	if _, err := runner.ApplyMigrations(); err != nil {
		t.Fatalf("first ApplyMigrations: %v", err)
	}
	applied, err := runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected 0 applied on second run, got %d", applied)
	}

	history, err := runner.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected history to still hold 2 entries after no-op run, got %d", len(history))
	}
}

func TestValidateVersionRejectsFutureSchema(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fakeMigrations())

	if err := runner.EnsureSchemaVersionTable(); err != nil {
		t.Fatalf("EnsureSchemaVersionTable: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version, name, applied_at) VALUES (99, 'future', '2026-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("seed version: %v", err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Fatalf("expected error for schema version ahead of known migrations")
	}
}
