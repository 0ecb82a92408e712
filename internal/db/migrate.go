package db

import (
	"database/sql"
	"fmt"
)

// Migration is one schema change, applied in its own transaction.
type Migration struct {
	Name string
	SQL  string
}

// All contains the ordered list of migrations to apply. Applied migrations
// are never edited; schema changes go at the end.
var All = []Migration{
	{"files", `CREATE TABLE files (
		id         INTEGER PRIMARY KEY,
		file_path  TEXT UNIQUE NOT NULL,
		language   TEXT NOT NULL DEFAULT 'en',
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`},
	{"scenarios", `CREATE TABLE scenarios (
		id         INTEGER PRIMARY KEY,
		file_id    INTEGER NOT NULL REFERENCES files(id),
		name       TEXT NOT NULL,
		keyword    TEXT NOT NULL DEFAULT 'Scenario',
		line       INTEGER NOT NULL DEFAULT 0,
		content    TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`},
	{"statuses", `CREATE TABLE statuses (
		id          INTEGER PRIMARY KEY,
		scenario_id INTEGER NOT NULL REFERENCES scenarios(id),
		status      TEXT NOT NULL,
		changed_at  DATETIME NOT NULL DEFAULT (datetime('now'))
	)`},
	{"statuses_by_scenario", `CREATE INDEX statuses_by_scenario ON statuses (scenario_id, changed_at)`},
	{"test_links", `CREATE TABLE test_links (
		id          INTEGER PRIMARY KEY,
		scenario_id INTEGER NOT NULL REFERENCES scenarios(id),
		file_path   TEXT NOT NULL,
		line_number INTEGER NOT NULL,
		UNIQUE (scenario_id, file_path, line_number)
	)`},
}

// Migrate brings the schema up to date, recording progress in the
// schema_version table.
func Migrate(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}

	for i := current; i < len(All); i++ {
		if err := apply(db, i+1, All[i]); err != nil {
			return err
		}
	}
	return nil
}

// Version reports the number of applied migrations.
func Version(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func schemaVersion(db *sql.DB) (int, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return 0, fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return 0, fmt.Errorf("initializing schema version: %w", err)
		}
	}
	return Version(db)
}

func apply(db *sql.DB, version int, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d (%s): %w", version, m.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", version, m.Name, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, version); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d (%s): %w", version, m.Name, err)
	}
	return nil
}
