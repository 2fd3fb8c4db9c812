package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mmynk/studentbook/internal/storage"
)

// SchemaVersion is the schema version this build writes.
// Version 2 stored plaintext passwords and used 0,0 as "no location";
// any older file is dropped and recreated on open.
const SchemaVersion = 3

// schema contains the SQL statements that create both tables.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    username TEXT PRIMARY KEY,
    phone TEXT NOT NULL,
    password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL DEFAULT '',
    class_name TEXT NOT NULL DEFAULT '',
    section TEXT NOT NULL DEFAULT '',
    school_name TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    dob TEXT NOT NULL DEFAULT '',
    blood_group TEXT NOT NULL DEFAULT '',
    father_name TEXT NOT NULL DEFAULT '',
    mother_name TEXT NOT NULL DEFAULT '',
    parent_contact TEXT NOT NULL DEFAULT '',
    address1 TEXT NOT NULL DEFAULT '',
    address2 TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    zip_code TEXT NOT NULL DEFAULT '',
    emergency_contact TEXT NOT NULL DEFAULT '',
    latitude REAL,
    longitude REAL,
    photo_uri TEXT NOT NULL DEFAULT ''
);
`

// dropSchema removes both tables. Used when the on-disk version is older than SchemaVersion.
// sqlite_sequence is cleared with the students table, so ids restart at 1 after an upgrade.
const dropSchema = `
DROP TABLE IF EXISTS accounts;
DROP TABLE IF EXISTS students;
`

// initializeSchema makes sure both tables exist at SchemaVersion.
// An older version destroys and recreates both tables: there is no data migration.
func initializeSchema(ctx context.Context, db *sql.DB) error {
	current, err := readUserVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return fmt.Errorf("%w: found %d, supported %d", storage.ErrSchemaTooNew, current, SchemaVersion)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if current < SchemaVersion {
		if current > 0 {
			slog.Warn("Schema upgrade drops all accounts and students", "from", current, "to", SchemaVersion)
		}
		if _, err := tx.ExecContext(ctx, dropSchema); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

func readUserVersion(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}) (int, error) {
	var version int
	if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
