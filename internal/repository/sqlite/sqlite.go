// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, so the
// binary cross-compiles anywhere Go runs and tests can use ":memory:"
// databases with zero setup.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns the lifecycle: New opens and migrates,
// Close flushes the WAL and releases the file lock on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database at dbPath (":memory:" for tests) and runs
// migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must be
	// capped at one or each pooled connection would see a different,
	// empty database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight; the busy timeout
	// makes a second writer wait instead of failing with SQLITE_BUSY,
	// which is what serializes concurrent saved-job toggles.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent
// across restarts.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                   TEXT PRIMARY KEY,
			fullname             TEXT NOT NULL,
			email                TEXT NOT NULL UNIQUE,
			password_hash        TEXT NOT NULL,
			phone_number         TEXT NOT NULL,
			role                 TEXT NOT NULL,
			bio                  TEXT NOT NULL DEFAULT '',
			skills               TEXT NOT NULL DEFAULT '[]',
			resume_url           TEXT NOT NULL DEFAULT '',
			resume_original_name TEXT NOT NULL DEFAULT '',
			profile_photo_url    TEXT NOT NULL DEFAULT '',
			created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS companies (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			logo_url TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating companies table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			position    INTEGER NOT NULL DEFAULT 1,
			job_type    TEXT NOT NULL DEFAULT '',
			salary      INTEGER NOT NULL DEFAULT 0,
			company_id  TEXT NOT NULL REFERENCES companies(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_company_id ON jobs(company_id);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	// The saved-job relation. The composite primary key makes duplicate
	// membership impossible by schema, whatever the application does.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS saved_jobs (
			user_id  TEXT NOT NULL REFERENCES users(id),
			job_id   TEXT NOT NULL,
			saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, job_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating saved_jobs table: %w", err)
	}

	return nil
}
