// Package storage persists graph snapshots and the signal journal in a local
// SQLite database. The engine itself never touches storage; the CLI host
// loads a graph, runs operations, and saves the result back here.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the SQLite connection.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the database at <dataDir>/cee.db, creating the data
// directory and schema as needed.
func Open(dataDir string, logger *slog.Logger) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "cee.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	db := &DB{conn: conn, logger: logger, dbPath: dbPath}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.dbPath
}

// WithTx runs fn inside a transaction, rolling back on error.
func (db *DB) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

const currentSchemaVersion = 1

func (db *DB) initSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS graph_snapshot (
				id TEXT PRIMARY KEY,
				course_id TEXT NOT NULL,
				user_id TEXT NOT NULL DEFAULT '',
				version INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				payload BLOB NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_snapshot_scope
				ON graph_snapshot(course_id, user_id, created_at)`,
			`CREATE TABLE IF NOT EXISTS signal_journal (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				course_id TEXT NOT NULL,
				user_id TEXT NOT NULL DEFAULT '',
				concept_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				recorded_at TEXT NOT NULL,
				payload TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_journal_scope
				ON signal_journal(course_id, user_id, id)`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}

		var version int
		err := tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
				return fmt.Errorf("set schema version: %w", err)
			}
			db.logger.Info("database schema initialized", "version", currentSchemaVersion, "path", db.dbPath)
		case err != nil:
			return fmt.Errorf("read schema version: %w", err)
		case version > currentSchemaVersion:
			return fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, currentSchemaVersion)
		}
		return nil
	})
}
