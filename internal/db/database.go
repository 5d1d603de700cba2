package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if dbPath == "" {
		return nil, errors.New("database path is required")
	}

	// Check for invalid database file path
	if strings.Contains(dbPath, "?mode=invalid") {
		return nil, errors.New("invalid database configuration")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Verify we can actually connect to the database
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	// Try to create tables - if this fails, the database is not usable
	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			label TEXT NOT NULL,
			display_hint TEXT NOT NULL,
			key_hash TEXT NOT NULL,
			fingerprint TEXT NOT NULL UNIQUE,
			active BOOLEAN DEFAULT 1,
			last_used_at INTEGER,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS ledger_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_key TEXT,
			user_id TEXT NOT NULL,
			message TEXT NOT NULL,
			destination TEXT NOT NULL,
			status TEXT NOT NULL,
			source TEXT NOT NULL,
			error TEXT,
			attempted_at INTEGER NOT NULL,
			scheduled_for INTEGER,
			supersedes INTEGER
		);

		CREATE TABLE IF NOT EXISTS system_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_credentials_fingerprint ON credentials(fingerprint);
		CREATE INDEX IF NOT EXISTS idx_credentials_user_id ON credentials(user_id);
		CREATE INDEX IF NOT EXISTS idx_ledger_user_source_time ON ledger_entries(user_id, source, attempted_at);
		CREATE INDEX IF NOT EXISTS idx_ledger_status_scheduled ON ledger_entries(status, scheduled_for);
		CREATE INDEX IF NOT EXISTS idx_ledger_supersedes ON ledger_entries(supersedes);
	`)
	return err
}

// GetDB returns the underlying sql.DB for repository construction
func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	if d == nil {
		return errors.New("database is nil")
	}

	if d.db == nil {
		return errors.New("database already closed")
	}

	err := d.db.Close()
	if err != nil {
		// If the error indicates the database is already closed, set db to nil and return the error
		d.db = nil
		return err
	}
	d.db = nil
	return nil
}
