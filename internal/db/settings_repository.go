package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SettingsRepository defines the interface for operator-controlled key-value
// switches. Values are read fresh on every call so a flipped switch takes
// effect on the very next request.
type SettingsRepository interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// settingsRepository implements SettingsRepository interface
type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves a setting value. found is false when the key has never been set.
func (r *settingsRepository) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("setting key cannot be empty")
	}

	var value string
	err := r.db.QueryRow(
		"SELECT value FROM system_settings WHERE key = ?",
		key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting: %w", err)
	}

	return value, true, nil
}

// Set upserts a setting value
func (r *settingsRepository) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	_, err := r.db.Exec(
		`INSERT INTO system_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}

	return nil
}
