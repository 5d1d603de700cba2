package db

import (
	"database/sql"
	"fmt"

	"sms-dispatch-gateway/internal/models"
)

// LedgerRepository defines the interface for the append-only dispatch ledger.
// There is deliberately no Update or Delete: corrections are new entries that
// reference the original via the supersedes column.
type LedgerRepository interface {
	Append(entry *models.LedgerEntry) error
	GetByID(id int64) (*models.LedgerEntry, error)
	CountSince(userID, source string, sinceUnix int64) (int, error)
	ListByUser(userID string, limit, offset int) ([]*models.LedgerEntry, error)
	ListDueScheduled(nowUnix int64, limit int) ([]*models.LedgerEntry, error)
}

// ledgerRepository implements LedgerRepository interface
type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *sql.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append inserts one immutable ledger entry and fills in the generated ID
func (r *ledgerRepository) Append(entry *models.LedgerEntry) error {
	if entry == nil {
		return fmt.Errorf("ledger entry cannot be nil")
	}

	if entry.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if entry.Status == "" {
		return fmt.Errorf("status is required")
	}
	if entry.Source == "" {
		return fmt.Errorf("source is required")
	}

	query := `
		INSERT INTO ledger_entries (team_key, user_id, message, destination, status,
			source, error, attempted_at, scheduled_for, supersedes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		entry.TeamKey,
		entry.UserID,
		entry.Message,
		entry.Destination,
		entry.Status,
		entry.Source,
		entry.Error,
		entry.AttemptedAt,
		entry.ScheduledFor,
		entry.Supersedes,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ledger entry id: %w", err)
	}
	entry.ID = id

	return nil
}

// GetByID retrieves a ledger entry. Returns (nil, nil) when not found.
func (r *ledgerRepository) GetByID(id int64) (*models.LedgerEntry, error) {
	query := selectColumns + " FROM ledger_entries WHERE id = ?"

	entry := &models.LedgerEntry{}
	err := r.db.QueryRow(query, id).Scan(scanTargets(entry)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return entry, nil
}

// CountSince counts entries for one caller within one source partition at or
// after sinceUnix. This is the rate limiter's read: the ledger itself is the
// source of truth, so the count can never drift from what was recorded.
func (r *ledgerRepository) CountSince(userID, source string, sinceUnix int64) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user ID is required")
	}
	if source == "" {
		return 0, fmt.Errorf("source is required")
	}

	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM ledger_entries WHERE user_id = ? AND source = ? AND attempted_at >= ?",
		userID,
		source,
		sinceUnix,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

// ListByUser retrieves a caller's entries with pagination, newest first
func (r *ledgerRepository) ListByUser(userID string, limit, offset int) ([]*models.LedgerEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := selectColumns + `
		FROM ledger_entries
		WHERE user_id = ?
		ORDER BY attempted_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	return r.list(query, userID, limit, offset)
}

// ListDueScheduled retrieves scheduled entries whose scheduled_for has passed
// and that no later entry has superseded. Entries stay untouched until a
// superseding sent/failed entry is appended for them.
func (r *ledgerRepository) ListDueScheduled(nowUnix int64, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := selectColumns + `
		FROM ledger_entries e
		WHERE e.status = ?
		  AND e.scheduled_for IS NOT NULL
		  AND e.scheduled_for <= ?
		  AND NOT EXISTS (SELECT 1 FROM ledger_entries c WHERE c.supersedes = e.id)
		ORDER BY e.scheduled_for ASC
		LIMIT ?
	`

	return r.list(query, models.StatusScheduled, nowUnix, limit)
}

func (r *ledgerRepository) list(query string, args ...interface{}) ([]*models.LedgerEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		if err := rows.Scan(scanTargets(entry)...); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

const selectColumns = `SELECT id, team_key, user_id, message, destination, status, source, error, attempted_at, scheduled_for, supersedes`

func scanTargets(entry *models.LedgerEntry) []interface{} {
	return []interface{}{
		&entry.ID,
		&entry.TeamKey,
		&entry.UserID,
		&entry.Message,
		&entry.Destination,
		&entry.Status,
		&entry.Source,
		&entry.Error,
		&entry.AttemptedAt,
		&entry.ScheduledFor,
		&entry.Supersedes,
	}
}
