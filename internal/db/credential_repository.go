package db

import (
	"database/sql"
	"fmt"
	"time"

	"sms-dispatch-gateway/internal/models"

	"github.com/google/uuid"
)

// CredentialRepository defines the interface for API credential data access.
// Credentials are soft-deleted only: rows are never removed while ledger
// entries reference their owner.
type CredentialRepository interface {
	Create(cred *models.Credential) error
	GetByID(id string) (*models.Credential, error)
	GetByFingerprint(fingerprint string) (*models.Credential, error)
	List(limit, offset int) ([]*models.Credential, error)
	Deactivate(id string) error
	TouchLastUsed(id string, at int64) error
}

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

// Create persists a new credential record
func (r *credentialRepository) Create(cred *models.Credential) error {
	if cred == nil {
		return fmt.Errorf("credential cannot be nil")
	}

	if cred.ID == "" {
		cred.ID = uuid.New().String()
	}

	now := time.Now().Unix()
	if cred.CreatedAt == 0 {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	query := `
		INSERT INTO credentials (id, user_id, label, display_hint, key_hash, fingerprint,
			active, last_used_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		cred.ID,
		cred.UserID,
		cred.Label,
		cred.DisplayHint,
		cred.KeyHash,
		cred.Fingerprint,
		cred.Active,
		cred.LastUsedAt,
		cred.CreatedAt,
		cred.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	return nil
}

// GetByID retrieves a credential by ID. Returns (nil, nil) when not found.
func (r *credentialRepository) GetByID(id string) (*models.Credential, error) {
	if id == "" {
		return nil, fmt.Errorf("credential ID cannot be empty")
	}

	return r.getOne("id = ?", id)
}

// GetByFingerprint retrieves a credential by the SHA-256 fingerprint of its
// raw key. Returns (nil, nil) when not found.
func (r *credentialRepository) GetByFingerprint(fingerprint string) (*models.Credential, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("fingerprint cannot be empty")
	}

	return r.getOne("fingerprint = ?", fingerprint)
}

func (r *credentialRepository) getOne(where string, arg interface{}) (*models.Credential, error) {
	query := `
		SELECT id, user_id, label, display_hint, key_hash, fingerprint,
			active, last_used_at, created_at, updated_at
		FROM credentials
		WHERE ` + where

	cred := &models.Credential{}
	err := r.db.QueryRow(query, arg).Scan(
		&cred.ID,
		&cred.UserID,
		&cred.Label,
		&cred.DisplayHint,
		&cred.KeyHash,
		&cred.Fingerprint,
		&cred.Active,
		&cred.LastUsedAt,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return cred, nil
}

// List retrieves credentials with pagination, newest first
func (r *credentialRepository) List(limit, offset int) ([]*models.Credential, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, label, display_hint, key_hash, fingerprint,
			active, last_used_at, created_at, updated_at
		FROM credentials
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*models.Credential
	for rows.Next() {
		cred := &models.Credential{}
		err := rows.Scan(
			&cred.ID,
			&cred.UserID,
			&cred.Label,
			&cred.DisplayHint,
			&cred.KeyHash,
			&cred.Fingerprint,
			&cred.Active,
			&cred.LastUsedAt,
			&cred.CreatedAt,
			&cred.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, cred)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return creds, nil
}

// Deactivate soft-deletes a credential. The flag is checked on every
// authentication, so deactivation is effective on the next request.
func (r *credentialRepository) Deactivate(id string) error {
	if id == "" {
		return fmt.Errorf("credential ID cannot be empty")
	}

	result, err := r.db.Exec(
		"UPDATE credentials SET active = 0, updated_at = ? WHERE id = ?",
		time.Now().Unix(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate credential: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("credential not found")
	}

	return nil
}

// TouchLastUsed records the last successful authentication time
func (r *credentialRepository) TouchLastUsed(id string, at int64) error {
	if id == "" {
		return fmt.Errorf("credential ID cannot be empty")
	}

	_, err := r.db.Exec(
		"UPDATE credentials SET last_used_at = ? WHERE id = ?",
		at,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	return nil
}
