package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix is prepended to every issued API key so keys are recognisable
// in logs and configuration without exposing the secret itself.
const KeyPrefix = "smsd_"

// Credential represents an API key that external callers present as a bearer
// token. The raw secret is shown exactly once at issue time; only the bcrypt
// hash and a SHA-256 fingerprint (for O(1) lookup) are persisted.
type Credential struct {
	ID          string  `json:"id"`             // UUID
	UserID      string  `json:"user_id"`        // Owning user
	Label       string  `json:"label"`          // Human-readable description
	DisplayHint string  `json:"display_hint"`   // First characters of the raw key, for identification
	KeyHash     string  `json:"-"`              // EXCLUDED from JSON - bcrypt hash of the raw key
	Fingerprint string  `json:"-"`              // EXCLUDED from JSON - SHA-256 hex of the raw key
	Active      bool    `json:"active"`         // Deactivation takes effect on the next request
	LastUsedAt  *int64  `json:"last_used_at,omitempty"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// CreateCredentialRequest represents the request body for issuing a new API key
type CreateCredentialRequest struct {
	Label string `json:"label" binding:"required,min=1,max=100"`
}

// CredentialResponse represents a safe credential representation for API
// responses. The hash and fingerprint are never exposed.
type CredentialResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Label       string `json:"label"`
	DisplayHint string `json:"display_hint"`
	Active      bool   `json:"active"`
	LastUsedAt  *int64 `json:"last_used_at,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// NewCredential creates a new Credential with generated UUID and timestamps.
// The key hash and fingerprint must be filled in by the caller from the raw
// secret before persisting.
func NewCredential(userID, label string) *Credential {
	now := time.Now().Unix()
	return &Credential{
		ID:        uuid.New().String(),
		UserID:    userID,
		Label:     label,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateSecret produces a new raw API key. Keys are opaque: the value
// carries no information beyond the recognisable prefix.
func GenerateSecret() string {
	a := strings.ReplaceAll(uuid.New().String(), "-", "")
	b := strings.ReplaceAll(uuid.New().String(), "-", "")
	return KeyPrefix + a + b
}

// FingerprintSecret returns the SHA-256 hex fingerprint used to look a
// credential up by its raw key.
func FingerprintSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// DisplayHintFor returns the leading characters of a raw key, safe to store
// and show so operators can tell keys apart.
func DisplayHintFor(raw string) string {
	if len(raw) <= 12 {
		return raw
	}
	return raw[:12]
}

// ToResponse converts Credential to CredentialResponse, excluding all
// sensitive fields.
func (c *Credential) ToResponse() *CredentialResponse {
	return &CredentialResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Label:       c.Label,
		DisplayHint: c.DisplayHint,
		Active:      c.Active,
		LastUsedAt:  c.LastUsedAt,
		CreatedAt:   c.CreatedAt,
	}
}
