package services

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sms-dispatch-gateway/internal/db"
	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/pkg/logger"

	"go.uber.org/zap"
)

const (
	// BcryptCost is the cost parameter for bcrypt key hashing
	BcryptCost = 12

	// MaxLabelLength is the maximum length for credential labels
	MaxLabelLength = 100
)

// CredentialService issues and authenticates API credentials
type CredentialService struct {
	repo db.CredentialRepository
}

// NewCredentialService creates a new credential service
func NewCredentialService(repo db.CredentialRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// IssueCredential creates a new credential and returns it together with the
// raw secret. The raw value is shown exactly once; only the bcrypt hash and
// a SHA-256 fingerprint are stored.
func (s *CredentialService) IssueCredential(userID, label string) (*models.Credential, string, error) {
	if userID == "" {
		return nil, "", fmt.Errorf("user ID is required")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, "", fmt.Errorf("label is required")
	}
	if len(label) > MaxLabelLength {
		return nil, "", fmt.Errorf("label must be at most %d characters", MaxLabelLength)
	}

	raw := models.GenerateSecret()

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash credential: %w", err)
	}

	cred := models.NewCredential(userID, label)
	cred.KeyHash = string(hash)
	cred.Fingerprint = models.FingerprintSecret(raw)
	cred.DisplayHint = models.DisplayHintFor(raw)

	if err := s.repo.Create(cred); err != nil {
		return nil, "", err
	}

	logger.Info("API credential issued",
		zap.String("credential_id", cred.ID),
		zap.String("user_id", userID),
	)

	return cred, raw, nil
}

// Authenticate resolves a bearer token to its credential record iff it
// exists and is active; otherwise ErrUnauthenticated. Malformed tokens are
// rejected before any database work.
func (s *CredentialService) Authenticate(token string) (*models.Credential, error) {
	if token == "" || !strings.HasPrefix(token, models.KeyPrefix) {
		return nil, ErrUnauthenticated
	}

	cred, err := s.repo.GetByFingerprint(models.FingerprintSecret(token))
	if err != nil {
		return nil, err
	}
	if cred == nil || !cred.Active {
		return nil, ErrUnauthenticated
	}

	// The fingerprint lookup is the fast path; the bcrypt comparison is the
	// authoritative check.
	if err := bcrypt.CompareHashAndPassword([]byte(cred.KeyHash), []byte(token)); err != nil {
		return nil, ErrUnauthenticated
	}

	now := time.Now().Unix()
	if err := s.repo.TouchLastUsed(cred.ID, now); err != nil {
		// Tracking failure must not block an otherwise valid request
		logger.Warn("Failed to update credential last-used",
			zap.String("credential_id", cred.ID),
			zap.Error(err),
		)
	} else {
		cred.LastUsedAt = &now
	}

	return cred, nil
}

// Deactivate soft-deletes a credential. All subsequent requests presenting
// the key fail authentication.
func (s *CredentialService) Deactivate(id string) error {
	if id == "" {
		return fmt.Errorf("credential ID is required")
	}

	cred, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if cred == nil {
		return ErrCredentialNotFound
	}

	if err := s.repo.Deactivate(id); err != nil {
		return err
	}

	logger.Info("API credential deactivated", zap.String("credential_id", id))
	return nil
}

// List retrieves credentials with pagination
func (s *CredentialService) List(limit, offset int) ([]*models.Credential, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(limit, offset)
}
