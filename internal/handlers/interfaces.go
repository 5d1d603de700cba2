package handlers

import (
	"context"

	"sms-dispatch-gateway/internal/models"
)

// DispatchServiceInterface defines the contract for dispatch operations
// This interface is used for dependency injection and testing
type DispatchServiceInterface interface {
	Send(ctx context.Context, req models.SendRequest, userID, source string) (*models.SendResult, error)
	SendBulk(ctx context.Context, req models.BulkSendRequest, userID string) (*models.BulkResult, error)
}

// CredentialServiceInterface defines the contract for credential management
// This interface is used for dependency injection and testing
type CredentialServiceInterface interface {
	IssueCredential(userID, label string) (*models.Credential, string, error)
	Deactivate(id string) error
	List(limit, offset int) ([]*models.Credential, error)
}

// RateLimiterInterface admits or rejects bearer-key requests before dispatch
type RateLimiterInterface interface {
	Allow(userID string) error
}

// LedgerReaderInterface exposes the caller-facing audit trail
type LedgerReaderInterface interface {
	ListByUser(userID string, limit, offset int) ([]*models.LedgerEntry, error)
}
