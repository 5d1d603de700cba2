package handlers

import (
	"context"

	"sms-dispatch-gateway/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockDispatchService is a mock implementation of DispatchServiceInterface for testing
type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) Send(ctx context.Context, req models.SendRequest, userID, source string) (*models.SendResult, error) {
	args := m.Called(ctx, req, userID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendResult), args.Error(1)
}

func (m *MockDispatchService) SendBulk(ctx context.Context, req models.BulkSendRequest, userID string) (*models.BulkResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BulkResult), args.Error(1)
}

// MockRateLimiter is a mock implementation of RateLimiterInterface for testing
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockCredentialService is a mock implementation of CredentialServiceInterface for testing
type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) IssueCredential(userID, label string) (*models.Credential, string, error) {
	args := m.Called(userID, label)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Credential), args.String(1), args.Error(2)
}

func (m *MockCredentialService) Deactivate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCredentialService) List(limit, offset int) ([]*models.Credential, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Credential), args.Error(1)
}

// MockLedgerReader is a mock implementation of LedgerReaderInterface for testing
type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) ListByUser(userID string, limit, offset int) ([]*models.LedgerEntry, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}
