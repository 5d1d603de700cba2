package router

import (
	"context"

	"sms-dispatch-gateway/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockDispatch struct {
	mock.Mock
}

func (m *MockDispatch) Send(ctx context.Context, req models.SendRequest, userID, source string) (*models.SendResult, error) {
	args := m.Called(ctx, req, userID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendResult), args.Error(1)
}

func (m *MockDispatch) SendBulk(ctx context.Context, req models.BulkSendRequest, userID string) (*models.BulkResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BulkResult), args.Error(1)
}

type MockCredentials struct {
	mock.Mock
}

func (m *MockCredentials) IssueCredential(userID, label string) (*models.Credential, string, error) {
	args := m.Called(userID, label)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Credential), args.String(1), args.Error(2)
}

func (m *MockCredentials) Deactivate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCredentials) List(limit, offset int) ([]*models.Credential, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Credential), args.Error(1)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

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

type MockKeyAuth struct {
	mock.Mock
}

func (m *MockKeyAuth) Authenticate(token string) (*models.Credential, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
