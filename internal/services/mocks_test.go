package services

import (
	"context"

	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/internal/provider"
)

// mockSettings is a map-backed db.SettingsRepository
type mockSettings struct {
	values map[string]string
	getErr error
}

func newMockSettings(values map[string]string) *mockSettings {
	if values == nil {
		values = map[string]string{}
	}
	return &mockSettings{values: values}
}

func (m *mockSettings) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockSettings) Set(key, value string) error {
	m.values[key] = value
	return nil
}

// mockLedger records appended entries in memory and lets tests script reads
type mockLedger struct {
	entries   []*models.LedgerEntry
	appendErr func(entry *models.LedgerEntry) error
	countFunc func(userID, source string, sinceUnix int64) (int, error)
	dueFunc   func(nowUnix int64, limit int) ([]*models.LedgerEntry, error)
	listFunc  func(userID string, limit, offset int) ([]*models.LedgerEntry, error)
}

func (m *mockLedger) Append(entry *models.LedgerEntry) error {
	if m.appendErr != nil {
		if err := m.appendErr(entry); err != nil {
			return err
		}
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLedger) GetByID(id int64) (*models.LedgerEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockLedger) CountSince(userID, source string, sinceUnix int64) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(userID, source, sinceUnix)
	}
	count := 0
	for _, e := range m.entries {
		if e.UserID == userID && e.Source == source && e.AttemptedAt >= sinceUnix {
			count++
		}
	}
	return count, nil
}

func (m *mockLedger) ListByUser(userID string, limit, offset int) ([]*models.LedgerEntry, error) {
	if m.listFunc != nil {
		return m.listFunc(userID, limit, offset)
	}
	return nil, nil
}

func (m *mockLedger) ListDueScheduled(nowUnix int64, limit int) ([]*models.LedgerEntry, error) {
	if m.dueFunc != nil {
		return m.dueFunc(nowUnix, limit)
	}
	return nil, nil
}

// mockProvider scripts provider outcomes and records calls
type mockProvider struct {
	sendFunc func(ctx context.Context, msg provider.Message) error
	calls    []provider.Message
}

func (m *mockProvider) Send(ctx context.Context, msg provider.Message) error {
	m.calls = append(m.calls, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

// mockCredentialRepo is a func-field db.CredentialRepository
type mockCredentialRepo struct {
	createFunc           func(cred *models.Credential) error
	getByIDFunc          func(id string) (*models.Credential, error)
	getByFingerprintFunc func(fingerprint string) (*models.Credential, error)
	listFunc             func(limit, offset int) ([]*models.Credential, error)
	deactivateFunc       func(id string) error
	touchFunc            func(id string, at int64) error
}

func (m *mockCredentialRepo) Create(cred *models.Credential) error {
	if m.createFunc != nil {
		return m.createFunc(cred)
	}
	return nil
}

func (m *mockCredentialRepo) GetByID(id string) (*models.Credential, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return nil, nil
}

func (m *mockCredentialRepo) GetByFingerprint(fingerprint string) (*models.Credential, error) {
	if m.getByFingerprintFunc != nil {
		return m.getByFingerprintFunc(fingerprint)
	}
	return nil, nil
}

func (m *mockCredentialRepo) List(limit, offset int) ([]*models.Credential, error) {
	if m.listFunc != nil {
		return m.listFunc(limit, offset)
	}
	return nil, nil
}

func (m *mockCredentialRepo) Deactivate(id string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(id)
	}
	return nil
}

func (m *mockCredentialRepo) TouchLastUsed(id string, at int64) error {
	if m.touchFunc != nil {
		return m.touchFunc(id, at)
	}
	return nil
}
