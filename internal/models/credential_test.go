package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredential(t *testing.T) {
	cred := NewCredential("user-123", "ci pipeline")

	assert.NotEmpty(t, cred.ID, "ID should be generated")
	assert.Equal(t, "user-123", cred.UserID)
	assert.Equal(t, "ci pipeline", cred.Label)
	assert.True(t, cred.Active, "new credential should be active")
	assert.Nil(t, cred.LastUsedAt)
	assert.Empty(t, cred.KeyHash, "hash is filled in by the caller")
	assert.Empty(t, cred.Fingerprint, "fingerprint is filled in by the caller")
	assert.Greater(t, cred.CreatedAt, int64(0), "CreatedAt should be set")
	assert.Greater(t, cred.UpdatedAt, int64(0), "UpdatedAt should be set")
}

func TestGenerateSecret(t *testing.T) {
	a := GenerateSecret()
	b := GenerateSecret()

	assert.True(t, strings.HasPrefix(a, KeyPrefix))
	assert.True(t, strings.HasPrefix(b, KeyPrefix))
	assert.NotEqual(t, a, b, "secrets must be unique")
	assert.Greater(t, len(a), 40, "secret should carry enough entropy")
	assert.NotContains(t, a, "-")
}

func TestFingerprintSecret(t *testing.T) {
	raw := GenerateSecret()

	fp1 := FingerprintSecret(raw)
	fp2 := FingerprintSecret(raw)

	assert.Equal(t, fp1, fp2, "fingerprint must be deterministic")
	assert.Len(t, fp1, 64, "SHA-256 hex")
	assert.NotEqual(t, fp1, FingerprintSecret(raw+"x"))
}

func TestDisplayHintFor(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "long key is truncated",
			raw:      "smsd_abcdef0123456789",
			expected: "smsd_abcdef0",
		},
		{
			name:     "short value kept whole",
			raw:      "smsd_ab",
			expected: "smsd_ab",
		},
		{
			name:     "empty",
			raw:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayHintFor(tt.raw))
		})
	}
}

func TestCredentialJSONExcludesSecrets(t *testing.T) {
	cred := NewCredential("user-123", "ci pipeline")
	cred.KeyHash = "bcrypt-hash-value"
	cred.Fingerprint = "fingerprint-value"

	data, err := json.Marshal(cred)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "bcrypt-hash-value")
	assert.NotContains(t, string(data), "fingerprint-value")
	assert.Contains(t, string(data), "ci pipeline")
}

func TestCredential_ToResponse(t *testing.T) {
	lastUsed := int64(1713000000)
	cred := &Credential{
		ID:          "cred-123",
		UserID:      "user-123",
		Label:       "ci pipeline",
		DisplayHint: "smsd_abcdef0",
		KeyHash:     "hash",
		Fingerprint: "fp",
		Active:      true,
		LastUsedAt:  &lastUsed,
		CreatedAt:   1712000000,
	}

	resp := cred.ToResponse()

	assert.Equal(t, "cred-123", resp.ID)
	assert.Equal(t, "user-123", resp.UserID)
	assert.Equal(t, "ci pipeline", resp.Label)
	assert.Equal(t, "smsd_abcdef0", resp.DisplayHint)
	assert.True(t, resp.Active)
	require.NotNil(t, resp.LastUsedAt)
	assert.Equal(t, lastUsed, *resp.LastUsedAt)
	assert.Equal(t, int64(1712000000), resp.CreatedAt)
}
