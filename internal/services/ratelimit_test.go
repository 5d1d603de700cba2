package services

import (
	"errors"
	"testing"
	"time"

	"sms-dispatch-gateway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name       string
		settings   map[string]string
		count      int
		wantErr    bool
		wantLimit  int
	}{
		{name: "under default limit", settings: nil, count: 99, wantErr: false},
		{name: "at default limit", settings: nil, count: 100, wantErr: true, wantLimit: 100},
		{name: "under configured limit", settings: map[string]string{SettingRateLimitPerHour: "2"}, count: 1, wantErr: false},
		{name: "at configured limit", settings: map[string]string{SettingRateLimitPerHour: "2"}, count: 2, wantErr: true, wantLimit: 2},
		{name: "over configured limit", settings: map[string]string{SettingRateLimitPerHour: "2"}, count: 5, wantErr: true, wantLimit: 2},
		{name: "invalid setting falls back to default", settings: map[string]string{SettingRateLimitPerHour: "lots"}, count: 99, wantErr: false},
		{name: "non-positive setting falls back to default", settings: map[string]string{SettingRateLimitPerHour: "0"}, count: 100, wantErr: true, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockLedger{
				countFunc: func(userID, source string, sinceUnix int64) (int, error) {
					assert.Equal(t, models.SourceAPI, source)
					return tt.count, nil
				},
			}
			limiter := NewLedgerRateLimiter(ledger, newMockSettings(tt.settings), models.SourceAPI)

			err := limiter.Allow("user1")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var rateErr *RateLimitError
			require.ErrorAs(t, err, &rateErr)
			assert.Equal(t, tt.wantLimit, rateErr.Limit)
		})
	}
}

func TestLedgerRateLimiterWindow(t *testing.T) {
	var since int64
	ledger := &mockLedger{
		countFunc: func(userID, source string, sinceUnix int64) (int, error) {
			since = sinceUnix
			return 0, nil
		},
	}
	limiter := NewLedgerRateLimiter(ledger, newMockSettings(nil), models.SourceAPI)

	before := time.Now().Add(-time.Hour).Unix()
	require.NoError(t, limiter.Allow("user1"))
	after := time.Now().Add(-time.Hour).Unix()

	// The window is evaluated at call time against now minus 60 minutes
	assert.GreaterOrEqual(t, since, before)
	assert.LessOrEqual(t, since, after)
}

func TestLedgerRateLimiterCountError(t *testing.T) {
	ledger := &mockLedger{
		countFunc: func(string, string, int64) (int, error) {
			return 0, errors.New("ledger unavailable")
		},
	}
	limiter := NewLedgerRateLimiter(ledger, newMockSettings(nil), models.SourceAPI)

	err := limiter.Allow("user1")
	require.Error(t, err)

	var rateErr *RateLimitError
	assert.False(t, errors.As(err, &rateErr), "ledger failures are not rate-limit rejections")
}

func TestLedgerRateLimiterScenario(t *testing.T) {
	// limit = 2, three requests within one hour: the first two are admitted
	// (the ledger fills as they are recorded), the third is rejected.
	ledger := &mockLedger{}
	settings := newMockSettings(map[string]string{SettingRateLimitPerHour: "2"})
	limiter := NewLedgerRateLimiter(ledger, settings, models.SourceAPI)

	now := time.Now().Unix()
	for i := 0; i < 2; i++ {
		require.NoError(t, limiter.Allow("user1"))
		require.NoError(t, ledger.Append(&models.LedgerEntry{
			UserID:      "user1",
			Message:     "m",
			Destination: "d",
			Status:      models.StatusSent,
			Source:      models.SourceAPI,
			AttemptedAt: now,
		}))
	}

	err := limiter.Allow("user1")
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 2, rateErr.Limit)
	assert.Len(t, ledger.entries, 2, "the rejected request writes no ledger entry")
}
