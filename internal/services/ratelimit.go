package services

import (
	"strconv"
	"time"

	"sms-dispatch-gateway/internal/db"
	"sms-dispatch-gateway/pkg/logger"

	"go.uber.org/zap"
)

// Settings keys consumed (not owned) by the dispatch core. Both are read
// fresh on every request so operator changes take effect immediately.
const (
	SettingEnableLiveSMS    = "enable_live_sms"
	SettingRateLimitPerHour = "rate_limit_per_hour"
)

// DefaultRateLimitPerHour applies when the operator has never set a limit
const DefaultRateLimitPerHour = 100

// RateLimiter admits or rejects a caller's request. Implementations other
// than the ledger-backed one (fixed window, token bucket) can be substituted
// without touching the orchestrator.
type RateLimiter interface {
	// Allow returns nil to admit the request or *RateLimitError to reject it
	Allow(userID string) error
}

// LedgerRateLimiter counts ledger entries for the caller within a trailing
// 60-minute window, scoped to the external-API partition. There is no
// separate counter state to drift from the ledger; the cost is one count
// query per request. The check-then-write sequence is not atomic, so
// concurrent requests from one caller can slightly overshoot the limit:
// this is best-effort admission control, not a hard guarantee.
type LedgerRateLimiter struct {
	ledger   db.LedgerRepository
	settings db.SettingsRepository
	window   time.Duration
	source   string
}

// NewLedgerRateLimiter creates a rate limiter over the given ledger
// partition with a one-hour sliding window.
func NewLedgerRateLimiter(ledger db.LedgerRepository, settings db.SettingsRepository, source string) *LedgerRateLimiter {
	return &LedgerRateLimiter{
		ledger:   ledger,
		settings: settings,
		window:   time.Hour,
		source:   source,
	}
}

// Allow admits the request unless the caller's entry count in the trailing
// window has reached the configured hourly limit.
func (l *LedgerRateLimiter) Allow(userID string) error {
	limit := l.currentLimit()

	since := time.Now().Add(-l.window).Unix()
	count, err := l.ledger.CountSince(userID, l.source, since)
	if err != nil {
		return err
	}

	if count >= limit {
		logger.Warn("Rate limit exceeded",
			zap.String("user_id", userID),
			zap.Int("count", count),
			zap.Int("limit", limit),
		)
		return &RateLimitError{Limit: limit}
	}

	return nil
}

func (l *LedgerRateLimiter) currentLimit() int {
	value, found, err := l.settings.Get(SettingRateLimitPerHour)
	if err != nil {
		logger.Warn("Failed to read rate limit setting, using default", zap.Error(err))
		return DefaultRateLimitPerHour
	}
	if !found {
		return DefaultRateLimitPerHour
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		logger.Warn("Invalid rate limit setting, using default", zap.String("value", value))
		return DefaultRateLimitPerHour
	}

	return limit
}
