package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates a missing, unknown, or inactive API credential
	ErrUnauthenticated = errors.New("invalid or inactive API credential")

	// ErrEmptyMessage indicates a missing message body
	ErrEmptyMessage = errors.New("message body is required")

	// ErrDestinationRequired indicates a missing destination while live sending is enabled
	ErrDestinationRequired = errors.New("destination is required when live sending is enabled")

	// ErrCredentialNotFound indicates the credential does not exist
	ErrCredentialNotFound = errors.New("credential not found")
)

// MessageTooLongError indicates the message exceeds the single-segment limit
type MessageTooLongError struct {
	Limit  int
	Length int
}

func (e *MessageTooLongError) Error() string {
	return fmt.Sprintf("message length %d exceeds the %d character limit", e.Length, e.Limit)
}

// RateLimitError indicates the caller exceeded the hourly admission
// threshold. It carries the limit that was active when the request was
// rejected.
type RateLimitError struct {
	Limit int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d messages per hour exceeded", e.Limit)
}

// ConfigError indicates required operator configuration is missing. These
// are fatal for the whole request and surfaced as a server error, never
// silently defaulted.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Setting)
}

// IsBadRequest reports whether err belongs to the validation class of the
// error taxonomy: rejected locally, per request or per row, with no side
// effects.
func IsBadRequest(err error) bool {
	var tooLong *MessageTooLongError
	return errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrDestinationRequired) ||
		errors.As(err, &tooLong)
}
