package models

// Dispatch statuses recorded in the ledger.
const (
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusScheduled = "scheduled"
)

// Ledger source partitions. Bearer-key traffic is accounted separately from
// interactive session traffic so the two are rate-limited independently.
const (
	SourceWeb = "web"
	SourceAPI = "api"
)

// LedgerEntry is one immutable record of a dispatch attempt. Entries are
// never updated after creation; corrections are new entries pointing at the
// original via Supersedes.
type LedgerEntry struct {
	ID           int64   `json:"id"`
	TeamKey      string  `json:"team_key,omitempty"`
	UserID       string  `json:"user_id"`
	Message      string  `json:"message"`
	Destination  string  `json:"destination"` // Post mode-resolution, not the caller's raw input
	Status       string  `json:"status"`      // sent | failed | scheduled
	Source       string  `json:"source"`      // web | api
	Error        string  `json:"error,omitempty"`
	AttemptedAt  int64   `json:"attempted_at"`
	ScheduledFor *int64  `json:"scheduled_for,omitempty"`
	Supersedes   *int64  `json:"supersedes,omitempty"`
}
