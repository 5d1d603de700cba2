package models

// SendRequest is the session-authenticated single-send payload. Destination
// may be empty in test mode, where every message is redirected to the fixed
// test number anyway.
type SendRequest struct {
	Message      string `json:"message" binding:"required"`
	Destination  string `json:"destination"`
	TeamKey      string `json:"teamKey"`
	ScheduledFor *int64 `json:"scheduledFor"` // Unix timestamp; when set the provider is not called now
}

// APISendRequest is the bearer-key single-send payload.
type APISendRequest struct {
	Message     string `json:"message" binding:"required"`
	Destination string `json:"destination"`
}

// SendResult is the outcome of a single dispatch.
type SendResult struct {
	Status      string `json:"status"` // sent | failed | scheduled
	Destination string `json:"-"`      // Resolved destination, for callers that need it
	LedgerID    int64  `json:"-"`
}

// BulkRow is one row of a bulk-send request. Rows are independently valid or
// invalid; a bad row never aborts its siblings.
type BulkRow struct {
	Message     string `json:"message"`
	Destination string `json:"destination"`
	TeamKey     string `json:"teamKey"`
}

// BulkSendRequest is the session-authenticated bulk payload.
type BulkSendRequest struct {
	Rows           []BulkRow `json:"rows" binding:"required"`
	DefaultTeamKey string    `json:"defaultTeamKey"`
}

// RowResult records the outcome of one bulk row, in input order.
type RowResult struct {
	Row       int    `json:"row"`
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// BulkResult is the full per-row accounting of a bulk send. Partial success
// is an explicit outcome, not an error: Success is true only when Failed is
// zero, and Sent+Failed always equals Total.
type BulkResult struct {
	Success bool        `json:"success"`
	Total   int         `json:"total"`
	Sent    int         `json:"sent"`
	Failed  int         `json:"failed"`
	Results []RowResult `json:"results"`
}
