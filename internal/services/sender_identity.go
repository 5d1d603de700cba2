package services

import (
	"sms-dispatch-gateway/internal/config"
)

// senderStrategy is one step of the sender-identity fallback chain. Steps
// are tried in order; the first hit wins.
type senderStrategy struct {
	name    string
	resolve func(key string) (string, bool)
}

// SenderIdentityResolver maps a logical team key to a provider sending
// identity. The same team can be referenced by its short key at one call
// site and by its canonical sender ID at another, so the chain tolerates
// both: (1) exact team-key match, (2) match against each mapping's sender
// ID, (3) process-wide default.
type SenderIdentityResolver struct {
	strategies      []senderStrategy
	defaultSenderID string
}

// NewSenderIdentityResolver builds the resolver from the static
// configuration table.
func NewSenderIdentityResolver(mappings []config.SenderMapping, defaultSenderID string) *SenderIdentityResolver {
	byKey := make(map[string]string, len(mappings))
	bySenderID := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.TeamKey != "" {
			byKey[m.TeamKey] = m.SenderID
		}
		if m.SenderID != "" {
			bySenderID[m.SenderID] = m.SenderID
		}
	}

	return &SenderIdentityResolver{
		strategies: []senderStrategy{
			{
				name: "team-key",
				resolve: func(key string) (string, bool) {
					id, ok := byKey[key]
					return id, ok
				},
			},
			{
				name: "sender-id",
				resolve: func(key string) (string, bool) {
					id, ok := bySenderID[key]
					return id, ok
				},
			},
		},
		defaultSenderID: defaultSenderID,
	}
}

// Resolve returns the sending identity for a logical team key, falling back
// to the process-wide default when no strategy matches (or the key is empty).
func (r *SenderIdentityResolver) Resolve(teamKey string) string {
	if teamKey == "" {
		return r.defaultSenderID
	}

	for _, s := range r.strategies {
		if id, ok := s.resolve(teamKey); ok {
			return id
		}
	}

	return r.defaultSenderID
}
