package services

import (
	"sms-dispatch-gateway/internal/db"
)

// ModeResolver decides whether dispatches reach real destinations or are all
// redirected to a fixed test address. The switch is read fresh per request:
// flipping it must take effect immediately, because keeping non-production
// traffic away from real recipients is a safety property.
type ModeResolver struct {
	settings        db.SettingsRepository
	testDestination string
}

// NewModeResolver creates a mode resolver. testDestination is the
// operator-configured address used while live sending is off.
func NewModeResolver(settings db.SettingsRepository, testDestination string) *ModeResolver {
	return &ModeResolver{
		settings:        settings,
		testDestination: testDestination,
	}
}

// LiveEnabled reads the live/test switch. Anything other than the string
// "true" (including an unset key) means test mode.
func (m *ModeResolver) LiveEnabled() (bool, error) {
	value, found, err := m.settings.Get(SettingEnableLiveSMS)
	if err != nil {
		return false, err
	}
	return found && value == "true", nil
}

// ResolveDestination computes where a message actually goes. In test mode
// the result is always the fixed test destination, regardless of what the
// caller asked for. In live mode the caller-supplied destination is
// mandatory.
func (m *ModeResolver) ResolveDestination(requested string) (string, error) {
	live, err := m.LiveEnabled()
	if err != nil {
		return "", err
	}

	if !live {
		if m.testDestination == "" {
			return "", &ConfigError{Setting: "test destination is not configured"}
		}
		return m.testDestination, nil
	}

	if requested == "" {
		return "", ErrDestinationRequired
	}
	return requested, nil
}
