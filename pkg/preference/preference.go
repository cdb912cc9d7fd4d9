package preference

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// ChannelSettings holds per-channel enablement for a single notification type.
// All channels are enabled by default.
type ChannelSettings struct {
	InApp    bool `json:"in_app"`
	Push     bool `json:"push"`
	Realtime bool `json:"realtime"`
}

// DefaultChannelSettings returns the default enablement record: everything on.
func DefaultChannelSettings() ChannelSettings {
	return ChannelSettings{InApp: true, Push: true, Realtime: true}
}

// Enabled reports whether the given channel is enabled in this record.
// ChannelAll is enabled when any concrete channel is.
func (s ChannelSettings) Enabled(ch notification.Channel) bool {
	switch ch {
	case notification.ChannelInApp:
		return s.InApp
	case notification.ChannelPush:
		return s.Push
	case notification.ChannelRealtime:
		return s.Realtime
	case notification.ChannelAll:
		return s.InApp || s.Push || s.Realtime
	}
	return false
}

// QuietHours is a recipient-configured time-of-day window during which
// non-urgent deliveries are suppressed. Start and End are "HH:MM" strings
// interpreted in Timezone. When Start >= End the window wraps midnight.
type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// DefaultQuietHours returns the disabled default window of 22:00-08:00 UTC.
func DefaultQuietHours() QuietHours {
	return QuietHours{Enabled: false, Start: "22:00", End: "08:00", Timezone: "UTC"}
}

// Validate checks the HH:MM times and the timezone name.
func (q QuietHours) Validate() error {
	if _, err := parseMinutes(q.Start); err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidQuietHours, q.Start)
	}
	if _, err := parseMinutes(q.End); err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidQuietHours, q.End)
	}
	if q.Timezone != "" {
		if _, err := time.LoadLocation(q.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q", ErrInvalidQuietHours, q.Timezone)
		}
	}
	return nil
}

// Contains reports whether the instant falls inside the quiet-hours window.
// Always false when the window is disabled or misconfigured. The comparison
// happens on [start, end) in the recipient's configured timezone; a window
// with start >= end wraps midnight.
func (q QuietHours) Contains(t time.Time) bool {
	if !q.Enabled {
		return false
	}
	start, err := parseMinutes(q.Start)
	if err != nil {
		return false
	}
	end, err := parseMinutes(q.End)
	if err != nil {
		return false
	}

	loc := time.UTC
	if q.Timezone != "" {
		if l, err := time.LoadLocation(q.Timezone); err == nil {
			loc = l
		}
	}
	local := t.In(loc)
	now := local.Hour()*60 + local.Minute()

	if start < end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

// parseMinutes converts "HH:MM" into minutes since midnight.
func parseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// Preferences is the per-recipient notification preference record.
// There is exactly one ChannelSettings entry per known notification type.
type Preferences struct {
	RecipientID string                                `json:"recipient_id"`
	Types       map[notification.Type]ChannelSettings `json:"types"`
	QuietHours  QuietHours                            `json:"quiet_hours"`
	Language    string                                `json:"language"`
	Sound       bool                                  `json:"sound"`
	Vibration   bool                                  `json:"vibration"`
	UpdatedAt   time.Time                             `json:"updated_at"`
}

// Default returns the lazily-created preference record for a recipient:
// every channel enabled for every type, quiet hours disabled.
func Default(recipientID string) Preferences {
	types := make(map[notification.Type]ChannelSettings, len(notification.Types()))
	for _, t := range notification.Types() {
		types[t] = DefaultChannelSettings()
	}
	return Preferences{
		RecipientID: recipientID,
		Types:       types,
		QuietHours:  DefaultQuietHours(),
		Language:    "en",
		Sound:       true,
		Vibration:   true,
	}
}

// Validate checks the structural invariants of the record.
func (p Preferences) Validate() error {
	if p.RecipientID == "" {
		return ErrRecipientRequired
	}
	for _, t := range notification.Types() {
		if _, ok := p.Types[t]; !ok {
			return fmt.Errorf("%w: missing settings for type %q", ErrIncompleteTypes, t)
		}
	}
	for t := range p.Types {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown type %q", ErrIncompleteTypes, t)
		}
	}
	return p.QuietHours.Validate()
}

// SettingsFor returns the enablement record for the given type, falling back
// to defaults when the type has no explicit entry.
func (p Preferences) SettingsFor(t notification.Type) ChannelSettings {
	if s, ok := p.Types[t]; ok {
		return s
	}
	return DefaultChannelSettings()
}
