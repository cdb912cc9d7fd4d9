package notification

import (
	"time"
)

// Type represents the notification type/severity.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeSystem  Type = "system"
)

// Types lists all known notification types in a stable order.
func Types() []Type {
	return []Type{TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeSystem}
}

// Valid reports whether the type is one of the known values.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeSystem:
		return true
	}
	return false
}

// Channel represents a delivery surface.
type Channel string

const (
	ChannelInApp    Channel = "in_app"
	ChannelPush     Channel = "push"
	ChannelRealtime Channel = "realtime"
	// ChannelAll expands to every concrete channel during resolution.
	ChannelAll Channel = "all"
)

// Valid reports whether the channel is one of the known values.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInApp, ChannelPush, ChannelRealtime, ChannelAll:
		return true
	}
	return false
}

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Weight returns the sort weight of the priority: low=1 .. urgent=4.
// Unknown priorities weigh 0 so they sort last.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityNormal:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// Action represents a call-to-action attached to a notification.
// At most MaxActions actions are allowed per notification.
type Action struct {
	Label  string         `json:"label"`
	URL    string         `json:"url,omitempty"`
	Action string         `json:"action,omitempty"` // application-defined action code
	Data   map[string]any `json:"data,omitempty"`
}

// Limits enforced by validation, counted in characters rather than bytes.
const (
	MaxTitleLength   = 100
	MaxMessageLength = 500
	MaxActions       = 3
)

// Notification is the unit of delivery. It is treated as a value snapshot:
// state changes go through the Mark* methods which return a new copy instead
// of mutating in place.
type Notification struct {
	ID            string         `json:"id"`
	RecipientID   string         `json:"recipient_id"`
	Type          Type           `json:"type"`
	Priority      Priority       `json:"priority"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	Channels      []Channel      `json:"channels"`
	Data          map[string]any `json:"data,omitempty"`
	Actions       []Action       `json:"actions,omitempty"`
	Icon          string         `json:"icon,omitempty"`
	Image         string         `json:"image,omitempty"`
	Read          bool           `json:"read"`
	ReadAt        *time.Time     `json:"read_at,omitempty"`
	DeliveredAt   *time.Time     `json:"delivered_at,omitempty"`
	FailedAt      *time.Time     `json:"failed_at,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// IsExpired reports whether the notification has expired at the given instant.
// Notifications without an expiry never expire.
func (n Notification) IsExpired(at time.Time) bool {
	if n.ExpiresAt == nil {
		return false
	}
	return !n.ExpiresAt.After(at)
}

// MarkRead returns a copy with the read marker set.
// Read is reachable independent of delivered.
func (n Notification) MarkRead(at time.Time) Notification {
	n.Read = true
	n.ReadAt = &at
	return n
}

// MarkDelivered returns a copy with the delivery marker set.
func (n Notification) MarkDelivered(at time.Time) Notification {
	n.DeliveredAt = &at
	return n
}

// MarkFailed returns a copy with the failure marker and reason set.
func (n Notification) MarkFailed(at time.Time, reason string) Notification {
	n.FailedAt = &at
	n.FailureReason = reason
	return n
}
