package subscription

import (
	"time"
)

// DeviceClass identifies the push delivery family of a subscription.
type DeviceClass string

const (
	DeviceWeb     DeviceClass = "web"
	DeviceAndroid DeviceClass = "android"
	DeviceIOS     DeviceClass = "ios"
)

// Valid reports whether the device class is one of the known values.
func (d DeviceClass) Valid() bool {
	switch d {
	case DeviceWeb, DeviceAndroid, DeviceIOS:
		return true
	}
	return false
}

// IsMobile reports whether the device class uses token-based push.
func (d DeviceClass) IsMobile() bool {
	return d == DeviceAndroid || d == DeviceIOS
}

// Keys holds the asymmetric key pair of a Web Push subscription.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Health thresholds.
const (
	// MaxConsecutiveFailures is the number of consecutive provider failures
	// after which a subscription is deactivated.
	MaxConsecutiveFailures = 3

	// StaleAfter is how long a subscription may go unused before the expiry
	// sweep considers it stale.
	StaleAfter = 90 * 24 * time.Hour
)

// Subscription is a per-device push endpoint with failure-count-driven
// deactivation. Exactly one of the two shapes is populated, determined by
// the device class: web subscriptions carry Endpoint+Keys, mobile ones an
// opaque Token. Health changes go through the Record*/Deactivate/Reactivate
// methods which return an updated copy.
type Subscription struct {
	ID                string      `json:"id"`
	RecipientID       string      `json:"recipient_id"`
	Device            DeviceClass `json:"device"`
	Endpoint          string      `json:"endpoint,omitempty"`
	Keys              Keys        `json:"keys,omitempty"`
	Token             string      `json:"token,omitempty"`
	DeviceInfo        string      `json:"device_info,omitempty"`
	Active            bool        `json:"active"`
	FailureCount      int         `json:"failure_count"`
	LastFailureAt     *time.Time  `json:"last_failure_at,omitempty"`
	LastFailureReason string      `json:"last_failure_reason,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	LastUsedAt        time.Time   `json:"last_used_at"`
}

// Validate checks the shape invariant for the device class.
func (s Subscription) Validate() error {
	if s.ID == "" {
		return ErrIDRequired
	}
	if s.RecipientID == "" {
		return ErrRecipientRequired
	}
	if !s.Device.Valid() {
		return ErrInvalidDeviceClass
	}
	if s.Device == DeviceWeb {
		if s.Endpoint == "" || s.Keys.P256dh == "" || s.Keys.Auth == "" {
			return ErrWebShapeIncomplete
		}
		if s.Token != "" {
			return ErrAmbiguousShape
		}
		return nil
	}
	if s.Token == "" {
		return ErrMobileShapeIncomplete
	}
	if s.Endpoint != "" || s.Keys.P256dh != "" || s.Keys.Auth != "" {
		return ErrAmbiguousShape
	}
	return nil
}

// RecordSuccess returns a copy with the failure counter reset and the
// last-used marker touched. A provider success always clears the 3-strike
// counter, so deactivation requires fresh consecutive failures.
func (s Subscription) RecordSuccess(at time.Time) Subscription {
	s.FailureCount = 0
	s.LastFailureAt = nil
	s.LastFailureReason = ""
	s.LastUsedAt = at
	return s
}

// RecordFailure returns a copy with the consecutive-failure counter
// incremented. Reaching MaxConsecutiveFailures deactivates the subscription.
func (s Subscription) RecordFailure(at time.Time, reason string) Subscription {
	s.FailureCount++
	s.LastFailureAt = &at
	s.LastFailureReason = reason
	if s.FailureCount >= MaxConsecutiveFailures {
		s.Active = false
	}
	return s
}

// Deactivate returns an inactive copy, bypassing the failure counter.
// Used when the provider reports the endpoint as permanently gone.
func (s Subscription) Deactivate(at time.Time, reason string) Subscription {
	s.Active = false
	s.LastFailureAt = &at
	s.LastFailureReason = reason
	return s
}

// Reactivate returns an active copy with a clean failure history.
// Used when the device subscribes again after having been deactivated.
func (s Subscription) Reactivate(at time.Time) Subscription {
	s.Active = true
	s.FailureCount = 0
	s.LastFailureAt = nil
	s.LastFailureReason = ""
	s.LastUsedAt = at
	return s
}

// IsStale reports whether the subscription has gone unused since the cutoff.
func (s Subscription) IsStale(cutoff time.Time) bool {
	return s.LastUsedAt.Before(cutoff)
}
