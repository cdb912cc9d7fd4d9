package push

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/subscription"
)

// Payload is the provider-agnostic content of a push delivery.
type Payload struct {
	NotificationID string         `json:"notification_id"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Icon           string         `json:"icon,omitempty"`
	Image          string         `json:"image,omitempty"`
	Tag            string         `json:"tag,omitempty"`      // collapse key for replacing prior pushes
	Priority       string         `json:"priority,omitempty"` // delivery urgency hint for the backend
	Data           map[string]any `json:"data,omitempty"`
}

// Result is the outcome of a send attempt for one subscription.
type Result struct {
	SubscriptionID string
	Err            error // nil on success
}

// Provider sends push payloads to a single device family (web endpoints or
// mobile tokens). Implementations translate backend rejections into the typed
// errors of this package.
//
// SendBatch reports per-subscription outcomes and must not fail the whole
// batch because individual subscriptions were rejected; its error return is
// reserved for failures that prevented the batch from being attempted at all.
type Provider interface {
	Send(ctx context.Context, sub subscription.Subscription, payload Payload) error
	SendBatch(ctx context.Context, subs []subscription.Subscription, payload Payload) ([]Result, error)
}
