package subscription

import (
	"context"
	"time"
)

// ListFilter narrows ListByRecipient results.
type ListFilter struct {
	ActiveOnly bool
	Device     DeviceClass // zero value = any device class
}

// Storage handles push subscription persistence.
//
// Update replaces the whole record by ID and suits shape changes (endpoint
// rotation, device metadata). Health bookkeeping goes through RecordSuccess,
// RecordFailure, and Deactivate instead, which implementations apply as one
// atomic step so concurrent deliveries reconciling the same subscription
// never lose a failure-counter increment.
type Storage interface {
	// Create stores a new subscription.
	Create(ctx context.Context, sub Subscription) error

	// Get retrieves a subscription by ID.
	Get(ctx context.Context, id string) (Subscription, error)

	// ListByRecipient returns the recipient's subscriptions matching the filter.
	ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]Subscription, error)

	// FindByEndpoint returns the web subscription with the given endpoint.
	FindByEndpoint(ctx context.Context, endpoint string) (Subscription, error)

	// FindByToken returns the mobile subscription with the given token.
	FindByToken(ctx context.Context, token string) (Subscription, error)

	// Update replaces the stored record.
	Update(ctx context.Context, sub Subscription) error

	// RecordSuccess atomically resets the failure counter and touches the
	// last-used marker.
	RecordSuccess(ctx context.Context, id string, at time.Time) error

	// RecordFailure atomically increments the consecutive-failure counter,
	// deactivating the subscription once it reaches MaxConsecutiveFailures.
	// Returns the updated record.
	RecordFailure(ctx context.Context, id string, at time.Time, reason string) (Subscription, error)

	// Deactivate marks the subscription inactive with the given reason.
	Deactivate(ctx context.Context, id string, at time.Time, reason string) error

	// Delete removes a subscription by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByRecipient removes all of the recipient's subscriptions.
	DeleteByRecipient(ctx context.Context, recipientID string) error

	// DeleteExpired removes subscriptions unused since the cutoff, returning
	// the number removed. Used by the external stale-subscription sweep.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
