package dispatch

import "errors"

var (
	// ErrNoEligibleChannels is returned when preferences and quiet hours
	// leave no channel to deliver on. The notification is not persisted.
	ErrNoEligibleChannels = errors.New("dispatch: no eligible delivery channels for recipient")

	// ErrNotificationStorageRequired is returned by New when the notification
	// storage dependency is missing.
	ErrNotificationStorageRequired = errors.New("dispatch: notification storage is required")

	// ErrPreferenceStorageRequired is returned by New when the preference
	// storage dependency is missing.
	ErrPreferenceStorageRequired = errors.New("dispatch: preference storage is required")

	// ErrSubscriptionStorageRequired is returned by New when the subscription
	// storage dependency is missing.
	ErrSubscriptionStorageRequired = errors.New("dispatch: subscription storage is required")
)
