package notification

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrNotOwned is returned when a recipient attempts to mutate a
	// notification that belongs to someone else.
	ErrNotOwned = errors.New("notification does not belong to recipient")

	// ErrIDRequired is returned by storages when a notification has no ID.
	ErrIDRequired = errors.New("notification ID is required")

	// ErrRecipientRequired is returned by storages when a notification has no recipient.
	ErrRecipientRequired = errors.New("recipient ID is required")
)
