package preference

import "errors"

var (
	// ErrNotFound is returned when a recipient has no stored preference record.
	ErrNotFound = errors.New("preferences not found")

	// ErrRecipientRequired is returned when a record has no recipient ID.
	ErrRecipientRequired = errors.New("recipient ID is required")

	// ErrIncompleteTypes is returned when the per-type settings map does not
	// cover every known notification type, or covers an unknown one.
	ErrIncompleteTypes = errors.New("invalid per-type settings")

	// ErrInvalidQuietHours is returned when the quiet-hours window is malformed.
	ErrInvalidQuietHours = errors.New("invalid quiet hours")
)
