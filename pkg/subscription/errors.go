package subscription

import "errors"

var (
	// ErrNotFound is returned when a subscription does not exist.
	ErrNotFound = errors.New("subscription not found")

	// ErrIDRequired is returned when a subscription has no ID.
	ErrIDRequired = errors.New("subscription ID is required")

	// ErrRecipientRequired is returned when a subscription has no recipient.
	ErrRecipientRequired = errors.New("recipient ID is required")

	// ErrInvalidDeviceClass is returned for an unknown device class.
	ErrInvalidDeviceClass = errors.New("invalid device class")

	// ErrWebShapeIncomplete is returned when a web subscription is missing
	// its endpoint or key pair.
	ErrWebShapeIncomplete = errors.New("web subscription requires endpoint and keys")

	// ErrMobileShapeIncomplete is returned when a mobile subscription is
	// missing its push token.
	ErrMobileShapeIncomplete = errors.New("mobile subscription requires token")

	// ErrAmbiguousShape is returned when both the web and mobile shapes are
	// populated on the same record.
	ErrAmbiguousShape = errors.New("subscription must have exactly one of endpoint/keys or token")
)
