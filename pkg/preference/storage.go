package preference

import "context"

// Storage handles preference persistence. One record per recipient.
type Storage interface {
	// Get returns the stored record, or ErrNotFound when the recipient has
	// none yet. Callers typically fall back to Default on ErrNotFound.
	Get(ctx context.Context, recipientID string) (Preferences, error)

	// Save stores a new record or replaces the existing one (upsert).
	Save(ctx context.Context, p Preferences) error

	// Exists reports whether the recipient has a stored record.
	Exists(ctx context.Context, recipientID string) (bool, error)

	// Delete removes the recipient's record. Deleting a missing record is
	// not an error.
	Delete(ctx context.Context, recipientID string) error
}
