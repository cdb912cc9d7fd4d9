package notification

import (
	"context"
	"time"
)

// Storage handles notification persistence and retrieval.
//
// Mutating operations take the owning recipient ID and must return ErrNotOwned
// when it does not match the stored record. Storage implementations do not
// retry infrastructure failures; that is the caller's collaborator contract.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, n Notification) error

	// Get retrieves a single notification owned by the recipient.
	Get(ctx context.Context, recipientID, notifID string) (Notification, error)

	// List returns notifications for a recipient, filtered and paginated.
	List(ctx context.Context, recipientID string, opts ListOptions) ([]Notification, error)

	// MarkRead marks the given notifications as read. Each ID is applied
	// independently: a missing or foreign ID is skipped without affecting
	// the others.
	MarkRead(ctx context.Context, recipientID string, at time.Time, notifIDs ...string) error

	// MarkDelivered sets the delivery marker.
	MarkDelivered(ctx context.Context, recipientID, notifID string, at time.Time) error

	// MarkFailed sets the failure marker and reason.
	MarkFailed(ctx context.Context, recipientID, notifID string, at time.Time, reason string) error

	// CountUnread returns the number of unread, unexpired notifications.
	CountUnread(ctx context.Context, recipientID string) (int, error)

	// ListUnread returns up to limit unread notifications, newest first.
	ListUnread(ctx context.Context, recipientID string, limit int) ([]Notification, error)

	// DeleteOlderThan removes notifications created before the cutoff,
	// returning the number removed. Used by external retention policy.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Delete removes notifications owned by the recipient.
	Delete(ctx context.Context, recipientID string, notifIDs ...string) error
}

// ListOptions provides filtering and pagination for List.
type ListOptions struct {
	Limit      int        // maximum number to return (0 = no limit)
	Offset     int        // number to skip for pagination
	OnlyUnread bool       // when true, only unread notifications
	Types      []Type     // when set, only these types
	Priorities []Priority // when set, only these priorities
	Since      *time.Time // when set, only notifications created at or after
	Until      *time.Time // when set, only notifications created before
}

func (o ListOptions) matches(n Notification, now time.Time) bool {
	if n.IsExpired(now) {
		return false
	}
	if o.OnlyUnread && n.Read {
		return false
	}
	if len(o.Types) > 0 {
		found := false
		for _, t := range o.Types {
			if n.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(o.Priorities) > 0 {
		found := false
		for _, p := range o.Priorities {
			if n.Priority == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if o.Since != nil && n.CreatedAt.Before(*o.Since) {
		return false
	}
	if o.Until != nil && !n.CreatedAt.Before(*o.Until) {
		return false
	}
	return true
}
