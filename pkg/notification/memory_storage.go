package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	byRecipient map[string][]Notification
	mu          sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byRecipient: make(map[string][]Notification),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrIDRequired
	}
	if n.RecipientID == "" {
		return ErrRecipientRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.byRecipient[n.RecipientID] = append(s.byRecipient[n.RecipientID], n)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, recipientID, notifID string) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.byRecipient[recipientID] {
		if n.ID == notifID {
			return n, nil
		}
	}
	return Notification{}, ErrNotFound
}

func (s *MemoryStorage) List(ctx context.Context, recipientID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	filtered := make([]Notification, 0)
	for _, n := range s.byRecipient[recipientID] {
		if opts.matches(n, now) {
			filtered = append(filtered, n)
		}
	}

	// Newest first.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Notification{}, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, recipientID string, at time.Time, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(notifIDs))
	for _, id := range notifIDs {
		idSet[id] = struct{}{}
	}

	list := s.byRecipient[recipientID]
	for i := range list {
		if _, ok := idSet[list[i].ID]; ok {
			list[i] = list[i].MarkRead(at)
		}
	}
	return nil
}

func (s *MemoryStorage) MarkDelivered(ctx context.Context, recipientID, notifID string, at time.Time) error {
	return s.update(recipientID, notifID, func(n Notification) Notification {
		return n.MarkDelivered(at)
	})
}

func (s *MemoryStorage) MarkFailed(ctx context.Context, recipientID, notifID string, at time.Time, reason string) error {
	return s.update(recipientID, notifID, func(n Notification) Notification {
		return n.MarkFailed(at, reason)
	})
}

func (s *MemoryStorage) update(recipientID, notifID string, fn func(Notification) Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byRecipient[recipientID]
	for i := range list {
		if list[i].ID == notifID {
			list[i] = fn(list[i])
			return nil
		}
	}

	// Distinguish "missing" from "owned by someone else" so callers can map
	// the failure onto the right error class.
	for owner, others := range s.byRecipient {
		if owner == recipientID {
			continue
		}
		for _, n := range others {
			if n.ID == notifID {
				return ErrNotOwned
			}
		}
	}
	return ErrNotFound
}

func (s *MemoryStorage) CountUnread(ctx context.Context, recipientID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, n := range s.byRecipient[recipientID] {
		if !n.Read && !n.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) ListUnread(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	return s.List(ctx, recipientID, ListOptions{OnlyUnread: true, Limit: limit})
}

func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for recipientID, list := range s.byRecipient {
		kept := list[:0]
		for _, n := range list {
			if n.CreatedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, n)
		}
		s.byRecipient[recipientID] = kept
	}
	return removed, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, recipientID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]struct{}, len(notifIDs))
	for _, id := range notifIDs {
		idSet[id] = struct{}{}
	}

	list := s.byRecipient[recipientID]
	kept := list[:0]
	for _, n := range list {
		if _, ok := idSet[n.ID]; ok {
			continue
		}
		kept = append(kept, n)
	}
	s.byRecipient[recipientID] = kept
	return nil
}
