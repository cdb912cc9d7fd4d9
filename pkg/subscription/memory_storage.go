package subscription

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing. All record updates happen under a
// single mutex; the health operations read, modify, and write back while
// holding it, satisfying the atomic-increment contract.
type MemoryStorage struct {
	byID map[string]Subscription
	mu   sync.RWMutex
}

// NewMemoryStorage creates a new in-memory subscription storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byID: make(map[string]Subscription)}
}

func (s *MemoryStorage) Create(ctx context.Context, sub Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	if sub.LastUsedAt.IsZero() {
		sub.LastUsedAt = sub.CreatedAt
	}
	s.byID[sub.ID] = sub
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, id string) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.byID[id]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

func (s *MemoryStorage) ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Subscription, 0)
	for _, sub := range s.byID {
		if sub.RecipientID != recipientID {
			continue
		}
		if filter.ActiveOnly && !sub.Active {
			continue
		}
		if filter.Device != "" && sub.Device != filter.Device {
			continue
		}
		result = append(result, sub)
	}
	return result, nil
}

func (s *MemoryStorage) FindByEndpoint(ctx context.Context, endpoint string) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.byID {
		if sub.Device == DeviceWeb && sub.Endpoint == endpoint {
			return sub, nil
		}
	}
	return Subscription{}, ErrNotFound
}

func (s *MemoryStorage) FindByToken(ctx context.Context, token string) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.byID {
		if sub.Device.IsMobile() && sub.Token == token {
			return sub, nil
		}
	}
	return Subscription{}, ErrNotFound
}

func (s *MemoryStorage) Update(ctx context.Context, sub Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sub.ID]; !ok {
		return ErrNotFound
	}
	s.byID[sub.ID] = sub
	return nil
}

func (s *MemoryStorage) RecordSuccess(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.byID[id] = sub.RecordSuccess(at)
	return nil
}

func (s *MemoryStorage) RecordFailure(ctx context.Context, id string, at time.Time, reason string) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	updated := sub.RecordFailure(at, reason)
	s.byID[id] = updated
	return updated, nil
}

func (s *MemoryStorage) Deactivate(ctx context.Context, id string, at time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.byID[id] = sub.Deactivate(at, reason)
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, id)
	return nil
}

func (s *MemoryStorage) DeleteByRecipient(ctx context.Context, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sub := range s.byID {
		if sub.RecipientID == recipientID {
			delete(s.byID, id)
		}
	}
	return nil
}

func (s *MemoryStorage) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sub := range s.byID {
		if sub.IsStale(cutoff) {
			delete(s.byID, id)
			removed++
		}
	}
	return removed, nil
}
