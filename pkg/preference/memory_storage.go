package preference

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	records map[string]Preferences
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory preference storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]Preferences)}
}

func (s *MemoryStorage) Get(ctx context.Context, recipientID string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[recipientID]
	if !ok {
		return Preferences{}, ErrNotFound
	}
	return clone(p), nil
}

func (s *MemoryStorage) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = time.Now()
	s.records[p.RecipientID] = clone(p)
	return nil
}

func (s *MemoryStorage) Exists(ctx context.Context, recipientID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[recipientID]
	return ok, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, recipientID)
	return nil
}

// clone copies the record so callers cannot mutate stored state through the
// shared Types map.
func clone(p Preferences) Preferences {
	types := make(map[notification.Type]ChannelSettings, len(p.Types))
	for t, s := range p.Types {
		types[t] = s
	}
	p.Types = types
	return p
}
