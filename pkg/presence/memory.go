package presence

import (
	"context"
	"sync"
)

// MemoryTracker is the in-process implementation of Tracker. All mutations
// are read-modify-write on per-recipient sets under a single RWMutex, which
// sequences concurrent connect/disconnect from independent connection
// handlers.
type MemoryTracker struct {
	byRecipient map[string]map[string]struct{} // recipientID -> connection IDs
	byConn      map[string]string              // connectionID -> recipientID
	meta        map[string]Metadata            // connectionID -> metadata
	mu          sync.RWMutex
}

// NewMemoryTracker creates an empty in-memory presence tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		byRecipient: make(map[string]map[string]struct{}),
		byConn:      make(map[string]string),
		meta:        make(map[string]Metadata),
	}
}

func (t *MemoryTracker) Connect(ctx context.Context, connectionID, recipientID string, meta Metadata) error {
	if connectionID == "" || recipientID == "" {
		return ErrInvalidArgument
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Re-registering the same connection under a different recipient moves it.
	if prev, ok := t.byConn[connectionID]; ok && prev != recipientID {
		t.removeLocked(connectionID, prev)
	}

	conns, ok := t.byRecipient[recipientID]
	if !ok {
		conns = make(map[string]struct{})
		t.byRecipient[recipientID] = conns
	}
	conns[connectionID] = struct{}{}
	t.byConn[connectionID] = recipientID
	if meta != nil {
		t.meta[connectionID] = meta
	}
	return nil
}

func (t *MemoryTracker) Disconnect(ctx context.Context, connectionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	recipientID, ok := t.byConn[connectionID]
	if !ok {
		return nil
	}
	t.removeLocked(connectionID, recipientID)
	return nil
}

func (t *MemoryTracker) removeLocked(connectionID, recipientID string) {
	delete(t.byConn, connectionID)
	delete(t.meta, connectionID)
	if conns, ok := t.byRecipient[recipientID]; ok {
		delete(conns, connectionID)
		if len(conns) == 0 {
			delete(t.byRecipient, recipientID)
		}
	}
}

func (t *MemoryTracker) IsOnline(ctx context.Context, recipientID string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byRecipient[recipientID]) > 0, nil
}

func (t *MemoryTracker) ConnectionsFor(ctx context.Context, recipientID string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	conns := make([]string, 0, len(t.byRecipient[recipientID]))
	for id := range t.byRecipient[recipientID] {
		conns = append(conns, id)
	}
	return conns, nil
}

func (t *MemoryTracker) OnlineRecipients(ctx context.Context) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	recipients := make([]string, 0, len(t.byRecipient))
	for id := range t.byRecipient {
		recipients = append(recipients, id)
	}
	return recipients, nil
}

// MetadataFor returns the metadata registered with a connection, if any.
func (t *MemoryTracker) MetadataFor(connectionID string) (Metadata, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.meta[connectionID]
	return m, ok
}
