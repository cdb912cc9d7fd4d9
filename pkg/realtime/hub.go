package realtime

import (
	"context"
	"sync"
)

// Hub is the in-process Emitter implementation: a recipient-keyed fan-out
// over buffered channels. Slow consumers have events dropped rather than
// blocking the emitting goroutine. All methods are safe for concurrent use.
type Hub struct {
	subscribers map[string]map[*subscriber]struct{} // recipientID -> subscribers
	bufferSize  int
	closed      bool
	done        chan struct{} // closed by Close, releases cleanup goroutines
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithBufferSize sets the per-subscriber channel buffer. A minimum of 1 is
// enforced so sends stay non-blocking.
func WithBufferSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		bufferSize:  16,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a subscriber for the recipient's events. The
// subscription is cleaned up automatically when the context is cancelled.
// Subscribing on a closed hub returns an already-closed subscriber.
func (h *Hub) Subscribe(ctx context.Context, recipientID string) Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := newSubscriber(h.bufferSize)
	if h.closed {
		_ = sub.Close()
		return sub
	}

	set, ok := h.subscribers[recipientID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subscribers[recipientID] = set
	}
	set[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanupWg.Add(1)
		go func() {
			defer h.cleanupWg.Done()
			select {
			case <-ctx.Done():
				h.unsubscribe(recipientID, sub)
			case <-h.done:
				// Close already shut every subscriber down.
			}
		}()
	}

	return sub
}

// Emit sends the event to every live subscriber of the recipient. Events
// are dropped for subscribers whose buffer is full; those subscribers are
// removed asynchronously.
func (h *Hub) Emit(ctx context.Context, recipientID string, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	for sub := range h.subscribers[recipientID] {
		if !sub.send(ev) {
			go h.unsubscribe(recipientID, sub)
		}
	}
	return nil
}

// SubscriberCount returns the number of live subscribers for the recipient.
func (h *Hub) SubscriberCount(recipientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[recipientID])
}

// Close shuts down the hub and every subscriber. Safe to call repeatedly.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.done)
	for _, set := range h.subscribers {
		for sub := range set {
			_ = sub.Close()
		}
	}
	clear(h.subscribers)
	h.mu.Unlock()

	// Wait for context-cancellation cleanups so Close leaves no goroutines.
	// The done channel releases them even while subscriber contexts are live.
	h.cleanupWg.Wait()
	return nil
}

func (h *Hub) unsubscribe(recipientID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subscribers[recipientID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subscribers, recipientID)
		}
	}
	_ = sub.Close()
}
