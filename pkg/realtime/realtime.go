package realtime

import (
	"context"
	"sync"
)

// Event is a named payload pushed to a recipient's live connections.
type Event struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

// Emitter is the boundary the dispatcher uses for real-time delivery.
// Implementations must not block on slow consumers.
type Emitter interface {
	// Emit sends the event to every live subscriber of the recipient.
	// Emitting to a recipient without subscribers is not an error.
	Emit(ctx context.Context, recipientID string, event Event) error
}

// Subscriber receives a recipient's events. Transport adapters (WebSocket,
// SSE) hold one subscriber per connection and forward from Receive.
type Subscriber interface {
	// Receive returns the channel events arrive on. The channel is closed
	// when the subscriber is closed.
	Receive() <-chan Event

	// Close releases the subscriber. Close is idempotent.
	Close() error
}

type subscriber struct {
	ch     chan Event
	closed bool
	mu     sync.RWMutex
}

func newSubscriber(bufferSize int) *subscriber {
	return &subscriber{ch: make(chan Event, bufferSize)}
}

func (s *subscriber) Receive() <-chan Event {
	return s.ch
}

func (s *subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send delivers without blocking; a full buffer means the message is dropped
// for this subscriber and the caller may unsubscribe it.
func (s *subscriber) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}
