package realtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/realtime"
)

func TestHub_EmitReachesAllSubscribers(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub()
	defer hub.Close()

	s1 := hub.Subscribe(ctx, "u1")
	s2 := hub.Subscribe(ctx, "u1")
	other := hub.Subscribe(ctx, "u2")

	ev := realtime.Event{Name: "notification.created", Data: "hello"}
	require.NoError(t, hub.Emit(ctx, "u1", ev))

	for _, sub := range []realtime.Subscriber{s1, s2} {
		select {
		case got := <-sub.Receive():
			assert.Equal(t, ev, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}

	select {
	case got := <-other.Receive():
		t.Fatalf("u2 received u1's event: %+v", got)
	default:
	}
}

func TestHub_EmitWithoutSubscribers(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub()
	defer hub.Close()

	assert.NoError(t, hub.Emit(ctx, "nobody", realtime.Event{Name: "noop"}))
}

func TestHub_SlowConsumerDropped(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub(realtime.WithBufferSize(1))
	defer hub.Close()

	sub := hub.Subscribe(ctx, "u1")

	require.NoError(t, hub.Emit(ctx, "u1", realtime.Event{Name: "first"}))
	// Buffer is full now; the next emit drops and evicts the subscriber.
	require.NoError(t, hub.Emit(ctx, "u1", realtime.Event{Name: "second"}))

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount("u1") == 0
	}, time.Second, 10*time.Millisecond)

	got := <-sub.Receive()
	assert.Equal(t, "first", got.Name)
	_, open := <-sub.Receive()
	assert.False(t, open, "channel closed after eviction")
}

func TestHub_ContextCancelUnsubscribes(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := hub.Subscribe(ctx, "u1")
	require.Equal(t, 1, hub.SubscriberCount("u1"))

	cancel()

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount("u1") == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-sub.Receive()
	assert.False(t, open)
}

func TestHub_Close(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub()

	sub := hub.Subscribe(ctx, "u1")
	require.NoError(t, hub.Close())

	_, open := <-sub.Receive()
	assert.False(t, open, "subscriber closed with the hub")

	assert.ErrorIs(t, hub.Emit(ctx, "u1", realtime.Event{Name: "late"}), realtime.ErrHubClosed)
	assert.NoError(t, hub.Close(), "close is idempotent")

	late := hub.Subscribe(ctx, "u1")
	_, open = <-late.Receive()
	assert.False(t, open, "subscribing after close yields a closed subscriber")
}

func TestHub_ConcurrentEmitAndSubscribe(t *testing.T) {
	ctx := context.Background()
	hub := realtime.NewHub(realtime.WithBufferSize(128))
	defer hub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := hub.Subscribe(ctx, "u1")
			defer sub.Close()
			time.Sleep(5 * time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			_ = hub.Emit(ctx, "u1", realtime.Event{Name: "tick"})
		}()
	}
	wg.Wait()
}

func TestHub_CloseReturnsWithLiveSubscriberContexts(t *testing.T) {
	hub := realtime.NewHub()

	// Cancellable contexts that stay live across Close.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s1 := hub.Subscribe(ctx, "u1")
	s2 := hub.Subscribe(ctx, "u2")

	closed := make(chan error, 1)
	go func() { closed <- hub.Close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return while subscriber contexts were still live")
	}

	for _, sub := range []realtime.Subscriber{s1, s2} {
		_, open := <-sub.Receive()
		assert.False(t, open, "subscriber channel must be closed after hub Close")
	}
}
