package presence

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker_MultiDevice(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	require.NoError(t, tr.Connect(ctx, "c1", "u1", nil))
	require.NoError(t, tr.Connect(ctx, "c2", "u1", nil))

	online, err := tr.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, online)

	conns, err := tr.ConnectionsFor(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, conns)

	// Dropping one connection keeps the recipient online.
	require.NoError(t, tr.Disconnect(ctx, "c1"))
	online, err = tr.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, online)

	// Dropping the last one transitions to offline.
	require.NoError(t, tr.Disconnect(ctx, "c2"))
	online, err = tr.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestMemoryTracker_Idempotency(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	require.NoError(t, tr.Connect(ctx, "c1", "u1", nil))
	require.NoError(t, tr.Connect(ctx, "c1", "u1", nil))

	conns, err := tr.ConnectionsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, conns, 1)

	// Disconnecting an unknown connection is a no-op.
	require.NoError(t, tr.Disconnect(ctx, "ghost"))
}

func TestMemoryTracker_ReconnectUnderDifferentRecipient(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	require.NoError(t, tr.Connect(ctx, "c1", "u1", nil))
	require.NoError(t, tr.Connect(ctx, "c1", "u2", nil))

	online, err := tr.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, online, "connection moved away from u1")

	online, err = tr.IsOnline(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, online)
}

func TestMemoryTracker_MetadataLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	require.NoError(t, tr.Connect(ctx, "c1", "u1", Metadata{"device": "phone"}))

	meta, ok := tr.MetadataFor("c1")
	require.True(t, ok)
	assert.Equal(t, "phone", meta["device"])

	require.NoError(t, tr.Disconnect(ctx, "c1"))
	_, ok = tr.MetadataFor("c1")
	assert.False(t, ok, "metadata released with the connection")
}

func TestMemoryTracker_Validation(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	assert.ErrorIs(t, tr.Connect(ctx, "", "u1", nil), ErrInvalidArgument)
	assert.ErrorIs(t, tr.Connect(ctx, "c1", "", nil), ErrInvalidArgument)
}

func TestMemoryTracker_OnlineRecipients(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	require.NoError(t, tr.Connect(ctx, "c1", "u1", nil))
	require.NoError(t, tr.Connect(ctx, "c2", "u2", nil))
	require.NoError(t, tr.Connect(ctx, "c3", "u2", nil))

	online, err := tr.OnlineRecipients(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, online)
}

func TestMemoryTracker_ConcurrentChurn(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("c%d", i)
			recipientID := fmt.Sprintf("u%d", i%5)
			_ = tr.Connect(ctx, connID, recipientID, nil)
			_, _ = tr.IsOnline(ctx, recipientID)
			_ = tr.Disconnect(ctx, connID)
		}(i)
	}
	wg.Wait()

	online, err := tr.OnlineRecipients(ctx)
	require.NoError(t, err)
	assert.Empty(t, online)
}
