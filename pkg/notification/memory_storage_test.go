package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStorage(t *testing.T) *MemoryStorage {
	t.Helper()
	s := NewMemoryStorage()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, n := range []Notification{
		{ID: "n1", RecipientID: "u1", Type: TypeInfo, Priority: PriorityNormal, Title: "a", Message: "m", CreatedAt: base},
		{ID: "n2", RecipientID: "u1", Type: TypeWarning, Priority: PriorityHigh, Title: "b", Message: "m", CreatedAt: base.Add(time.Minute)},
		{ID: "n3", RecipientID: "u1", Type: TypeInfo, Priority: PriorityLow, Title: "c", Message: "m", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "n4", RecipientID: "u2", Type: TypeError, Priority: PriorityUrgent, Title: "d", Message: "m", CreatedAt: base.Add(3 * time.Minute)},
	} {
		require.NoError(t, s.Create(ctx, n), "seed %d", i)
	}
	return s
}

func TestMemoryStorage_CreateValidation(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	assert.ErrorIs(t, s.Create(ctx, Notification{RecipientID: "u1"}), ErrIDRequired)
	assert.ErrorIs(t, s.Create(ctx, Notification{ID: "n1"}), ErrRecipientRequired)
}

func TestMemoryStorage_GetAndOwnership(t *testing.T) {
	s := seedStorage(t)
	ctx := context.Background()

	n, err := s.Get(ctx, "u1", "n2")
	require.NoError(t, err)
	assert.Equal(t, TypeWarning, n.Type)

	_, err = s.Get(ctx, "u1", "n4")
	assert.ErrorIs(t, err, ErrNotFound, "foreign notification must look absent on read")

	err = s.MarkDelivered(ctx, "u1", "n4", time.Now())
	assert.ErrorIs(t, err, ErrNotOwned)

	err = s.MarkDelivered(ctx, "u1", "missing", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_ListFilters(t *testing.T) {
	s := seedStorage(t)
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		list, err := s.List(ctx, "u1", ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"n3", "n2", "n1"}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("by type", func(t *testing.T) {
		list, err := s.List(ctx, "u1", ListOptions{Types: []Type{TypeInfo}})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("by priority", func(t *testing.T) {
		list, err := s.List(ctx, "u1", ListOptions{Priorities: []Priority{PriorityHigh}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "n2", list[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		list, err := s.List(ctx, "u1", ListOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "n2", list[0].ID)
	})

	t.Run("expired excluded", func(t *testing.T) {
		expired := time.Now().Add(-time.Minute)
		require.NoError(t, s.Create(ctx, Notification{
			ID: "nx", RecipientID: "u1", Type: TypeInfo, Title: "x", Message: "m",
			ExpiresAt: &expired, CreatedAt: time.Now(),
		}))
		list, err := s.List(ctx, "u1", ListOptions{})
		require.NoError(t, err)
		for _, n := range list {
			assert.NotEqual(t, "nx", n.ID)
		}
	})
}

func TestMemoryStorage_MarkReadIsolated(t *testing.T) {
	s := seedStorage(t)
	ctx := context.Background()
	at := time.Now()

	// A missing ID in the batch must not prevent the others from being marked.
	require.NoError(t, s.MarkRead(ctx, "u1", at, "n1", "missing", "n3"))

	n1, err := s.Get(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.True(t, n1.Read)

	n3, err := s.Get(ctx, "u1", "n3")
	require.NoError(t, err)
	assert.True(t, n3.Read)

	n2, err := s.Get(ctx, "u1", "n2")
	require.NoError(t, err)
	assert.False(t, n2.Read)
}

func TestMemoryStorage_UnreadCounting(t *testing.T) {
	s := seedStorage(t)
	ctx := context.Background()

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, s.MarkRead(ctx, "u1", time.Now(), "n1"))

	count, err = s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unread, err := s.ListUnread(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n3", unread[0].ID)
}

func TestMemoryStorage_Retention(t *testing.T) {
	s := seedStorage(t)
	ctx := context.Background()

	removed, err := s.DeleteOlderThan(ctx, time.Now().Add(-time.Hour).Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, removed) // n1 and n2

	list, err := s.List(ctx, "u1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n3", list[0].ID)
}

func TestMemoryStorage_Delete(t *testing.T) {
	s := seedStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "u1", "n1", "n2"))

	list, err := s.List(ctx, "u1", ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Deleting under the wrong recipient is a no-op.
	require.NoError(t, s.Delete(ctx, "u1", "n4"))
	_, err = s.Get(ctx, "u2", "n4")
	assert.NoError(t, err)
}
