package subscription

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.Create(ctx, webSub("s1", "u1")))
	require.NoError(t, s.Create(ctx, mobileSub("s2", "u1", DeviceAndroid)))
	require.NoError(t, s.Create(ctx, webSub("s3", "u2")))

	t.Run("create validates shape", func(t *testing.T) {
		bad := webSub("s4", "u1")
		bad.Endpoint = ""
		assert.ErrorIs(t, s.Create(ctx, bad), ErrWebShapeIncomplete)
	})

	t.Run("get", func(t *testing.T) {
		sub, err := s.Get(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, DeviceAndroid, sub.Device)

		_, err = s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by recipient with filters", func(t *testing.T) {
		all, err := s.ListByRecipient(ctx, "u1", ListFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		web, err := s.ListByRecipient(ctx, "u1", ListFilter{Device: DeviceWeb})
		require.NoError(t, err)
		require.Len(t, web, 1)
		assert.Equal(t, "s1", web[0].ID)

		require.NoError(t, s.Deactivate(ctx, "s1", time.Now(), "gone"))
		active, err := s.ListByRecipient(ctx, "u1", ListFilter{ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "s2", active[0].ID)
	})

	t.Run("find by endpoint and token", func(t *testing.T) {
		sub, err := s.FindByEndpoint(ctx, "https://push.example.com/s3")
		require.NoError(t, err)
		assert.Equal(t, "s3", sub.ID)

		sub, err = s.FindByToken(ctx, "token-s2")
		require.NoError(t, err)
		assert.Equal(t, "s2", sub.ID)

		_, err = s.FindByToken(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update replaces record", func(t *testing.T) {
		sub, err := s.Get(ctx, "s2")
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, sub.RecordFailure(time.Now(), "timeout")))

		got, err := s.Get(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, 1, got.FailureCount)

		missing := webSub("ghost", "u9")
		assert.ErrorIs(t, s.Update(ctx, missing), ErrNotFound)
	})

	t.Run("delete by recipient", func(t *testing.T) {
		require.NoError(t, s.DeleteByRecipient(ctx, "u1"))
		left, err := s.ListByRecipient(ctx, "u1", ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestMemoryStorage_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	fresh := webSub("fresh", "u1")
	stale := webSub("stale", "u1")
	stale.LastUsedAt = now.Add(-StaleAfter - time.Hour)
	require.NoError(t, s.Create(ctx, fresh))
	require.NoError(t, s.Create(ctx, stale))

	removed, err := s.DeleteExpired(ctx, now.Add(-StaleAfter))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStorage_AtomicHealthOps(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("concurrent failures all counted", func(t *testing.T) {
		s := NewMemoryStorage()
		require.NoError(t, s.Create(ctx, webSub("s1", "u1")))

		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.RecordFailure(ctx, "s1", now, "provider 503")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		sub, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 2, sub.FailureCount, "both concurrent failures must be counted")
		assert.True(t, sub.Active)
	})

	t.Run("failure reaching threshold deactivates", func(t *testing.T) {
		s := NewMemoryStorage()
		pre := webSub("s1", "u1")
		pre.FailureCount = MaxConsecutiveFailures - 1
		require.NoError(t, s.Create(ctx, pre))

		updated, err := s.RecordFailure(ctx, "s1", now, "provider 500")
		require.NoError(t, err)
		assert.False(t, updated.Active)
		assert.Equal(t, MaxConsecutiveFailures, updated.FailureCount)
	})

	t.Run("success resets counter", func(t *testing.T) {
		s := NewMemoryStorage()
		pre := webSub("s1", "u1")
		pre.FailureCount = 2
		require.NoError(t, s.Create(ctx, pre))

		require.NoError(t, s.RecordSuccess(ctx, "s1", now))

		sub, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Zero(t, sub.FailureCount)
		assert.Equal(t, now, sub.LastUsedAt)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewMemoryStorage()
		assert.ErrorIs(t, s.RecordSuccess(ctx, "ghost", now), ErrNotFound)
		_, err := s.RecordFailure(ctx, "ghost", now, "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
