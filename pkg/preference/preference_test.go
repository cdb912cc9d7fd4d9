package preference

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func TestDefault(t *testing.T) {
	p := Default("u1")

	assert.Equal(t, "u1", p.RecipientID)
	require.NoError(t, p.Validate())

	for _, typ := range notification.Types() {
		s, ok := p.Types[typ]
		require.True(t, ok, "missing settings for %s", typ)
		assert.True(t, s.InApp)
		assert.True(t, s.Push)
		assert.True(t, s.Realtime)
	}

	assert.False(t, p.QuietHours.Enabled)
	assert.Equal(t, "22:00", p.QuietHours.Start)
	assert.Equal(t, "08:00", p.QuietHours.End)
}

func TestPreferences_Validate(t *testing.T) {
	t.Run("missing recipient", func(t *testing.T) {
		p := Default("")
		assert.ErrorIs(t, p.Validate(), ErrRecipientRequired)
	})

	t.Run("missing type entry", func(t *testing.T) {
		p := Default("u1")
		delete(p.Types, notification.TypeWarning)
		assert.ErrorIs(t, p.Validate(), ErrIncompleteTypes)
	})

	t.Run("unknown type entry", func(t *testing.T) {
		p := Default("u1")
		p.Types[notification.Type("verbose")] = DefaultChannelSettings()
		assert.ErrorIs(t, p.Validate(), ErrIncompleteTypes)
	})

	t.Run("bad quiet hours time", func(t *testing.T) {
		p := Default("u1")
		p.QuietHours.Start = "25:00"
		assert.ErrorIs(t, p.Validate(), ErrInvalidQuietHours)
	})

	t.Run("bad quiet hours timezone", func(t *testing.T) {
		p := Default("u1")
		p.QuietHours.Timezone = "Mars/Olympus"
		assert.ErrorIs(t, p.Validate(), ErrInvalidQuietHours)
	})
}

func TestChannelSettings_Enabled(t *testing.T) {
	s := ChannelSettings{InApp: true, Push: false, Realtime: true}

	assert.True(t, s.Enabled(notification.ChannelInApp))
	assert.False(t, s.Enabled(notification.ChannelPush))
	assert.True(t, s.Enabled(notification.ChannelRealtime))
	assert.True(t, s.Enabled(notification.ChannelAll))

	none := ChannelSettings{}
	assert.False(t, none.Enabled(notification.ChannelAll))
}

func TestQuietHours_Contains(t *testing.T) {
	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		require.NoError(t, err)
		return time.Date(2025, 6, 15, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		window QuietHours
		now    string
		want   bool
	}{
		{
			name:   "disabled window never contains",
			window: QuietHours{Enabled: false, Start: "22:00", End: "08:00"},
			now:    "23:00",
			want:   false,
		},
		{
			name:   "wraparound late evening",
			window: QuietHours{Enabled: true, Start: "22:00", End: "08:00"},
			now:    "23:00",
			want:   true,
		},
		{
			name:   "wraparound early morning",
			window: QuietHours{Enabled: true, Start: "22:00", End: "08:00"},
			now:    "07:59",
			want:   true,
		},
		{
			name:   "wraparound outside window",
			window: QuietHours{Enabled: true, Start: "22:00", End: "08:00"},
			now:    "09:00",
			want:   false,
		},
		{
			name:   "same-day window inside",
			window: QuietHours{Enabled: true, Start: "12:00", End: "14:00"},
			now:    "13:00",
			want:   true,
		},
		{
			name:   "same-day window start inclusive",
			window: QuietHours{Enabled: true, Start: "12:00", End: "14:00"},
			now:    "12:00",
			want:   true,
		},
		{
			name:   "same-day window end exclusive",
			window: QuietHours{Enabled: true, Start: "12:00", End: "14:00"},
			now:    "14:00",
			want:   false,
		},
		{
			name:   "equal start and end wraps to full day",
			window: QuietHours{Enabled: true, Start: "08:00", End: "08:00"},
			now:    "08:00",
			want:   true,
		},
		{
			name:   "equal start and end covers opposite side too",
			window: QuietHours{Enabled: true, Start: "08:00", End: "08:00"},
			now:    "20:00",
			want:   true,
		},
		{
			name:   "malformed start fails open",
			window: QuietHours{Enabled: true, Start: "nope", End: "08:00"},
			now:    "23:00",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(at(tt.now)))
		})
	}
}

func TestQuietHours_Timezone(t *testing.T) {
	// 02:00 UTC is 21:00 the previous evening in New York (UTC-5 in winter),
	// outside a 22:00-08:00 local window.
	window := QuietHours{Enabled: true, Start: "22:00", End: "08:00", Timezone: "America/New_York"}
	utc := time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC)
	assert.False(t, window.Contains(utc))

	// 04:00 UTC is 23:00 in New York, inside the window.
	utc = time.Date(2025, 1, 15, 4, 0, 0, 0, time.UTC)
	assert.True(t, window.Contains(utc))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		_, err := s.Get(ctx, "u1")
		assert.ErrorIs(t, err, ErrNotFound)

		exists, err := s.Exists(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("save and get", func(t *testing.T) {
		p := Default("u1")
		p.QuietHours.Enabled = true
		require.NoError(t, s.Save(ctx, p))

		got, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, got.QuietHours.Enabled)
		assert.False(t, got.UpdatedAt.IsZero())

		exists, err := s.Exists(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("save validates", func(t *testing.T) {
		p := Default("u2")
		p.QuietHours.End = "24:61"
		assert.ErrorIs(t, s.Save(ctx, p), ErrInvalidQuietHours)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		p := Default("u1")
		settings := p.Types[notification.TypeInfo]
		settings.Push = false
		p.Types[notification.TypeInfo] = settings
		require.NoError(t, s.Save(ctx, p))

		got, err := s.Get(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, got.Types[notification.TypeInfo].Push)
	})

	t.Run("stored record is isolated from caller mutation", func(t *testing.T) {
		p := Default("u3")
		require.NoError(t, s.Save(ctx, p))
		p.Types[notification.TypeInfo] = ChannelSettings{}

		got, err := s.Get(ctx, "u3")
		require.NoError(t, err)
		assert.True(t, got.Types[notification.TypeInfo].InApp)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "u1"))
		_, err := s.Get(ctx, "u1")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting again is a no-op.
		require.NoError(t, s.Delete(ctx, "u1"))
	})
}
