package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
)

type fakeReadStateStore struct {
	markers map[string]time.Time
	flags   map[string]bool
}

func newFakeReadStateStore() *fakeReadStateStore {
	return &fakeReadStateStore{
		markers: make(map[string]time.Time),
		flags:   make(map[string]bool),
	}
}

func (f *fakeReadStateStore) LastRead(_ context.Context, userId, conversationId string) (time.Time, bool, error) {
	t, ok := f.markers[userId+"/"+conversationId]
	return t, ok, nil
}

func (f *fakeReadStateStore) SetLastRead(_ context.Context, userId, conversationId string, t time.Time) error {
	f.markers[userId+"/"+conversationId] = t
	return nil
}

func (f *fakeReadStateStore) SetFlag(_ context.Context, userId, conversationId, flag string, on bool) error {
	f.flags[userId+"/"+conversationId+"/"+flag] = on
	return nil
}

func (f *fakeReadStateStore) GetFlag(_ context.Context, userId, conversationId, flag string) (bool, error) {
	return f.flags[userId+"/"+conversationId+"/"+flag], nil
}

func summaryAt(senderId string, at time.Time) entity.MessageSummary {
	return entity.MessageSummary{SenderId: senderId, SentAt: at.UnixMilli(), Text: "hi"}
}

func TestUnreadCountNoMarker(t *testing.T) {
	store := newFakeReadStateStore()
	svc := NewReadStateService(store)
	ctx := context.Background()

	msgs := []entity.MessageSummary{
		summaryAt("of__1", time.Now().Add(-time.Hour)),
		summaryAt("of__1", time.Now()),
	}

	// A conversation never opened shows no unread badge, regardless of history
	count, err := svc.UnreadCount(ctx, "cr__2", "dm_cr__2:of__1", msgs)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUnreadCountExcludesOwnMessages(t *testing.T) {
	store := newFakeReadStateStore()
	svc := NewReadStateService(store)
	ctx := context.Background()

	marker := time.Now().Add(-time.Hour)
	require.NoError(t, store.SetLastRead(ctx, "cr__2", "dm_cr__2:of__1", marker))

	msgs := []entity.MessageSummary{
		summaryAt("cr__2", marker.Add(10*time.Minute)), // own, never counted
		summaryAt("of__1", marker.Add(20*time.Minute)),
		summaryAt("of__1", marker.Add(30*time.Minute)),
		summaryAt("of__1", marker.Add(-10*time.Minute)), // before marker
	}

	count, err := svc.UnreadCount(ctx, "cr__2", "dm_cr__2:of__1", msgs)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMarkAsReadClearsUnread(t *testing.T) {
	store := newFakeReadStateStore()
	svc := NewReadStateService(store)
	ctx := context.Background()

	msgs := []entity.MessageSummary{summaryAt("of__1", time.Now().Add(-time.Minute))}
	require.NoError(t, store.SetLastRead(ctx, "cr__2", "general", time.Now().Add(-time.Hour)))

	count, err := svc.UnreadCount(ctx, "cr__2", "general", msgs)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.MarkAsRead(ctx, "cr__2", "general"))

	count, err = svc.UnreadCount(ctx, "cr__2", "general", msgs)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkAsUnreadRewindsMarker(t *testing.T) {
	store := newFakeReadStateStore()
	svc := NewReadStateService(store)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, svc.MarkAsUnread(ctx, "cr__2", "general"))

	marker, ok, err := svc.LastReadTime(ctx, "cr__2", "general")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now.Add(-24*time.Hour), marker)

	// A message from yesterday evening now counts as unread again
	msgs := []entity.MessageSummary{summaryAt("of__1", now.Add(-2*time.Hour))}
	count, err := svc.UnreadCount(ctx, "cr__2", "general", msgs)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFlags(t *testing.T) {
	store := newFakeReadStateStore()
	svc := NewReadStateService(store)
	ctx := context.Background()

	require.NoError(t, svc.SetMuted(ctx, "cr__2", "general", true))
	require.NoError(t, svc.SetPinned(ctx, "cr__2", "general", true))

	muted, pinned, archived := svc.Flags(ctx, "cr__2", "general")
	assert.True(t, muted)
	assert.True(t, pinned)
	assert.False(t, archived)

	require.NoError(t, svc.SetMuted(ctx, "cr__2", "general", false))
	muted, _, _ = svc.Flags(ctx, "cr__2", "general")
	assert.False(t, muted)
}
