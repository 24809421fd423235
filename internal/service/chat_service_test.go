package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
)

type fakeConvSource struct {
	rows []*entity.DirectConversation
}

func (f *fakeConvSource) GetForUser(_ context.Context, userId string) ([]*entity.DirectConversation, error) {
	var out []*entity.DirectConversation
	for _, r := range f.rows {
		if r.UserA == userId || r.UserB == userId {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeConvSource) GetById(_ context.Context, id string) (*entity.DirectConversation, error) {
	for _, r := range f.rows {
		if r.Id == id {
			return r, nil
		}
	}
	return nil, nil
}

type fakeDirectMsgSource struct {
	msgs []*entity.DirectMessage
}

func (f *fakeDirectMsgSource) ListByConversationIds(_ context.Context, ids []string) ([]*entity.DirectMessage, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.DirectMessage
	for _, m := range f.msgs {
		if want[m.ConversationId] {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeChannelMsgSource struct {
	msgs []*entity.ChannelMessage
}

func (f *fakeChannelMsgSource) ListAll(_ context.Context) ([]*entity.ChannelMessage, error) {
	return f.msgs, nil
}

type fakeRosterSource struct {
	users map[string]*entity.User
}

func (f *fakeRosterSource) Roster(_ context.Context) (map[string]*entity.User, error) {
	return f.users, nil
}

type fakeProjectSource struct {
	projects map[string]*entity.Project
}

func (f *fakeProjectSource) GetByIds(_ context.Context, ids []string) (map[string]*entity.Project, error) {
	out := make(map[string]*entity.Project)
	for _, id := range ids {
		if p, ok := f.projects[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeListCache struct {
	lists map[string][]*entity.Conversation
	drops []string
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{lists: make(map[string][]*entity.Conversation)}
}

func (f *fakeListCache) GetCachedList(_ context.Context, userId string) ([]*entity.Conversation, error) {
	return f.lists[userId], nil
}

func (f *fakeListCache) SetCachedList(_ context.Context, userId string, convs []*entity.Conversation) error {
	f.lists[userId] = convs
	return nil
}

func (f *fakeListCache) DropCachedList(_ context.Context, userId string) error {
	delete(f.lists, userId)
	f.drops = append(f.drops, userId)
	return nil
}

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteDirectConversation(_ context.Context, conversationId string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, conversationId)
	return nil
}

type chatFixture struct {
	svc     *ChatService
	convs   *fakeConvSource
	directs *fakeDirectMsgSource
	chans   *fakeChannelMsgSource
	cache   *fakeListCache
	store   *fakeReadStateStore
	deleter *fakeDeleter
}

func newChatFixture(defaults []string) *chatFixture {
	f := &chatFixture{
		convs:   &fakeConvSource{},
		directs: &fakeDirectMsgSource{},
		chans:   &fakeChannelMsgSource{},
		cache:   newFakeListCache(),
		store:   newFakeReadStateStore(),
		deleter: &fakeDeleter{},
	}
	roster := &fakeRosterSource{users: map[string]*entity.User{
		"cr__1": {Id: "cr__1", Name: "Alice Mendez"},
		"of__2": {Id: "of__2", Name: "Bob Tran"},
	}}
	projects := &fakeProjectSource{projects: map[string]*entity.Project{
		"p1": {Id: "p1", Name: "Oak St Re-roof", Thumbnail: "https://cdn/p1.jpg"},
	}}
	f.svc = NewChatService(
		f.convs, f.directs, f.chans, roster, projects,
		f.cache, NewReadStateService(f.store), f.deleter, defaults,
	)
	return f
}

func directRow(a, b string, createdAt int64) *entity.DirectConversation {
	return &entity.DirectConversation{
		Id:        entity.GenDirectConversationId(a, b),
		UserA:     a,
		UserB:     b,
		CreatedAt: createdAt,
	}
}

func findConv(t *testing.T, convs []*entity.Conversation, id string) *entity.Conversation {
	t.Helper()
	for _, c := range convs {
		if c.Id == id {
			return c
		}
	}
	t.Fatalf("conversation %q not in list", id)
	return nil
}

func TestListConversationsMergesDirectAndChannels(t *testing.T) {
	f := newChatFixture([]string{"General"})
	ctx := context.Background()

	f.convs.rows = []*entity.DirectConversation{directRow("cr__1", "of__2", 1000)}
	f.directs.msgs = []*entity.DirectMessage{
		{Id: "m1", ConversationId: "dm_cr__1:of__2", SenderId: "of__2", Text: "roof is done", CreatedAt: 5000},
	}
	f.chans.msgs = []*entity.ChannelMessage{
		{Id: "c1", Channel: "general", SenderId: "of__2", SenderName: "Bob Tran", Text: "morning all", CreatedAt: 3000},
	}

	convs, err := f.svc.ListConversations(ctx, "cr__1")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	dm := findConv(t, convs, "dm-of__2")
	assert.Equal(t, int32(constant.ConvKindDirect), dm.Kind)
	assert.Equal(t, "Bob Tran", dm.Name)
	assert.Equal(t, "roof is done", dm.LastMessage)
	assert.Equal(t, int64(5000), dm.Timestamp)

	general := findConv(t, convs, "general")
	assert.Equal(t, int32(constant.ConvKindChannel), general.Kind)
	assert.Equal(t, entity.ChannelDefault, general.ChannelKind)
	assert.Equal(t, "morning all", general.LastMessage)
	assert.Equal(t, "Bob Tran", general.LastSender)

	// Newest activity first
	assert.Equal(t, "dm-of__2", convs[0].Id)
}

func TestListConversationsDefaultChannelAlwaysListed(t *testing.T) {
	f := newChatFixture([]string{"General"})

	convs, err := f.svc.ListConversations(context.Background(), "cr__1")
	require.NoError(t, err)
	require.Len(t, convs, 1)

	general := convs[0]
	assert.Equal(t, "general", general.Id)
	assert.Equal(t, "General", general.Name)
	assert.Equal(t, entity.NoMessagesPlaceholder, general.LastMessage)
	assert.Equal(t, 0, general.UnreadCount)
}

func TestListConversationsProjectChannelResolution(t *testing.T) {
	f := newChatFixture(nil)
	f.chans.msgs = []*entity.ChannelMessage{
		{Id: "c1", Channel: "project-p1", SenderId: "of__2", SenderName: "Bob Tran", Text: "shingles delivered", CreatedAt: 2000},
		{Id: "c2", Channel: "project-gone", SenderId: "of__2", SenderName: "Bob Tran", Text: "old job", CreatedAt: 1000},
	}

	convs, err := f.svc.ListConversations(context.Background(), "cr__1")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	p1 := findConv(t, convs, "project-p1")
	assert.Equal(t, entity.ChannelProject, p1.ChannelKind)
	assert.Equal(t, "Oak St Re-roof", p1.Name)
	assert.Equal(t, "p1", p1.ProjectId)
	assert.Equal(t, "https://cdn/p1.jpg", p1.Thumbnail)

	// Deleted project keeps the history under the raw channel name
	gone := findConv(t, convs, "project-gone")
	assert.Equal(t, "project-gone", gone.Name)
	assert.Empty(t, gone.Thumbnail)
}

func TestListConversationsSkipsUnknownPeers(t *testing.T) {
	f := newChatFixture(nil)
	f.convs.rows = []*entity.DirectConversation{
		directRow("cr__1", "of__2", 1000),
		directRow("cr__1", "of__ghost", 2000),
	}

	convs, err := f.svc.ListConversations(context.Background(), "cr__1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "dm-of__2", convs[0].Id)
}

func TestListConversationsFiltersArchived(t *testing.T) {
	f := newChatFixture([]string{"General"})
	ctx := context.Background()
	f.convs.rows = []*entity.DirectConversation{directRow("cr__1", "of__2", 1000)}

	require.NoError(t, f.store.SetFlag(ctx, "cr__1", "dm-of__2", constant.FlagArchived, true))
	require.NoError(t, f.store.SetFlag(ctx, "cr__1", "general", constant.FlagMuted, true))

	convs, err := f.svc.ListConversations(ctx, "cr__1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "general", convs[0].Id)
	assert.True(t, convs[0].Muted)
}

func TestListConversationsUnreadCounts(t *testing.T) {
	f := newChatFixture(nil)
	ctx := context.Background()
	f.convs.rows = []*entity.DirectConversation{directRow("cr__1", "of__2", 1000)}

	marker := time.Now().Add(-time.Hour)
	require.NoError(t, f.store.SetLastRead(ctx, "cr__1", "dm-of__2", marker))
	f.directs.msgs = []*entity.DirectMessage{
		{Id: "m1", ConversationId: "dm_cr__1:of__2", SenderId: "of__2", Text: "a", CreatedAt: marker.Add(-time.Minute).UnixMilli()},
		{Id: "m2", ConversationId: "dm_cr__1:of__2", SenderId: "of__2", Text: "b", CreatedAt: marker.Add(time.Minute).UnixMilli()},
		{Id: "m3", ConversationId: "dm_cr__1:of__2", SenderId: "cr__1", Text: "c", CreatedAt: marker.Add(2 * time.Minute).UnixMilli()},
	}

	convs, err := f.svc.ListConversations(ctx, "cr__1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].UnreadCount)
}

func TestListConversationsServesCachedList(t *testing.T) {
	f := newChatFixture(nil)
	ctx := context.Background()
	cached := []*entity.Conversation{{Id: "general", Name: "General"}}
	require.NoError(t, f.cache.SetCachedList(ctx, "cr__1", cached))

	// Sources would add a direct conversation, but the cache wins
	f.convs.rows = []*entity.DirectConversation{directRow("cr__1", "of__2", 1000)}

	convs, err := f.svc.ListConversations(ctx, "cr__1")
	require.NoError(t, err)
	assert.Equal(t, cached, convs)
}

func TestMarkReadDropsCache(t *testing.T) {
	f := newChatFixture(nil)
	ctx := context.Background()
	require.NoError(t, f.cache.SetCachedList(ctx, "cr__1", []*entity.Conversation{{Id: "general"}}))

	require.NoError(t, f.svc.MarkRead(ctx, "cr__1", "general"))
	assert.Contains(t, f.cache.drops, "cr__1")

	_, ok, err := f.store.LastRead(ctx, "cr__1", "general")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("channels cannot be deleted", func(t *testing.T) {
		f := newChatFixture(nil)
		err := f.svc.DeleteConversation(ctx, "cr__1", "general")
		assert.ErrorIs(t, err, errcode.ErrChannelDeleteUnsupported)
		assert.Empty(t, f.deleter.deleted)
	})

	t.Run("unknown peer", func(t *testing.T) {
		f := newChatFixture(nil)
		err := f.svc.DeleteConversation(ctx, "cr__1", "dm-of__2")
		assert.ErrorIs(t, err, errcode.ErrConvNotFound)
	})

	t.Run("deletes pair row and drops both caches", func(t *testing.T) {
		f := newChatFixture(nil)
		f.convs.rows = []*entity.DirectConversation{directRow("cr__1", "of__2", 1000)}
		require.NoError(t, f.cache.SetCachedList(ctx, "cr__1", []*entity.Conversation{{Id: "dm-of__2"}}))
		require.NoError(t, f.cache.SetCachedList(ctx, "of__2", []*entity.Conversation{{Id: "dm-cr__1"}}))

		require.NoError(t, f.svc.DeleteConversation(ctx, "cr__1", "dm-of__2"))
		assert.Equal(t, []string{"dm_cr__1:of__2"}, f.deleter.deleted)
		assert.Contains(t, f.cache.drops, "cr__1")
		assert.Contains(t, f.cache.drops, "of__2")
	})

	t.Run("deleter failure surfaces as delete error", func(t *testing.T) {
		f := newChatFixture(nil)
		f.convs.rows = []*entity.DirectConversation{directRow("cr__1", "of__2", 1000)}
		f.deleter.err = errors.New("db gone")

		err := f.svc.DeleteConversation(ctx, "cr__1", "dm-of__2")
		require.Error(t, err)
		var e *errcode.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errcode.ErrDeleteFailed.Code, e.Code)
	})
}
