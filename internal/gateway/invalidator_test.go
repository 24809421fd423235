package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
)

type fakeDropper struct {
	dropped    []string
	droppedAll bool
}

func (f *fakeDropper) DropCachedList(_ context.Context, userId string) error {
	f.dropped = append(f.dropped, userId)
	return nil
}

func (f *fakeDropper) DropAllCachedLists(_ context.Context) error {
	f.droppedAll = true
	return nil
}

type staleNotice struct {
	userIds        []string
	conversationId string
	broadcast      bool
}

type fakeNotifier struct {
	notices []staleNotice
}

func (f *fakeNotifier) NotifyUsers(_ context.Context, userIds []string, conversationId string) {
	f.notices = append(f.notices, staleNotice{userIds: userIds, conversationId: conversationId})
}

func (f *fakeNotifier) NotifyAll(_ context.Context, conversationId string) {
	f.notices = append(f.notices, staleNotice{conversationId: conversationId, broadcast: true})
}

func TestHandleEventDirect(t *testing.T) {
	dropper := &fakeDropper{}
	notifier := &fakeNotifier{}
	inv := NewInvalidator(nil, dropper, notifier)

	inv.HandleEvent(context.Background(), &repository.ChatEvent{
		Table:          repository.EventTableDirect,
		ConversationId: "dm_cr__1:of__2",
		SenderId:       "cr__1",
		UserIds:        []string{"cr__1", "of__2"},
	})

	// Only the two participants lose their cached lists
	assert.Equal(t, []string{"cr__1", "of__2"}, dropper.dropped)
	assert.False(t, dropper.droppedAll)

	// Each side is told about the conversation under its own view id
	assert.Len(t, notifier.notices, 2)
	assert.Equal(t, []string{"cr__1"}, notifier.notices[0].userIds)
	assert.Equal(t, "dm-of__2", notifier.notices[0].conversationId)
	assert.Equal(t, []string{"of__2"}, notifier.notices[1].userIds)
	assert.Equal(t, "dm-cr__1", notifier.notices[1].conversationId)
}

func TestHandleEventChannel(t *testing.T) {
	dropper := &fakeDropper{}
	notifier := &fakeNotifier{}
	inv := NewInvalidator(nil, dropper, notifier)

	inv.HandleEvent(context.Background(), &repository.ChatEvent{
		Table:          repository.EventTableChannel,
		ConversationId: "general",
		SenderId:       "cr__1",
	})

	assert.True(t, dropper.droppedAll)
	assert.Empty(t, dropper.dropped)

	assert.Len(t, notifier.notices, 1)
	assert.True(t, notifier.notices[0].broadcast)
	assert.Equal(t, "general", notifier.notices[0].conversationId)
}

func TestHandleEventUnknownTable(t *testing.T) {
	dropper := &fakeDropper{}
	notifier := &fakeNotifier{}
	inv := NewInvalidator(nil, dropper, notifier)

	inv.HandleEvent(context.Background(), &repository.ChatEvent{Table: "leads"})

	assert.Empty(t, dropper.dropped)
	assert.False(t, dropper.droppedAll)
	assert.Empty(t, notifier.notices)
}
