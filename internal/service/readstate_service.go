package service

import (
	"context"
	"time"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// ReadStateStore is the key-value store behind read markers and
// per-conversation client flags. Injected so the tracker stays testable
// and a server-synced implementation can be swapped in without touching
// call sites.
type ReadStateStore interface {
	LastRead(ctx context.Context, userId, conversationId string) (time.Time, bool, error)
	SetLastRead(ctx context.Context, userId, conversationId string, t time.Time) error
	SetFlag(ctx context.Context, userId, conversationId, flag string, on bool) error
	GetFlag(ctx context.Context, userId, conversationId, flag string) (bool, error)
}

// ReadStateService computes and mutates per-user, per-conversation read
// state. Read state never syncs across stores: two sessions racing on the
// same marker are last-write-wins.
type ReadStateService struct {
	store ReadStateStore
	now   func() time.Time
}

// NewReadStateService creates a new ReadStateService
func NewReadStateService(store ReadStateStore) *ReadStateService {
	return &ReadStateService{store: store, now: time.Now}
}

// LastReadTime returns the stored marker; ok is false when the user has
// never read the conversation.
func (s *ReadStateService) LastReadTime(ctx context.Context, userId, conversationId string) (time.Time, bool, error) {
	return s.store.LastRead(ctx, userId, conversationId)
}

// UnreadCount counts messages strictly after the last-read marker that
// were not authored by the user. A conversation without a marker counts
// as 0 unread: new conversations show clean until first opened, they do
// not start with the full history unread.
func (s *ReadStateService) UnreadCount(ctx context.Context, userId, conversationId string, msgs []entity.MessageSummary) (int, error) {
	marker, ok, err := s.store.LastRead(ctx, userId, conversationId)
	if err != nil {
		return 0, errcode.ErrReadStateFailed.Wrap(err)
	}
	if !ok {
		return 0, nil
	}

	count := 0
	for _, m := range msgs {
		if m.SenderId == userId {
			continue
		}
		if time.UnixMilli(m.SentAt).After(marker) {
			count++
		}
	}
	return count, nil
}

// MarkAsRead moves the marker to now
func (s *ReadStateService) MarkAsRead(ctx context.Context, userId, conversationId string) error {
	if err := s.store.SetLastRead(ctx, userId, conversationId, s.now()); err != nil {
		log.CtxError(ctx, "mark as read failed: user_id=%s, conversation_id=%s, error=%v", userId, conversationId, err)
		return errcode.ErrReadStateFailed
	}
	return nil
}

// MarkAsUnread moves the marker a day into the past so at least one
// message counts as unread again.
func (s *ReadStateService) MarkAsUnread(ctx context.Context, userId, conversationId string) error {
	if err := s.store.SetLastRead(ctx, userId, conversationId, s.now().Add(-24*time.Hour)); err != nil {
		log.CtxError(ctx, "mark as unread failed: user_id=%s, conversation_id=%s, error=%v", userId, conversationId, err)
		return errcode.ErrReadStateFailed
	}
	return nil
}

// SetMuted sets the local mute flag. Nothing suppresses notifications off
// the back of it yet.
func (s *ReadStateService) SetMuted(ctx context.Context, userId, conversationId string, muted bool) error {
	return s.setFlag(ctx, userId, conversationId, constant.FlagMuted, muted)
}

// SetPinned sets the local pin flag. The list keeps recency order either
// way.
func (s *ReadStateService) SetPinned(ctx context.Context, userId, conversationId string, pinned bool) error {
	return s.setFlag(ctx, userId, conversationId, constant.FlagPinned, pinned)
}

// SetArchived hides a conversation from the user's list. Nothing is
// deleted server-side.
func (s *ReadStateService) SetArchived(ctx context.Context, userId, conversationId string, archived bool) error {
	return s.setFlag(ctx, userId, conversationId, constant.FlagArchived, archived)
}

// Flags reads the three client flags for a conversation
func (s *ReadStateService) Flags(ctx context.Context, userId, conversationId string) (muted, pinned, archived bool) {
	muted, _ = s.store.GetFlag(ctx, userId, conversationId, constant.FlagMuted)
	pinned, _ = s.store.GetFlag(ctx, userId, conversationId, constant.FlagPinned)
	archived, _ = s.store.GetFlag(ctx, userId, conversationId, constant.FlagArchived)
	return muted, pinned, archived
}

func (s *ReadStateService) setFlag(ctx context.Context, userId, conversationId, flag string, on bool) error {
	if err := s.store.SetFlag(ctx, userId, conversationId, flag, on); err != nil {
		log.CtxError(ctx, "set %s flag failed: user_id=%s, conversation_id=%s, error=%v", flag, userId, conversationId, err)
		return errcode.ErrReadStateFailed
	}
	return nil
}
