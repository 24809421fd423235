package service

import (
	"context"
	"strings"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/idgen"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// MessageService owns message sends and history reads for both direct
// conversations and channels. Every insert publishes a chat event; the
// realtime invalidator takes it from there.
type MessageService struct {
	repos     *repository.Repositories
	readState *ReadStateService
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories, readState *ReadStateService) *MessageService {
	return &MessageService{repos: repos, readState: readState}
}

// SendDirect stores a direct message to a peer, creating the pair row on
// first contact. The sender's own marker moves to now so their copy never
// counts as unread.
func (s *MessageService) SendDirect(ctx context.Context, senderId, peerId, text, attachmentURL, attachmentType string) (*entity.DirectMessage, error) {
	if strings.TrimSpace(text) == "" && attachmentURL == "" {
		return nil, errcode.ErrMessageEmpty
	}
	exists, err := s.repos.User.Exists(ctx, peerId)
	if err != nil || !exists {
		return nil, errcode.ErrUserNotFound
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrSendFailed.Wrap(err)
	}
	msg := &entity.DirectMessage{
		Id:             id,
		ConversationId: entity.GenDirectConversationId(senderId, peerId),
		SenderId:       senderId,
		Text:           text,
		AttachmentURL:  attachmentURL,
		AttachmentType: attachmentType,
		CreatedAt:      entity.NowUnixMilli(),
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.repos.Conversation.Ensure(ctx, tx, senderId, peerId); err != nil {
			return err
		}
		return s.repos.Message.Create(ctx, tx, msg)
	})
	if err != nil {
		log.CtxError(ctx, "send direct message failed: sender_id=%s, peer_id=%s, error=%v", senderId, peerId, err)
		return nil, errcode.ErrSendFailed.Wrap(err)
	}

	if err := s.readState.MarkAsRead(ctx, senderId, entity.DirectViewId(peerId)); err != nil {
		log.CtxWarn(ctx, "self mark read failed: sender_id=%s, error=%v", senderId, err)
	}
	s.publish(ctx, &repository.ChatEvent{
		Table:          repository.EventTableDirect,
		ConversationId: msg.ConversationId,
		SenderId:       senderId,
		UserIds:        []string{senderId, peerId},
	})
	return msg, nil
}

// ListDirect returns a page of direct history with a peer, newest first.
// Opening history is reading it, so the viewer's marker moves to now.
func (s *MessageService) ListDirect(ctx context.Context, userId, peerId string, limit int, beforeMs int64) ([]*entity.DirectMessage, error) {
	pairId := entity.GenDirectConversationId(userId, peerId)
	msgs, err := s.repos.Message.ListByConversation(ctx, pairId, limit, beforeMs)
	if err != nil {
		log.CtxError(ctx, "list direct messages failed: user_id=%s, peer_id=%s, error=%v", userId, peerId, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}
	s.markOpened(ctx, userId, entity.DirectViewId(peerId))
	return msgs, nil
}

// SendChannel posts a message to a named channel. Sender name is
// denormalized onto the row so channel history renders without a roster
// join.
func (s *MessageService) SendChannel(ctx context.Context, sender *entity.User, channelName, text string) (*entity.ChannelMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errcode.ErrMessageEmpty
	}
	slug := entity.SlugifyChannel(channelName)
	if slug == "" {
		return nil, errcode.ErrConvNotFound
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrSendFailed.Wrap(err)
	}
	msg := &entity.ChannelMessage{
		Id:         id,
		Channel:    slug,
		SenderId:   sender.Id,
		SenderName: sender.Name,
		Text:       text,
		CreatedAt:  entity.NowUnixMilli(),
	}
	if err := s.repos.Channel.Create(ctx, msg); err != nil {
		log.CtxError(ctx, "send channel message failed: channel=%s, sender_id=%s, error=%v", slug, sender.Id, err)
		return nil, errcode.ErrSendFailed.Wrap(err)
	}

	if err := s.readState.MarkAsRead(ctx, sender.Id, slug); err != nil {
		log.CtxWarn(ctx, "self mark read failed: sender_id=%s, error=%v", sender.Id, err)
	}
	// Channel visibility is team-wide, so no recipient list.
	s.publish(ctx, &repository.ChatEvent{
		Table:          repository.EventTableChannel,
		ConversationId: slug,
		SenderId:       sender.Id,
	})
	return msg, nil
}

// ListChannel returns a page of channel history, newest first, and marks
// the channel read for the viewer.
func (s *MessageService) ListChannel(ctx context.Context, userId, channelName string, limit int, beforeMs int64) ([]*entity.ChannelMessage, error) {
	slug := entity.SlugifyChannel(channelName)
	msgs, err := s.repos.Channel.ListByChannel(ctx, slug, limit, beforeMs)
	if err != nil {
		log.CtxError(ctx, "list channel messages failed: user_id=%s, channel=%s, error=%v", userId, slug, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}
	s.markOpened(ctx, userId, slug)
	return msgs, nil
}

func (s *MessageService) markOpened(ctx context.Context, userId, conversationId string) {
	if err := s.readState.MarkAsRead(ctx, userId, conversationId); err != nil {
		log.CtxWarn(ctx, "mark opened failed: user_id=%s, conversation_id=%s, error=%v", userId, conversationId, err)
		return
	}
	if err := s.repos.ChatState.DropCachedList(ctx, userId); err != nil {
		log.CtxWarn(ctx, "drop cached list failed: user_id=%s, error=%v", userId, err)
	}
}

// publish fires the post-insert chat event. Delivery is best effort; a
// missed event only delays the next list refresh until the cache TTL.
func (s *MessageService) publish(ctx context.Context, evt *repository.ChatEvent) {
	if err := s.repos.ChatState.PublishChatEvent(ctx, evt); err != nil {
		log.CtxWarn(ctx, "publish chat event failed: table=%s, conversation_id=%s, error=%v", evt.Table, evt.ConversationId, err)
	}
}
