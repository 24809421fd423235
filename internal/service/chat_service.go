package service

import (
	"context"
	"sort"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// DirectConversationSource reads stored direct conversation rows
type DirectConversationSource interface {
	GetForUser(ctx context.Context, userId string) ([]*entity.DirectConversation, error)
	GetById(ctx context.Context, id string) (*entity.DirectConversation, error)
}

// DirectMessageSource reads direct messages for the aggregation pass
type DirectMessageSource interface {
	ListByConversationIds(ctx context.Context, conversationIds []string) ([]*entity.DirectMessage, error)
}

// ChannelMessageSource reads channel messages for the aggregation pass
type ChannelMessageSource interface {
	ListAll(ctx context.Context) ([]*entity.ChannelMessage, error)
}

// RosterSource resolves team members for counterpart display
type RosterSource interface {
	Roster(ctx context.Context) (map[string]*entity.User, error)
}

// ProjectSource batch-resolves projects behind project channels
type ProjectSource interface {
	GetByIds(ctx context.Context, ids []string) (map[string]*entity.Project, error)
}

// ListCache is the short-TTL cache in front of the aggregation
type ListCache interface {
	GetCachedList(ctx context.Context, userId string) ([]*entity.Conversation, error)
	SetCachedList(ctx context.Context, userId string, convs []*entity.Conversation) error
	DropCachedList(ctx context.Context, userId string) error
}

// DirectConversationDeleter removes a direct conversation and its
// messages atomically
type DirectConversationDeleter interface {
	DeleteDirectConversation(ctx context.Context, conversationId string) error
}

// ChatService merges direct conversations and channels into the unified
// list, and carries the per-conversation lifecycle actions. All state it
// mutates is client-side read state; messages themselves are owned by
// MessageService.
type ChatService struct {
	convs     DirectConversationSource
	directs   DirectMessageSource
	channels  ChannelMessageSource
	roster    RosterSource
	projects  ProjectSource
	cache     ListCache
	readState *ReadStateService
	deleter   DirectConversationDeleter

	defaultChannels []string
}

// NewChatService creates a new ChatService
func NewChatService(
	convs DirectConversationSource,
	directs DirectMessageSource,
	channels ChannelMessageSource,
	roster RosterSource,
	projects ProjectSource,
	cache ListCache,
	readState *ReadStateService,
	deleter DirectConversationDeleter,
	defaultChannels []string,
) *ChatService {
	return &ChatService{
		convs:           convs,
		directs:         directs,
		channels:        channels,
		roster:          roster,
		projects:        projects,
		cache:           cache,
		readState:       readState,
		deleter:         deleter,
		defaultChannels: defaultChannels,
	}
}

// ListConversations builds the unified conversation list for one user:
// direct conversations merged with channels, each carrying its latest
// message, unread count, and client flags, newest activity first.
// Archived conversations are filtered out. Results are cached briefly;
// the realtime invalidator drops the cache on every message insert.
func (s *ChatService) ListConversations(ctx context.Context, userId string) ([]*entity.Conversation, error) {
	if cached, err := s.cache.GetCachedList(ctx, userId); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.CtxWarn(ctx, "conversation list cache read failed: user_id=%s, error=%v", userId, err)
	}

	directs, err := s.fetchDirect(ctx, userId)
	if err != nil {
		return nil, err
	}
	channels, err := s.fetchChannels(ctx, userId)
	if err != nil {
		return nil, err
	}

	merged := make([]*entity.Conversation, 0, len(directs)+len(channels))
	for _, c := range append(directs, channels...) {
		muted, pinned, archived := s.readState.Flags(ctx, userId, c.Id)
		if archived {
			continue
		}
		c.Muted = muted
		c.Pinned = pinned
		merged = append(merged, c)
	}

	// Recency order for everything. Pinned conversations keep their
	// place; the flag is display-only for now.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})

	if err := s.cache.SetCachedList(ctx, userId, merged); err != nil {
		log.CtxWarn(ctx, "conversation list cache write failed: user_id=%s, error=%v", userId, err)
	}
	return merged, nil
}

// fetchDirect builds one list entry per direct conversation the user
// participates in. Counterparts missing from the roster are dropped
// silently rather than rendered as unknowns.
func (s *ChatService) fetchDirect(ctx context.Context, userId string) ([]*entity.Conversation, error) {
	rows, err := s.convs.GetForUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "fetch direct conversations failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Id)
	}
	msgs, err := s.directs.ListByConversationIds(ctx, ids)
	if err != nil {
		log.CtxError(ctx, "fetch direct messages failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}
	byConv := make(map[string][]entity.MessageSummary, len(rows))
	for _, m := range msgs {
		byConv[m.ConversationId] = append(byConv[m.ConversationId], m.Summary())
	}

	roster, err := s.roster.Roster(ctx)
	if err != nil {
		log.CtxError(ctx, "fetch roster failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}

	out := make([]*entity.Conversation, 0, len(rows))
	for _, row := range rows {
		peer, ok := roster[row.Peer(userId)]
		if !ok {
			continue
		}
		viewId := entity.DirectViewId(peer.Id)
		conv := &entity.Conversation{
			Id:           viewId,
			Name:         peer.Name,
			Kind:         constant.ConvKindDirect,
			LastMessage:  entity.NoMessagesPlaceholder,
			Timestamp:    row.CreatedAt,
			Participants: []string{userId, peer.Id},
			Avatar:       peer.Avatar,
		}
		summaries := byConv[row.Id]
		if len(summaries) > 0 {
			last := summaries[len(summaries)-1]
			conv.LastMessage = last.Text
			conv.LastSender = s.senderName(roster, last.SenderId)
			conv.Timestamp = last.SentAt
		}
		unread, err := s.readState.UnreadCount(ctx, userId, viewId, summaries)
		if err != nil {
			return nil, err
		}
		conv.UnreadCount = unread
		out = append(out, conv)
	}
	return out, nil
}

// fetchChannels builds one list entry per channel seen in the message
// table, plus the configured defaults, which appear even when empty.
// Project channels get their display name and thumbnail from the project
// row, resolved in one batched lookup.
func (s *ChatService) fetchChannels(ctx context.Context, userId string) ([]*entity.Conversation, error) {
	msgs, err := s.channels.ListAll(ctx)
	if err != nil {
		log.CtxError(ctx, "fetch channel messages failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}

	byChannel := make(map[string][]entity.MessageSummary)
	for _, m := range msgs {
		byChannel[m.Channel] = append(byChannel[m.Channel], m.Summary())
	}
	for _, def := range s.defaultChannels {
		slug := entity.SlugifyChannel(def)
		if _, ok := byChannel[slug]; !ok {
			byChannel[slug] = nil
		}
	}

	resolved := make(map[string]entity.Channel, len(byChannel))
	var projectIds []string
	for name := range byChannel {
		ch := entity.ResolveChannel(name, s.defaultChannels)
		resolved[name] = ch
		if ch.Kind == entity.ChannelProject {
			projectIds = append(projectIds, ch.ProjectId)
		}
	}
	projects, err := s.projects.GetByIds(ctx, projectIds)
	if err != nil {
		log.CtxError(ctx, "resolve project channels failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrConvListFailed.Wrap(err)
	}

	out := make([]*entity.Conversation, 0, len(byChannel))
	for name, summaries := range byChannel {
		ch := resolved[name]
		conv := &entity.Conversation{
			Id:          ch.Slug,
			Name:        s.channelDisplayName(ch, projects),
			Kind:        constant.ConvKindChannel,
			ChannelKind: ch.Kind,
			ProjectId:   ch.ProjectId,
			LastMessage: entity.NoMessagesPlaceholder,
		}
		if ch.Kind == entity.ChannelProject {
			if p, ok := projects[ch.ProjectId]; ok {
				conv.Thumbnail = p.Thumbnail
			}
		}
		if len(summaries) > 0 {
			last := summaries[len(summaries)-1]
			conv.LastMessage = last.Text
			conv.LastSender = last.SenderName
			conv.Timestamp = last.SentAt
		}
		unread, err := s.readState.UnreadCount(ctx, userId, ch.Slug, summaries)
		if err != nil {
			return nil, err
		}
		conv.UnreadCount = unread
		out = append(out, conv)
	}
	return out, nil
}

func (s *ChatService) channelDisplayName(ch entity.Channel, projects map[string]*entity.Project) string {
	if ch.Kind == entity.ChannelProject {
		if p, ok := projects[ch.ProjectId]; ok {
			return p.Name
		}
		// Project row gone; fall back to the raw channel name rather
		// than hiding the history.
		return ch.Name
	}
	for _, def := range s.defaultChannels {
		if entity.SlugifyChannel(def) == ch.Slug {
			return def
		}
	}
	return ch.Name
}

func (s *ChatService) senderName(roster map[string]*entity.User, senderId string) string {
	if u, ok := roster[senderId]; ok {
		return u.Name
	}
	return ""
}

// MarkRead moves the viewer's last-read marker to now and refreshes the
// cached list so the badge clears immediately.
func (s *ChatService) MarkRead(ctx context.Context, userId, conversationId string) error {
	if err := s.readState.MarkAsRead(ctx, userId, conversationId); err != nil {
		return err
	}
	return s.dropCache(ctx, userId)
}

// MarkUnread re-flags a conversation for follow-up
func (s *ChatService) MarkUnread(ctx context.Context, userId, conversationId string) error {
	if err := s.readState.MarkAsUnread(ctx, userId, conversationId); err != nil {
		return err
	}
	return s.dropCache(ctx, userId)
}

// SetMuted toggles the mute flag
func (s *ChatService) SetMuted(ctx context.Context, userId, conversationId string, muted bool) error {
	if err := s.readState.SetMuted(ctx, userId, conversationId, muted); err != nil {
		return err
	}
	return s.dropCache(ctx, userId)
}

// SetPinned toggles the pin flag
func (s *ChatService) SetPinned(ctx context.Context, userId, conversationId string, pinned bool) error {
	if err := s.readState.SetPinned(ctx, userId, conversationId, pinned); err != nil {
		return err
	}
	return s.dropCache(ctx, userId)
}

// SetArchived toggles the archive flag
func (s *ChatService) SetArchived(ctx context.Context, userId, conversationId string, archived bool) error {
	if err := s.readState.SetArchived(ctx, userId, conversationId, archived); err != nil {
		return err
	}
	return s.dropCache(ctx, userId)
}

// DeleteConversation removes a direct conversation and all its messages
// for both participants. Channels are shared team history and cannot be
// deleted from the list.
func (s *ChatService) DeleteConversation(ctx context.Context, userId, viewId string) error {
	peerId, ok := entity.PeerFromViewId(viewId)
	if !ok {
		return errcode.ErrChannelDeleteUnsupported
	}

	pairId := entity.GenDirectConversationId(userId, peerId)
	conv, err := s.convs.GetById(ctx, pairId)
	if err != nil {
		log.CtxError(ctx, "load conversation for delete failed: id=%s, error=%v", pairId, err)
		return errcode.ErrDeleteFailed.Wrap(err)
	}
	if conv == nil {
		return errcode.ErrConvNotFound
	}

	if err := s.deleter.DeleteDirectConversation(ctx, pairId); err != nil {
		log.CtxError(ctx, "delete conversation failed: id=%s, error=%v", pairId, err)
		return errcode.ErrDeleteFailed.Wrap(err)
	}

	// The row is gone for both sides; refresh both lists.
	if err := s.dropCache(ctx, userId); err != nil {
		return err
	}
	return s.dropCache(ctx, peerId)
}

func (s *ChatService) dropCache(ctx context.Context, userId string) error {
	if err := s.cache.DropCachedList(ctx, userId); err != nil {
		log.CtxWarn(ctx, "drop conversation list cache failed: user_id=%s, error=%v", userId, err)
	}
	return nil
}
