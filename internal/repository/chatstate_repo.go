package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/redis/go-redis/v9"
)

// ChatStateRepo holds the client-side chat state in Redis: per-user
// last-read markers, mute/pin/archive flags, and the cached conversation
// list. None of this is source of truth; everything can be recomputed or
// re-marked.
type ChatStateRepo struct {
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewChatStateRepo creates a new ChatStateRepo
func NewChatStateRepo(rdb *redis.Client, cacheTTL time.Duration) *ChatStateRepo {
	return &ChatStateRepo{rdb: rdb, cacheTTL: cacheTTL}
}

// LastRead returns the last-read marker for a conversation. The second
// return is false when the user has never read it.
func (r *ChatStateRepo) LastRead(ctx context.Context, userId, conversationId string) (time.Time, bool, error) {
	key := fmt.Sprintf(constant.RedisKeyLastRead(), userId, conversationId)
	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		// Unparseable marker is treated as absent
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// SetLastRead writes the last-read marker
func (r *ChatStateRepo) SetLastRead(ctx context.Context, userId, conversationId string, t time.Time) error {
	key := fmt.Sprintf(constant.RedisKeyLastRead(), userId, conversationId)
	return r.rdb.Set(ctx, key, t.Format(time.RFC3339Nano), 0).Err()
}

// SetFlag sets or clears a per-conversation client flag (muted, pinned,
// archived)
func (r *ChatStateRepo) SetFlag(ctx context.Context, userId, conversationId, flag string, on bool) error {
	key := fmt.Sprintf(constant.RedisKeyChatFlag(), flag, userId, conversationId)
	if !on {
		return r.rdb.Del(ctx, key).Err()
	}
	return r.rdb.Set(ctx, key, "1", 0).Err()
}

// GetFlag reads a per-conversation client flag
func (r *ChatStateRepo) GetFlag(ctx context.Context, userId, conversationId, flag string) (bool, error) {
	key := fmt.Sprintf(constant.RedisKeyChatFlag(), flag, userId, conversationId)
	_, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetCachedList returns the cached conversation list for a user, nil on miss
func (r *ChatStateRepo) GetCachedList(ctx context.Context, userId string) ([]*entity.Conversation, error) {
	key := fmt.Sprintf(constant.RedisKeyConvList(), userId)
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var convs []*entity.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, nil
	}
	return convs, nil
}

// SetCachedList caches a user's conversation list with TTL
func (r *ChatStateRepo) SetCachedList(ctx context.Context, userId string, convs []*entity.Conversation) error {
	data, err := json.Marshal(convs)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(constant.RedisKeyConvList(), userId)
	return r.rdb.Set(ctx, key, data, r.cacheTTL).Err()
}

// DropCachedList invalidates one user's cached list
func (r *ChatStateRepo) DropCachedList(ctx context.Context, userId string) error {
	key := fmt.Sprintf(constant.RedisKeyConvList(), userId)
	return r.rdb.Del(ctx, key).Err()
}

// DropAllCachedLists invalidates every cached list. Channel messages are
// visible to the whole team, so a channel insert broadcasts.
func (r *ChatStateRepo) DropAllCachedLists(ctx context.Context) error {
	pattern := fmt.Sprintf(constant.RedisKeyConvList(), "*")
	iter := r.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ChatEvent is published after every message insert so listeners can
// invalidate caches and push refetch notices.
type ChatEvent struct {
	Table          string   `json:"table"` // direct_messages / channel_messages
	ConversationId string   `json:"conversation_id"`
	SenderId       string   `json:"sender_id"`
	UserIds        []string `json:"user_ids,omitempty"` // empty means broadcast
}

// Chat event tables
const (
	EventTableDirect  = "direct_messages"
	EventTableChannel = "channel_messages"
)

// PublishChatEvent publishes an insert event on the chat events channel
func (r *ChatStateRepo) PublishChatEvent(ctx context.Context, evt *ChatEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, constant.RedisKeyChatEvents(), data).Err()
}

// SubscribeChatEvents opens a subscription on the chat events channel.
// Caller owns the returned PubSub and must close it.
func (r *ChatStateRepo) SubscribeChatEvents(ctx context.Context) *redis.PubSub {
	return r.rdb.Subscribe(ctx, constant.RedisKeyChatEvents())
}
