package gateway

import (
	"context"
	"encoding/json"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/mbeoliero/kit/log"
)

// ListCacheDropper invalidates cached conversation lists
type ListCacheDropper interface {
	DropCachedList(ctx context.Context, userId string) error
	DropAllCachedLists(ctx context.Context) error
}

// StaleNotifier tells connected clients to refetch their lists
type StaleNotifier interface {
	NotifyUsers(ctx context.Context, userIds []string, conversationId string)
	NotifyAll(ctx context.Context, conversationId string)
}

// Invalidator subscribes to chat insert events and keeps conversation
// lists fresh: it drops the affected cached lists and nudges connected
// clients to refetch. Clients never patch lists locally from pushes.
type Invalidator struct {
	states   *repository.ChatStateRepo
	cache    ListCacheDropper
	notifier StaleNotifier
}

// NewInvalidator creates a new Invalidator
func NewInvalidator(states *repository.ChatStateRepo, cache ListCacheDropper, notifier StaleNotifier) *Invalidator {
	return &Invalidator{
		states:   states,
		cache:    cache,
		notifier: notifier,
	}
}

// Run subscribes and processes events until the context ends
func (inv *Invalidator) Run(ctx context.Context) {
	pubsub := inv.states.SubscribeChatEvents(ctx)
	defer pubsub.Close()

	log.Info("chat invalidator subscribed")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				log.Warn("chat events subscription closed")
				return
			}

			var evt repository.ChatEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.CtxWarn(ctx, "bad chat event payload: %v", err)
				continue
			}
			inv.HandleEvent(ctx, &evt)
		}
	}
}

// HandleEvent processes one insert event. Direct messages touch exactly
// the two participants; channel messages are team-visible, so every
// cached list goes.
func (inv *Invalidator) HandleEvent(ctx context.Context, evt *repository.ChatEvent) {
	switch evt.Table {
	case repository.EventTableDirect:
		for _, userId := range evt.UserIds {
			if err := inv.cache.DropCachedList(ctx, userId); err != nil {
				log.CtxWarn(ctx, "drop cached list failed: user_id=%s, error=%v", userId, err)
			}
			inv.notifier.NotifyUsers(ctx, []string{userId}, inv.directViewFor(evt, userId))
		}

	case repository.EventTableChannel:
		if err := inv.cache.DropAllCachedLists(ctx); err != nil {
			log.CtxWarn(ctx, "drop all cached lists failed: %v", err)
		}
		inv.notifier.NotifyAll(ctx, evt.ConversationId)

	default:
		log.CtxDebug(ctx, "ignoring chat event for table %s", evt.Table)
	}
}

// directViewFor maps the stored pair event onto one participant's view
// id: the conversation is named after the other side.
func (inv *Invalidator) directViewFor(evt *repository.ChatEvent, viewerId string) string {
	for _, userId := range evt.UserIds {
		if userId != viewerId {
			return entity.DirectViewId(userId)
		}
	}
	return evt.ConversationId
}
