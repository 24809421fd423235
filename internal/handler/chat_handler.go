package handler

import (
	"context"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/middleware"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/service"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/kit/log"
)

// ChatHandler handles the unified conversation list and its lifecycle
// actions
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetConversations handles the merged conversation list. A failed fetch
// degrades to an empty list: the portal shows an empty inbox rather than
// an error page, and the next realtime nudge retries.
func (h *ChatHandler) GetConversations(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	convs, err := h.chatService.ListConversations(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "conversation list failed, serving empty: user_id=%s, error=%v", userId, err)
		response.Success(ctx, c, []*entity.Conversation{})
		return
	}

	response.Success(ctx, c, convs)
}

// ConversationRequest targets a single conversation by its list id
type ConversationRequest struct {
	ConversationId string `json:"conversation_id"`
}

// MarkRead handles mark conversation as read
func (h *ChatHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	h.lifecycle(ctx, c, h.chatService.MarkRead)
}

// MarkUnread handles mark conversation as unread
func (h *ChatHandler) MarkUnread(ctx context.Context, c *app.RequestContext) {
	h.lifecycle(ctx, c, h.chatService.MarkUnread)
}

// FlagRequest toggles a per-conversation client flag
type FlagRequest struct {
	ConversationId string `json:"conversation_id"`
	On             bool   `json:"on"`
}

// SetMuted handles mute/unmute
func (h *ChatHandler) SetMuted(ctx context.Context, c *app.RequestContext) {
	h.flag(ctx, c, h.chatService.SetMuted)
}

// SetPinned handles pin/unpin
func (h *ChatHandler) SetPinned(ctx context.Context, c *app.RequestContext) {
	h.flag(ctx, c, h.chatService.SetPinned)
}

// SetArchived handles archive/unarchive
func (h *ChatHandler) SetArchived(ctx context.Context, c *app.RequestContext) {
	h.flag(ctx, c, h.chatService.SetArchived)
}

// DeleteConversation handles direct conversation deletion
func (h *ChatHandler) DeleteConversation(ctx context.Context, c *app.RequestContext) {
	h.lifecycle(ctx, c, h.chatService.DeleteConversation)
}

func (h *ChatHandler) lifecycle(ctx context.Context, c *app.RequestContext, op func(context.Context, string, string) error) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req ConversationRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := op(ctx, userId, req.ConversationId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

func (h *ChatHandler) flag(ctx context.Context, c *app.RequestContext, op func(context.Context, string, string, bool) error) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req FlagRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := op(ctx, userId, req.ConversationId, req.On); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
