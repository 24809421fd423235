package handler

import (
	"context"
	"strconv"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/middleware"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/service"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// MessageHandler handles direct and channel message requests over HTTP.
// The WebSocket gateway carries the same operations for live clients.
type MessageHandler struct {
	msgService  *service.MessageService
	userService *service.UserService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgService *service.MessageService, userService *service.UserService) *MessageHandler {
	return &MessageHandler{msgService: msgService, userService: userService}
}

// SendDirectRequest represents a direct message send
type SendDirectRequest struct {
	PeerId         string `json:"peer_id"`
	Text           string `json:"text,omitempty"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
}

// SendDirect handles a direct message send
func (h *MessageHandler) SendDirect(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req SendDirectRequest
	if err := c.BindAndValidate(&req); err != nil || req.PeerId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.msgService.SendDirect(ctx, userId, req.PeerId, req.Text, req.AttachmentURL, req.AttachmentType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msg)
}

// ListDirect handles direct history paging. peer_id names the other
// side; limit and before page backwards through history.
func (h *MessageHandler) ListDirect(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	peerId := c.Query("peer_id")
	if peerId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msgs, err := h.msgService.ListDirect(ctx, userId, peerId, queryInt(c, "limit"), queryInt64(c, "before"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msgs)
}

// SendChannelRequest represents a channel post
type SendChannelRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// SendChannel handles a channel post
func (h *MessageHandler) SendChannel(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req SendChannelRequest
	if err := c.BindAndValidate(&req); err != nil || req.Channel == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	sender, err := h.userService.GetUserInfo(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	msg, err := h.msgService.SendChannel(ctx, &entity.User{Id: sender.Id, Name: sender.Name}, req.Channel, req.Text)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msg)
}

// ListChannel handles channel history paging
func (h *MessageHandler) ListChannel(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	channel := c.Query("channel")
	if channel == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msgs, err := h.msgService.ListChannel(ctx, userId, channel, queryInt(c, "limit"), queryInt64(c, "before"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msgs)
}

func queryInt(c *app.RequestContext, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}

func queryInt64(c *app.RequestContext, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}
