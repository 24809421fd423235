package handler

import (
	"context"
	"strconv"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/middleware"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/service"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/kit/log"
)

// LeadHandler handles marketing site lead capture and the office lead
// dashboard
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// SubmitLead handles the public contact form. No auth; rate limited at
// the router.
func (h *LeadHandler) SubmitLead(ctx context.Context, c *app.RequestContext) {
	var req service.SubmitLeadRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	lead, err := h.leadService.SubmitLead(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, lead)
}

// ListLeads handles the office lead dashboard
func (h *LeadHandler) ListLeads(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	leads, err := h.leadService.ListLeads(ctx, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, leads)
}

// SmsWebhook accepts inbound SMS delivery callbacks. Parsing inbound
// texts into conversations is not wired up yet; the payload is logged
// and acknowledged so the provider does not retry.
func (h *LeadHandler) SmsWebhook(ctx context.Context, c *app.RequestContext) {
	body := c.Request.Body()
	log.CtxInfo(ctx, "sms webhook received: %d bytes", len(body))
	response.Success(ctx, c, map[string]string{"status": "received"})
}
