package service

import (
	"context"
	"strings"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/email"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

// LeadService handles contact-form submissions from the marketing site
type LeadService struct {
	leadRepo *repository.LeadRepo
	sender   *email.Sender
}

// NewLeadService creates a new LeadService
func NewLeadService(leadRepo *repository.LeadRepo, sender *email.Sender) *LeadService {
	return &LeadService{leadRepo: leadRepo, sender: sender}
}

// SubmitLeadRequest represents a contact form submission
type SubmitLeadRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	City       string `json:"city,omitempty"`
	Service    string `json:"service,omitempty"`
	Message    string `json:"message,omitempty"`
	SourcePage string `json:"source_page,omitempty"`
}

// SubmitLead stores a lead and notifies the office. The email is best
// effort: a mail outage must not lose the lead or fail the form.
func (s *LeadService) SubmitLead(ctx context.Context, req *SubmitLeadRequest) (*entity.Lead, error) {
	if strings.TrimSpace(req.Name) == "" || (strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "") {
		return nil, errcode.ErrLeadInvalid
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrLeadSaveFailed.Wrap(err)
	}
	lead := &entity.Lead{
		Id:         id,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		City:       req.City,
		Service:    req.Service,
		Message:    req.Message,
		SourcePage: req.SourcePage,
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		log.CtxError(ctx, "save lead failed: %v", err)
		return nil, errcode.ErrLeadSaveFailed.Wrap(err)
	}

	if err := s.sender.SendLeadNotification(ctx, lead); err != nil {
		log.CtxWarn(ctx, "lead notification email failed: lead_id=%s, error=%v", lead.Id, err)
	}

	log.CtxInfo(ctx, "lead captured: id=%s, name=%s, service=%s", lead.Id, lead.Name, lead.Service)
	return lead, nil
}

// ListLeads returns recent leads for the office dashboard
func (s *LeadService) ListLeads(ctx context.Context, limit int) ([]*entity.Lead, error) {
	leads, err := s.leadRepo.List(ctx, limit)
	if err != nil {
		log.CtxError(ctx, "list leads failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return leads, nil
}
