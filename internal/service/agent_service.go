package service

import (
	"context"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

// AgentService handles the AI agent hub: per-user threads, each a
// transcript of user and assistant turns. Generation happens upstream;
// this service persists and serves the transcripts.
type AgentService struct {
	agentRepo *repository.AgentRepo
}

// NewAgentService creates a new AgentService
func NewAgentService(agentRepo *repository.AgentRepo) *AgentService {
	return &AgentService{agentRepo: agentRepo}
}

// ListConversations returns a user's agent threads, most recent first
func (s *AgentService) ListConversations(ctx context.Context, userId string) ([]*entity.AgentConversation, error) {
	convs, err := s.agentRepo.ListConversations(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list agent conversations failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return convs, nil
}

// CreateConversationRequest opens a new agent thread
type CreateConversationRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
}

// CreateConversation opens a new agent thread for a user
func (s *AgentService) CreateConversation(ctx context.Context, userId string, req *CreateConversationRequest) (*entity.AgentConversation, error) {
	if req.Title == "" {
		return nil, errcode.ErrInvalidParam
	}
	category := req.Category
	if category == "" {
		category = constant.AgentCategoryGeneral
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrInternalServer
	}
	conv := &entity.AgentConversation{
		Id:       id,
		UserId:   userId,
		Category: category,
		Title:    req.Title,
	}
	if err := s.agentRepo.CreateConversation(ctx, conv); err != nil {
		log.CtxError(ctx, "create agent conversation failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return conv, nil
}

// ListMessages returns a thread's transcript in order
func (s *AgentService) ListMessages(ctx context.Context, userId, conversationId string) ([]*entity.AgentMessage, error) {
	conv, err := s.getOwned(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}
	msgs, err := s.agentRepo.ListMessages(ctx, conv.Id)
	if err != nil {
		log.CtxError(ctx, "list agent messages failed: conversation_id=%s, error=%v", conv.Id, err)
		return nil, errcode.ErrInternalServer
	}
	return msgs, nil
}

// AppendMessageRequest records one turn in a thread. Payload, when set,
// carries structured blocks the hub UI renders alongside the text.
type AppendMessageRequest struct {
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Payload *string `json:"payload,omitempty"`
}

// AppendMessage records a turn and bumps the thread summary
func (s *AgentService) AppendMessage(ctx context.Context, userId, conversationId string, req *AppendMessageRequest) (*entity.AgentMessage, error) {
	if req.Content == "" {
		return nil, errcode.ErrMessageEmpty
	}
	if req.Role != constant.AgentRoleUser && req.Role != constant.AgentRoleAssistant {
		return nil, errcode.ErrInvalidParam
	}
	conv, err := s.getOwned(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrInternalServer
	}
	msg := &entity.AgentMessage{
		Id:             id,
		ConversationId: conv.Id,
		Role:           req.Role,
		Content:        req.Content,
		Payload:        req.Payload,
	}
	if err := s.agentRepo.AppendMessage(ctx, msg); err != nil {
		log.CtxError(ctx, "append agent message failed: conversation_id=%s, error=%v", conv.Id, err)
		return nil, errcode.ErrAgentSaveFailed.Wrap(err)
	}
	return msg, nil
}

// DeleteConversation removes a thread and its transcript
func (s *AgentService) DeleteConversation(ctx context.Context, userId, conversationId string) error {
	conv, err := s.getOwned(ctx, userId, conversationId)
	if err != nil {
		return err
	}
	if err := s.agentRepo.DeleteConversation(ctx, conv.Id); err != nil {
		log.CtxError(ctx, "delete agent conversation failed: conversation_id=%s, error=%v", conv.Id, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// getOwned loads a thread and enforces that threads are private to their
// owner.
func (s *AgentService) getOwned(ctx context.Context, userId, conversationId string) (*entity.AgentConversation, error) {
	conv, err := s.agentRepo.GetConversation(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get agent conversation failed: id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil || conv.UserId != userId {
		return nil, errcode.ErrAgentConvNotFound
	}
	return conv, nil
}
