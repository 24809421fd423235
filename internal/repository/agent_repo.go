package repository

import (
	"context"
	"errors"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
)

// AgentRepo is the repository for agent hub conversations and messages
type AgentRepo struct {
	db *gorm.DB
}

// NewAgentRepo creates a new AgentRepo
func NewAgentRepo(db *gorm.DB) *AgentRepo {
	return &AgentRepo{db: db}
}

// ListConversations returns a user's agent conversations, newest first
func (r *AgentRepo) ListConversations(ctx context.Context, userId string) ([]*entity.AgentConversation, error) {
	var convs []*entity.AgentConversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// GetConversation gets a conversation, nil when missing
func (r *AgentRepo) GetConversation(ctx context.Context, id string) (*entity.AgentConversation, error) {
	var conv entity.AgentConversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// CreateConversation creates an agent conversation
func (r *AgentRepo) CreateConversation(ctx context.Context, conv *entity.AgentConversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

// ListMessages returns a conversation's messages in chronological order
func (r *AgentRepo) ListMessages(ctx context.Context, conversationId string) ([]*entity.AgentMessage, error) {
	var msgs []*entity.AgentMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// AppendMessage inserts a message and bumps the conversation's summary
// fields in one transaction.
func (r *AgentRepo) AppendMessage(ctx context.Context, msg *entity.AgentMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&entity.AgentConversation{}).
			Where("id = ?", msg.ConversationId).
			Updates(map[string]interface{}{
				"last_message":  msg.Content,
				"message_count": gorm.Expr("message_count + 1"),
				"updated_at":    entity.NowUnixMilli(),
			}).Error
	})
}

// DeleteConversation removes a conversation and its messages
func (r *AgentRepo) DeleteConversation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&entity.AgentMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.AgentConversation{}).Error
	})
}
