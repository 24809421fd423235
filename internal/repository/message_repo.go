package repository

import (
	"context"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
)

// MessageRepo is the repository for direct messages
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create inserts a message within a transaction
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.DirectMessage) error {
	return tx.WithContext(ctx).Create(msg).Error
}

// ListByConversationIds batch-fetches messages for many conversations in
// one query. The fetcher groups them in memory; one query per
// conversation would be N round-trips.
func (r *MessageRepo) ListByConversationIds(ctx context.Context, conversationIds []string) ([]*entity.DirectMessage, error) {
	if len(conversationIds) == 0 {
		return nil, nil
	}
	var msgs []*entity.DirectMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIds).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByConversation returns a page of messages for one conversation,
// newest first
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationId string, limit int, beforeMs int64) ([]*entity.DirectMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId)
	if beforeMs > 0 {
		q = q.Where("created_at < ?", beforeMs)
	}
	var msgs []*entity.DirectMessage
	err := q.Order("created_at DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteByConversation removes every message of a conversation within a
// transaction
func (r *MessageRepo) DeleteByConversation(ctx context.Context, tx *gorm.DB, conversationId string) error {
	return tx.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Delete(&entity.DirectMessage{}).Error
}

// CountByConversation counts messages in a conversation
func (r *MessageRepo) CountByConversation(ctx context.Context, conversationId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DirectMessage{}).
		Where("conversation_id = ?", conversationId).
		Count(&count).Error
	return count, err
}
