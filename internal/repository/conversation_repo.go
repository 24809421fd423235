package repository

import (
	"context"
	"errors"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepo is the repository for direct conversation rows
type ConversationRepo struct {
	db *gorm.DB
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetForUser gets all direct conversations where the user is either party
func (r *ConversationRepo) GetForUser(ctx context.Context, userId string) ([]*entity.DirectConversation, error) {
	var convs []*entity.DirectConversation
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userId, userId).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// GetById gets a conversation by its stored pair id
func (r *ConversationRepo) GetById(ctx context.Context, id string) (*entity.DirectConversation, error) {
	var conv entity.DirectConversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// Ensure creates the pair row if it does not exist yet and bumps
// updated_at when it does.
func (r *ConversationRepo) Ensure(ctx context.Context, tx *gorm.DB, userA, userB string) (*entity.DirectConversation, error) {
	now := entity.NowUnixMilli()
	conv := &entity.DirectConversation{
		Id:        entity.GenDirectConversationId(userA, userB),
		UserA:     userA,
		UserB:     userB,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"updated_at": now,
		}),
	}).Create(conv).Error
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Touch bumps updated_at, used when a message arrives
func (r *ConversationRepo) Touch(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).
		Model(&entity.DirectConversation{}).
		Where("id = ?", id).
		Update("updated_at", entity.NowUnixMilli()).Error
}

// Delete removes a conversation row. Message rows are deleted separately
// inside the same transaction.
func (r *ConversationRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.DirectConversation{}).Error
}
