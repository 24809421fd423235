package repository

import (
	"context"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
)

// ChannelRepo is the repository for channel messages. There is no channel
// table; channels exist as distinct names on message rows plus the
// configured defaults.
type ChannelRepo struct {
	db *gorm.DB
}

// NewChannelRepo creates a new ChannelRepo
func NewChannelRepo(db *gorm.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// Create inserts a channel message
func (r *ChannelRepo) Create(ctx context.Context, msg *entity.ChannelMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListAll returns every channel message ordered by time. The aggregation
// groups by channel in memory; message volume here is team chatter, not
// firehose scale.
func (r *ChannelRepo) ListAll(ctx context.Context) ([]*entity.ChannelMessage, error) {
	var msgs []*entity.ChannelMessage
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByChannel returns a page of messages for one channel, newest first
func (r *ChannelRepo) ListByChannel(ctx context.Context, channel string, limit int, beforeMs int64) ([]*entity.ChannelMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Where("channel = ?", channel)
	if beforeMs > 0 {
		q = q.Where("created_at < ?", beforeMs)
	}
	var msgs []*entity.ChannelMessage
	err := q.Order("created_at DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
