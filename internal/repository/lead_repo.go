package repository

import (
	"context"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
)

// LeadRepo is the repository for contact-form leads
type LeadRepo struct {
	db *gorm.DB
}

// NewLeadRepo creates a new LeadRepo
func NewLeadRepo(db *gorm.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// Create stores a lead
func (r *LeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// List returns leads, newest first
func (r *LeadRepo) List(ctx context.Context, limit int) ([]*entity.Lead, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var leads []*entity.Lead
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
