package repository

import (
	"context"
	"errors"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
)

// UserRepo is the repository for team roster operations
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new UserRepo
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create creates a new team member
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetById gets a team member by Id
func (r *UserRepo) GetById(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIds gets team members by Ids
func (r *UserRepo) GetByIds(ctx context.Context, ids []string) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// List returns the full roster, ordered by name
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates team member info
func (r *UserRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(updates).Error
}

// Exists checks if a team member exists
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Roster loads all team members keyed by id. The conversation fetcher
// resolves counterpart names and avatars from this map.
func (r *UserRepo) Roster(ctx context.Context) (map[string]*entity.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	roster := make(map[string]*entity.User, len(users))
	for _, u := range users {
		roster[u.Id] = u
	}
	return roster, nil
}

// GetByIdOrNil gets a team member, mapping not-found to nil
func (r *UserRepo) GetByIdOrNil(ctx context.Context, id string) (*entity.User, error) {
	user, err := r.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
