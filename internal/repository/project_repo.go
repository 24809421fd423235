package repository

import (
	"context"
	"errors"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"gorm.io/gorm"
)

// ProjectRepo is the repository for projects and their photos
type ProjectRepo struct {
	db *gorm.DB
}

// NewProjectRepo creates a new ProjectRepo
func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// List returns all projects, newest first
func (r *ProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	var projects []*entity.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetById gets a project, nil when missing
func (r *ProjectRepo) GetById(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// GetByIds batch-fetches projects keyed by id. Used by the conversation
// fetcher to resolve project channels in one round-trip.
func (r *ProjectRepo) GetByIds(ctx context.Context, ids []string) (map[string]*entity.Project, error) {
	if len(ids) == 0 {
		return map[string]*entity.Project{}, nil
	}
	var projects []*entity.Project
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&projects).Error
	if err != nil {
		return nil, err
	}
	byId := make(map[string]*entity.Project, len(projects))
	for _, p := range projects {
		byId[p.Id] = p
	}
	return byId, nil
}

// Create creates a project
func (r *ProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates project fields
func (r *ProjectRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = entity.NowUnixMilli()
	return r.db.WithContext(ctx).
		Model(&entity.Project{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListPhotos returns a project's photos, newest first
func (r *ProjectRepo) ListPhotos(ctx context.Context, projectId string) ([]*entity.ProjectPhoto, error) {
	var photos []*entity.ProjectPhoto
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// CreatePhoto records an uploaded photo
func (r *ProjectRepo) CreatePhoto(ctx context.Context, photo *entity.ProjectPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

// GetPhoto gets a photo, nil when missing
func (r *ProjectRepo) GetPhoto(ctx context.Context, id string) (*entity.ProjectPhoto, error) {
	var photo entity.ProjectPhoto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

// DeletePhoto removes a photo row
func (r *ProjectRepo) DeletePhoto(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.ProjectPhoto{}).Error
}
