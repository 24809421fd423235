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

// ProjectService handles roofing job business logic
type ProjectService struct {
	projectRepo *repository.ProjectRepo
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo *repository.ProjectRepo) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// ListProjects returns all projects, newest first
func (s *ProjectService) ListProjects(ctx context.Context) ([]*entity.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		log.CtxError(ctx, "list projects failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return projects, nil
}

// GetProject gets a project by id
func (s *ProjectService) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	project, err := s.projectRepo.GetById(ctx, id)
	if err != nil {
		log.CtxError(ctx, "get project failed: id=%s, error=%v", id, err)
		return nil, errcode.ErrInternalServer
	}
	if project == nil {
		return nil, errcode.ErrProjectNotFound
	}
	return project, nil
}

// CreateProjectRequest represents a new job
type CreateProjectRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Status  string `json:"status,omitempty"`
}

// CreateProject creates a roofing job. Its project channel exists
// implicitly; the first message posted to it makes it visible in chat.
func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*entity.Project, error) {
	if req.Name == "" {
		return nil, errcode.ErrInvalidParam
	}
	status := req.Status
	if status == "" {
		status = entity.ProjectStatusLead
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrInternalServer
	}
	project := &entity.Project{
		Id:      id,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Status:  status,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		log.CtxError(ctx, "create project failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "project created: id=%s, name=%s", project.Id, project.Name)
	return project, nil
}

// UpdateProjectRequest represents job field updates
type UpdateProjectRequest struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Status  string `json:"status,omitempty"`
}

// UpdateProject updates job fields
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	if _, err := s.GetProject(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if len(updates) > 0 {
		if err := s.projectRepo.Update(ctx, id, updates); err != nil {
			log.CtxError(ctx, "update project failed: id=%s, error=%v", id, err)
			return nil, errcode.ErrInternalServer
		}
	}

	return s.GetProject(ctx, id)
}

// ChannelId returns the chat channel id for a project
func (s *ProjectService) ChannelId(projectId string) string {
	return entity.SlugifyChannel(constant.ProjectChannelPrefix + projectId)
}
