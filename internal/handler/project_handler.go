package handler

import (
	"context"
	"io"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/middleware"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/service"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// ProjectHandler handles roofing job requests
type ProjectHandler struct {
	projectService *service.ProjectService
	mediaService   *service.MediaService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *service.ProjectService, mediaService *service.MediaService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, mediaService: mediaService}
}

// ListProjects handles project listing
func (h *ProjectHandler) ListProjects(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	projects, err := h.projectService.ListProjects(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, projects)
}

// GetProject handles get project by id
func (h *ProjectHandler) GetProject(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	projectId := c.Query("project_id")
	if projectId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	project, err := h.projectService.GetProject(ctx, projectId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, project)
}

// CreateProject handles project creation
func (h *ProjectHandler) CreateProject(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateProjectRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	project, err := h.projectService.CreateProject(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, project)
}

// UpdateProject handles project updates
func (h *ProjectHandler) UpdateProject(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	projectId := c.Query("project_id")
	if projectId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.UpdateProjectRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	project, err := h.projectService.UpdateProject(ctx, projectId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, project)
}

// ListPhotos handles project gallery listing
func (h *ProjectHandler) ListPhotos(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	projectId := c.Query("project_id")
	if projectId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	photos, err := h.mediaService.ListPhotos(ctx, projectId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, photos)
}

// UploadPhoto handles multipart media upload to a project gallery
func (h *ProjectHandler) UploadPhoto(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	projectId := c.Query("project_id")
	if projectId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrUploadFailed)
		return
	}

	caption := string(c.FormValue("caption"))
	contentType := fileHeader.Header.Get("Content-Type")

	photo, err := h.mediaService.UploadPhoto(ctx, projectId, userId, caption, contentType, data)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, photo)
}

// DeletePhoto handles media deletion
func (h *ProjectHandler) DeletePhoto(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	photoId := c.Query("photo_id")
	if photoId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.mediaService.DeletePhoto(ctx, photoId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
