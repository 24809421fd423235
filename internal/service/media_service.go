package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/storage"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

// MediaService handles job-site photo and video documentation: uploads
// go to object storage, metadata rows keep the gallery queryable.
type MediaService struct {
	projectRepo   *repository.ProjectRepo
	store         *storage.SupabaseStorage
	deleteTimeout time.Duration
}

// NewMediaService creates a new MediaService
func NewMediaService(projectRepo *repository.ProjectRepo, store *storage.SupabaseStorage, deleteTimeout time.Duration) *MediaService {
	if deleteTimeout <= 0 {
		deleteTimeout = 15 * time.Second
	}
	return &MediaService{
		projectRepo:   projectRepo,
		store:         store,
		deleteTimeout: deleteTimeout,
	}
}

// ListPhotos returns a project's documentation media, newest first
func (s *MediaService) ListPhotos(ctx context.Context, projectId string) ([]*entity.ProjectPhoto, error) {
	project, err := s.projectRepo.GetById(ctx, projectId)
	if err != nil {
		log.CtxError(ctx, "get project failed: id=%s, error=%v", projectId, err)
		return nil, errcode.ErrInternalServer
	}
	if project == nil {
		return nil, errcode.ErrProjectNotFound
	}

	photos, err := s.projectRepo.ListPhotos(ctx, projectId)
	if err != nil {
		log.CtxError(ctx, "list photos failed: project_id=%s, error=%v", projectId, err)
		return nil, errcode.ErrInternalServer
	}
	return photos, nil
}

// UploadPhoto stores the media bytes and records the gallery row
func (s *MediaService) UploadPhoto(ctx context.Context, projectId, uploadedBy, caption, contentType string, data []byte) (*entity.ProjectPhoto, error) {
	project, err := s.projectRepo.GetById(ctx, projectId)
	if err != nil {
		log.CtxError(ctx, "get project failed: id=%s, error=%v", projectId, err)
		return nil, errcode.ErrInternalServer
	}
	if project == nil {
		return nil, errcode.ErrProjectNotFound
	}
	if len(data) == 0 {
		return nil, errcode.ErrInvalidParam
	}

	url, err := s.store.Upload(ctx, data, contentType, extFromContentType(contentType))
	if err != nil {
		log.CtxError(ctx, "upload media failed: project_id=%s, error=%v", projectId, err)
		return nil, errcode.ErrUploadFailed.Wrap(err)
	}

	id, err := idgen.NextID()
	if err != nil {
		return nil, errcode.ErrInternalServer
	}
	photo := &entity.ProjectPhoto{
		Id:         id,
		ProjectId:  projectId,
		URL:        url,
		Caption:    caption,
		MediaType:  mediaTypeFromContentType(contentType),
		UploadedBy: uploadedBy,
	}
	if err := s.projectRepo.CreatePhoto(ctx, photo); err != nil {
		log.CtxError(ctx, "record photo failed: project_id=%s, error=%v", projectId, err)
		return nil, errcode.ErrUploadFailed.Wrap(err)
	}

	log.CtxInfo(ctx, "media uploaded: project_id=%s, photo_id=%s, type=%s", projectId, photo.Id, photo.MediaType)
	return photo, nil
}

// DeletePhoto removes the gallery row and the stored object. The storage
// call runs under a hard deadline so a hung delete surfaces as a timeout
// the client can message, instead of a request that never returns.
func (s *MediaService) DeletePhoto(ctx context.Context, photoId string) error {
	photo, err := s.projectRepo.GetPhoto(ctx, photoId)
	if err != nil {
		log.CtxError(ctx, "get photo failed: id=%s, error=%v", photoId, err)
		return errcode.ErrInternalServer
	}
	if photo == nil {
		return errcode.ErrPhotoNotFound
	}

	if objectName, ok := s.store.ObjectNameFromURL(photo.URL); ok {
		storageCtx, cancel := context.WithTimeout(ctx, s.deleteTimeout)
		defer cancel()
		if err := s.store.Delete(storageCtx, objectName); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.CtxError(ctx, "media delete timed out: photo_id=%s, object=%s", photoId, objectName)
				return errcode.ErrStorageTimeout
			}
			log.CtxError(ctx, "media delete failed: photo_id=%s, object=%s, error=%v", photoId, objectName, err)
			return errcode.ErrDeleteMedia.Wrap(err)
		}
	}

	if err := s.projectRepo.DeletePhoto(ctx, photoId); err != nil {
		log.CtxError(ctx, "delete photo row failed: id=%s, error=%v", photoId, err)
		return errcode.ErrDeleteMedia.Wrap(err)
	}

	log.CtxInfo(ctx, "media deleted: photo_id=%s", photoId)
	return nil
}

func mediaTypeFromContentType(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return "video"
	}
	return "photo"
}

func extFromContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	default:
		return ".jpg"
	}
}
