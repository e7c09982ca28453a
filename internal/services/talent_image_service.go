package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/imageprocessor"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/services/dto"
	"castboard_backend/internal/storage"
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TalentImageService поддерживает инвариант: пока у таланта есть
// изображения, ровно одно из них основное.
type TalentImageService interface {
	AddImage(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID uint, file *multipart.FileHeader, req *dto.AddTalentImageRequest) (*dto.TalentImageResponse, error)
	ListImages(ctx context.Context, db *gorm.DB, talentID uint) ([]dto.TalentImageResponse, error)
	SetPrimary(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID, imageID uint) (*dto.TalentImageResponse, error)
	UpdateSortOrder(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID, imageID uint, sortOrder int) (*dto.TalentImageResponse, error)
	DeleteImage(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID, imageID uint) error

	ToResponses(ctx context.Context, images []models.TalentImage) []dto.TalentImageResponse
	RemoveFiles(ctx context.Context, images []models.TalentImage)
}

type talentImageService struct {
	talentRepo repositories.TalentRepository
	imageRepo  repositories.TalentImageRepository
	storage    storage.Storage
	images     *imageprocessor.Processor
}

func NewTalentImageService(
	talentRepo repositories.TalentRepository,
	imageRepo repositories.TalentImageRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
) TalentImageService {
	return &talentImageService{
		talentRepo: talentRepo,
		imageRepo:  imageRepo,
		storage:    store,
		images:     images,
	}
}

// authorizeTalent - изменять изображения может агент-владелец или суперпользователь.
func (s *talentImageService) authorizeTalent(db *gorm.DB, actor auth.Actor, talentID uint) (*models.Talent, error) {
	talent, err := s.talentRepo.FindByID(db, talentID)
	if err != nil {
		return nil, handleTalentError(err)
	}
	if !actor.IsAgent() || !actor.CanModify(talent.AgentID) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return talent, nil
}

// AddImage проверяет файл до сохранения, сохраняет его и в одной транзакции
// вставляет запись. Первое изображение всегда становится основным.
func (s *talentImageService) AddImage(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID uint, file *multipart.FileHeader, req *dto.AddTalentImageRequest) (*dto.TalentImageResponse, error) {
	if _, err := s.authorizeTalent(db, actor, talentID); err != nil {
		return nil, err
	}

	data, info, err := readImage(file, s.images)
	if err != nil {
		return nil, err
	}

	stored, err := saveImage(ctx, s.storage, s.images, fmt.Sprintf("talent_images/%d", talentID), data, info)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			removeObjects(ctx, s.storage, stored.Key, stored.ThumbnailKey)
		}
	}()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	count, err := s.imageRepo.CountByTalent(tx, talentID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	image := &models.TalentImage{
		TalentID:      talentID,
		Image:         stored.Key,
		ThumbnailPath: stored.ThumbnailKey,
		ContentType:   info.ContentType,
		Size:          info.Size,
		IsPrimary:     req.IsPrimary || count == 0,
		SortOrder:     req.SortOrder,
	}

	// Сначала снимаем флаг с остальных, затем вставляем новую запись
	if image.IsPrimary {
		if err := s.imageRepo.DemoteOthers(tx, talentID, 0); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	if err := s.imageRepo.Create(tx, image); err != nil {
		return nil, handleTalentError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	committed = true

	logger.CtxInfo(ctx, "talent image added",
		"talent_id", talentID,
		"image_id", image.ID,
		"is_primary", image.IsPrimary,
	)
	resp := s.toResponse(ctx, image)
	return &resp, nil
}

func (s *talentImageService) ListImages(ctx context.Context, db *gorm.DB, talentID uint) ([]dto.TalentImageResponse, error) {
	if _, err := s.talentRepo.FindByID(db, talentID); err != nil {
		return nil, handleTalentError(err)
	}
	images, err := s.imageRepo.ListByTalent(db, talentID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.ToResponses(ctx, images), nil
}

// SetPrimary снимает флаг с остальных изображений и обновляет только is_primary.
func (s *talentImageService) SetPrimary(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID, imageID uint) (*dto.TalentImageResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.authorizeTalent(tx, actor, talentID); err != nil {
		return nil, err
	}
	image, err := s.imageRepo.FindByID(tx, talentID, imageID)
	if err != nil {
		return nil, handleTalentError(err)
	}

	if !image.IsPrimary {
		if err := s.imageRepo.DemoteOthers(tx, talentID, imageID); err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.imageRepo.MarkPrimary(tx, imageID); err != nil {
			return nil, handleTalentError(err)
		}
		image.IsPrimary = true
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := s.toResponse(ctx, image)
	return &resp, nil
}

func (s *talentImageService) UpdateSortOrder(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID, imageID uint, sortOrder int) (*dto.TalentImageResponse, error) {
	if sortOrder < 0 {
		return nil, apperrors.FieldError("sort_order", "Ensure this value is greater than or equal to 0.")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.authorizeTalent(tx, actor, talentID); err != nil {
		return nil, err
	}
	image, err := s.imageRepo.FindByID(tx, talentID, imageID)
	if err != nil {
		return nil, handleTalentError(err)
	}
	if err := s.imageRepo.UpdateSortOrder(tx, imageID, sortOrder); err != nil {
		return nil, handleTalentError(err)
	}
	image.SortOrder = sortOrder

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := s.toResponse(ctx, image)
	return &resp, nil
}

// DeleteImage удаляет изображение. Если оно было основным, основным
// становится следующее в порядке показа.
func (s *talentImageService) DeleteImage(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID, imageID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.authorizeTalent(tx, actor, talentID); err != nil {
		return err
	}
	image, err := s.imageRepo.FindByID(tx, talentID, imageID)
	if err != nil {
		return handleTalentError(err)
	}
	if err := s.imageRepo.Delete(tx, imageID); err != nil {
		return handleTalentError(err)
	}

	if image.IsPrimary {
		next, err := s.imageRepo.FirstInOrder(tx, talentID)
		switch {
		case errors.Is(err, repositories.ErrTalentImageNotFound):
			// изображений не осталось
		case err != nil:
			return apperrors.InternalError(err)
		default:
			if err := s.imageRepo.MarkPrimary(tx, next.ID); err != nil {
				return handleTalentError(err)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	removeObjects(ctx, s.storage, image.Image, image.ThumbnailPath)
	logger.CtxInfo(ctx, "talent image deleted", "talent_id", talentID, "image_id", imageID)
	return nil
}

func (s *talentImageService) ToResponses(ctx context.Context, images []models.TalentImage) []dto.TalentImageResponse {
	out := make([]dto.TalentImageResponse, 0, len(images))
	for i := range images {
		out = append(out, s.toResponse(ctx, &images[i]))
	}
	return out
}

func (s *talentImageService) RemoveFiles(ctx context.Context, images []models.TalentImage) {
	for i := range images {
		removeObjects(ctx, s.storage, images[i].Image, images[i].ThumbnailPath)
	}
}

func (s *talentImageService) toResponse(ctx context.Context, image *models.TalentImage) dto.TalentImageResponse {
	resp := dto.TalentImageResponse{
		ImageID:     image.ID,
		TalentID:    image.TalentID,
		ContentType: image.ContentType,
		Size:        image.Size,
		IsPrimary:   image.IsPrimary,
		SortOrder:   image.SortOrder,
		CreatedAt:   image.CreatedAt,
	}
	if url := objectURL(ctx, s.storage, image.Image); url != nil {
		resp.URL = *url
	}
	if url := objectURL(ctx, s.storage, image.ThumbnailPath); url != nil {
		resp.ThumbnailURL = *url
	}
	return resp
}
