package services

import (
	"context"
	"strings"
	"time"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/services/dto"
	"castboard_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TalentService interface {
	CreateTalent(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateTalentRequest) (*dto.TalentResponse, error)
	GetTalent(ctx context.Context, db *gorm.DB, talentID uint) (*dto.TalentResponse, error)
	ListTalents(ctx context.Context, db *gorm.DB, query *dto.TalentListQuery, page, pageSize int) (*dto.ListResponse[dto.TalentResponse], error)
	UpdateTalent(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID uint, req *dto.UpdateTalentRequest) (*dto.TalentResponse, error)
	DeleteTalent(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID uint) error
}

type talentService struct {
	talentRepo   repositories.TalentRepository
	imageRepo    repositories.TalentImageRepository
	imageService TalentImageService
}

func NewTalentService(
	talentRepo repositories.TalentRepository,
	imageRepo repositories.TalentImageRepository,
	imageService TalentImageService,
) TalentService {
	return &talentService{
		talentRepo:   talentRepo,
		imageRepo:    imageRepo,
		imageService: imageService,
	}
}

func (s *talentService) CreateTalent(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateTalentRequest) (*dto.TalentResponse, error) {
	if !actor.IsAgent() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	dob, err := parseDate("dob", req.DOB)
	if err != nil {
		return nil, err
	}
	availableDate, err := parseDate("available_date", req.AvailableDate)
	if err != nil {
		return nil, err
	}

	talent := &models.Talent{
		AgentID:       actor.UserID,
		Name:          strings.TrimSpace(req.Name),
		Role:          req.Role,
		DOB:           dob,
		Gender:        models.Gender(req.Gender),
		Height:        req.Height,
		Bust:          req.Bust,
		Waist:         req.Waist,
		Hips:          req.Hips,
		ShoeSize:      req.ShoeSize,
		EyeColor:      req.EyeColor,
		HairType:      req.HairType,
		HairColor:     req.HairColor,
		SkinColor:     req.SkinColor,
		Location:      req.Location,
		Continent:     req.Continent,
		Country:       req.Country,
		IsAvailable:   true,
		AvailableDate: availableDate,
	}
	if req.IsAvailable != nil {
		talent.IsAvailable = *req.IsAvailable
	}

	if err := s.talentRepo.Create(db, talent); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "talent created", "talent_id", talent.ID, "agent_id", talent.AgentID)
	return s.toTalentResponse(ctx, talent), nil
}

func (s *talentService) GetTalent(ctx context.Context, db *gorm.DB, talentID uint) (*dto.TalentResponse, error) {
	talent, err := s.talentRepo.FindByIDWithImages(db, talentID)
	if err != nil {
		return nil, handleTalentError(err)
	}
	return s.toTalentResponse(ctx, talent), nil
}

func (s *talentService) ListTalents(ctx context.Context, db *gorm.DB, query *dto.TalentListQuery, page, pageSize int) (*dto.ListResponse[dto.TalentResponse], error) {
	filter := repositories.TalentFilter{
		AgentID:     query.AgentID,
		IsAvailable: query.IsAvailable,
		Gender:      models.Gender(query.Gender),
		Country:     query.Country,
		Search:      query.Search,
		Pagination:  repositories.Pagination{Page: page, PageSize: pageSize},
	}

	talents, total, err := s.talentRepo.List(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.TalentResponse, 0, len(talents))
	for i := range talents {
		items = append(items, *s.toTalentResponse(ctx, &talents[i]))
	}
	return dto.NewListResponse(items, total, page, pageSize), nil
}

func (s *talentService) UpdateTalent(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID uint, req *dto.UpdateTalentRequest) (*dto.TalentResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	talent, err := s.talentRepo.FindByIDWithImages(tx, talentID)
	if err != nil {
		return nil, handleTalentError(err)
	}
	if !actor.IsAgent() || !actor.CanModify(talent.AgentID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := applyTalentUpdate(talent, req); err != nil {
		return nil, err
	}

	if err := s.talentRepo.Update(tx, talent); err != nil {
		return nil, handleTalentError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "talent updated", "talent_id", talent.ID)
	return s.toTalentResponse(ctx, talent), nil
}

// DeleteTalent удаляет талант вместе с изображениями; файлы удаляются
// после коммита.
func (s *talentService) DeleteTalent(ctx context.Context, db *gorm.DB, actor auth.Actor, talentID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	talent, err := s.talentRepo.FindByIDWithImages(tx, talentID)
	if err != nil {
		return handleTalentError(err)
	}
	if !actor.IsAgent() || !actor.CanModify(talent.AgentID) {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.imageRepo.DeleteByTalent(tx, talentID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.talentRepo.Delete(tx, talentID); err != nil {
		return handleTalentError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.imageService.RemoveFiles(ctx, talent.Images)
	logger.CtxInfo(ctx, "talent deleted", "talent_id", talentID, "images", len(talent.Images))
	return nil
}

func applyTalentUpdate(talent *models.Talent, req *dto.UpdateTalentRequest) error {
	if req.Name != nil {
		talent.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		talent.Role = *req.Role
	}
	if req.DOB != nil {
		dob, err := parseDate("dob", *req.DOB)
		if err != nil {
			return err
		}
		talent.DOB = dob
	}
	if req.Gender != nil {
		talent.Gender = models.Gender(*req.Gender)
	}
	if req.Height != nil {
		talent.Height = req.Height
	}
	if req.Bust != nil {
		talent.Bust = req.Bust
	}
	if req.Waist != nil {
		talent.Waist = req.Waist
	}
	if req.Hips != nil {
		talent.Hips = req.Hips
	}
	if req.ShoeSize != nil {
		talent.ShoeSize = req.ShoeSize
	}
	if req.EyeColor != nil {
		talent.EyeColor = *req.EyeColor
	}
	if req.HairType != nil {
		talent.HairType = *req.HairType
	}
	if req.HairColor != nil {
		talent.HairColor = *req.HairColor
	}
	if req.SkinColor != nil {
		talent.SkinColor = *req.SkinColor
	}
	if req.Location != nil {
		talent.Location = *req.Location
	}
	if req.Continent != nil {
		talent.Continent = *req.Continent
	}
	if req.Country != nil {
		talent.Country = *req.Country
	}
	if req.IsAvailable != nil {
		talent.IsAvailable = *req.IsAvailable
	}
	if req.AvailableDate != nil {
		date, err := parseDate("available_date", *req.AvailableDate)
		if err != nil {
			return err
		}
		talent.AvailableDate = date
	}
	return nil
}

// parseDate разбирает YYYY-MM-DD. Пустая строка очищает дату.
func parseDate(field, value string) (*datatypes.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, apperrors.FieldError(field, "Date has wrong format. Use YYYY-MM-DD.")
	}
	d := datatypes.Date(t)
	return &d, nil
}

func formatDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format(time.DateOnly)
	return &s
}

func (s *talentService) toTalentResponse(ctx context.Context, talent *models.Talent) *dto.TalentResponse {
	return &dto.TalentResponse{
		TalentID:      talent.ID,
		AddedByAgent:  talent.AgentID,
		Name:          talent.Name,
		Role:          talent.Role,
		DOB:           formatDate(talent.DOB),
		Gender:        string(talent.Gender),
		Height:        talent.Height,
		Bust:          talent.Bust,
		Waist:         talent.Waist,
		Hips:          talent.Hips,
		ShoeSize:      talent.ShoeSize,
		EyeColor:      talent.EyeColor,
		HairType:      talent.HairType,
		HairColor:     talent.HairColor,
		SkinColor:     talent.SkinColor,
		Location:      talent.Location,
		Continent:     talent.Continent,
		Country:       talent.Country,
		IsAvailable:   talent.IsAvailable,
		AvailableDate: formatDate(talent.AvailableDate),
		Images:        s.imageService.ToResponses(ctx, talent.Images),
		CreatedAt:     talent.CreatedAt,
		UpdatedAt:     talent.UpdatedAt,
	}
}
