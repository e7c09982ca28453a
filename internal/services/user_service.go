package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"castboard_backend/internal/imageprocessor"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/services/dto"
	"castboard_backend/internal/storage"
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserProfile, error)
	UpdateMe(ctx context.Context, db *gorm.DB, userID uint, req *dto.UpdateProfileRequest) (*dto.UserProfile, error)
	UploadProfilePic(ctx context.Context, db *gorm.DB, userID uint, file *multipart.FileHeader) (*dto.UserProfile, error)
	BuildProfile(ctx context.Context, user *models.User) *dto.UserProfile
}

type userService struct {
	userRepo repositories.UserRepository
	storage  storage.Storage
	images   *imageprocessor.Processor
}

func NewUserService(userRepo repositories.UserRepository, store storage.Storage, images *imageprocessor.Processor) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  store,
		images:   images,
	}
}

func (s *userService) GetMe(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserProfile, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return s.BuildProfile(ctx, user), nil
}

func (s *userService) UpdateMe(ctx context.Context, db *gorm.DB, userID uint, req *dto.UpdateProfileRequest) (*dto.UserProfile, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByID(tx, userID); err != nil {
		return nil, handleUserError(err)
	}

	fields := make(map[string]interface{})
	fieldErrors := make(map[string]string)

	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			fields["phone"] = nil
		} else {
			exists, err := s.userRepo.ExistsByPhone(tx, phone, userID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if exists {
				fieldErrors["phone"] = "Phone already registered."
			}
			fields["phone"] = phone
		}
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			fields["username"] = nil
		} else {
			exists, err := s.userRepo.ExistsByUsername(tx, username, userID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if exists {
				fieldErrors["username"] = "Username already taken."
			}
			fields["username"] = username
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperrors.ValidationError(fieldErrors)
	}

	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	setString("full_name", req.FullName)
	setString("bio", req.Bio)
	setString("company", req.Company)
	setString("website", req.Website)
	setString("country", req.Country)
	setString("city", req.City)

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(tx, userID, fields); err != nil {
			return nil, handleUserError(err)
		}
	}

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.BuildProfile(ctx, user), nil
}

func (s *userService) UploadProfilePic(ctx context.Context, db *gorm.DB, userID uint, file *multipart.FileHeader) (*dto.UserProfile, error) {
	data, info, err := readImage(file, s.images)
	if err != nil {
		return nil, err
	}

	stored, err := saveImage(ctx, s.storage, s.images, fmt.Sprintf("profile_pics/%d", userID), data, info)
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

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	oldKey := user.ProfilePic

	if err := s.userRepo.UpdateFields(tx, userID, map[string]interface{}{"profile_pic": stored.Key}); err != nil {
		return nil, handleUserError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	committed = true

	// Миниатюра аватара не хранится в базе
	removeObjects(ctx, s.storage, stored.ThumbnailKey, oldKey)

	user.ProfilePic = stored.Key
	logger.CtxInfo(ctx, "profile picture updated", "user_id", userID, "key", stored.Key)
	return s.BuildProfile(ctx, user), nil
}

func (s *userService) BuildProfile(ctx context.Context, user *models.User) *dto.UserProfile {
	return &dto.UserProfile{
		UserID:        user.ID,
		Email:         user.Email,
		Phone:         user.Phone,
		Username:      user.Username,
		FullName:      user.FullName,
		Role:          string(user.Role),
		Bio:           user.Bio,
		Company:       user.Company,
		Website:       user.Website,
		Country:       user.Country,
		City:          user.City,
		ProfilePicURL: objectURL(ctx, s.storage, user.ProfilePic),
		IsVerified:    user.IsVerified,
		IsActive:      user.IsActive,
		IsStaff:       user.IsStaff,
		IsSuperuser:   user.IsSuperuser,
		IsSubscribed:  user.IsSubscribed,
		AuthProvider:  string(user.AuthProvider),
		DateJoined:    user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
		LastLogin:     user.LastLogin,
	}
}

func toUserSummary(user *models.User) dto.UserSummary {
	return dto.UserSummary{
		UserID:     user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       string(user.Role),
		IsVerified: user.IsVerified,
	}
}
