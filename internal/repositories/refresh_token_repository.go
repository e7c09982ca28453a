package repositories

import (
	"errors"
	"time"

	"castboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrRefreshTokenNotFound возвращается, когда refresh-токен отозван или не выдавался
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// RefreshTokenRepository хранит jti выданных refresh-токенов
type RefreshTokenRepository interface {
	// Create сохраняет jti нового refresh-токена
	Create(db *gorm.DB, token *models.RefreshToken) error

	// FindByTokenID находит запись по jti
	FindByTokenID(db *gorm.DB, tokenID string) (*models.RefreshToken, error)

	// DeleteByTokenID отзывает один токен
	DeleteByTokenID(db *gorm.DB, tokenID string) error

	// DeleteByUserID отзывает все токены пользователя (после смены пароля)
	DeleteByUserID(db *gorm.DB, userID uint) error

	// CleanExpired удаляет истекшие записи
	CleanExpired(db *gorm.DB, now time.Time) (int64, error)
}

type refreshTokenRepository struct{}

// NewRefreshTokenRepository создает новый экземпляр RefreshTokenRepository
func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindByTokenID(db *gorm.DB, tokenID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByTokenID(db *gorm.DB, tokenID string) error {
	result := db.Where("token_id = ?", tokenID).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Возвращаем ошибку, чтобы сервис мог ее обработать
		return ErrRefreshTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) DeleteByUserID(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) CleanExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
