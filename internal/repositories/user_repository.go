package repositories

import (
	"errors"
	"strings"
	"time"

	"castboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrUserAlreadyVerified = errors.New("user already verified")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	ExistsByPhone(db *gorm.DB, phone string, excludeID uint) (bool, error)
	ExistsByUsername(db *gorm.DB, username string, excludeID uint) (bool, error)
	Create(db *gorm.DB, user *models.User) error
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error

	// OTP
	FindByOTP(db *gorm.DB, code string) ([]models.User, error)
	FindByEmailAndOTP(db *gorm.DB, email, code string) (*models.User, error)
	SetOTP(db *gorm.DB, id uint, code string, expiresAt time.Time) error
	ClearOTP(db *gorm.DB, id uint) error
	MarkVerified(db *gorm.DB, id uint) error

	UpdatePassword(db *gorm.DB, id uint, passwordHash string) error
	TouchLastLogin(db *gorm.DB, id uint, at time.Time) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail ищет без учета регистра
func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByPhone(db *gorm.DB, phone string, excludeID uint) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("phone = ? AND user_id <> ?", phone, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByUsername(db *gorm.DB, username string, excludeID uint) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("username = ? AND user_id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("user_id = ?", id).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindByOTP возвращает всех пользователей с этим кодом. Срок проверяет сервис.
func (r *userRepository) FindByOTP(db *gorm.DB, code string) ([]models.User, error) {
	var users []models.User
	err := db.Where("otp = ?", code).Find(&users).Error
	return users, err
}

func (r *userRepository) FindByEmailAndOTP(db *gorm.DB, email, code string) (*models.User, error) {
	var user models.User
	err := db.Where("LOWER(email) = ? AND otp = ?", strings.ToLower(strings.TrimSpace(email)), code).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetOTP перезаписывает код и срок (предыдущий код перестает действовать)
func (r *userRepository) SetOTP(db *gorm.DB, id uint, code string, expiresAt time.Time) error {
	return r.UpdateFields(db, id, map[string]interface{}{
		"otp":            code,
		"otp_expires_at": expiresAt,
	})
}

func (r *userRepository) ClearOTP(db *gorm.DB, id uint) error {
	return r.UpdateFields(db, id, map[string]interface{}{
		"otp":            nil,
		"otp_expires_at": nil,
	})
}

// MarkVerified одним UPDATE выставляет is_verified и очищает оба поля OTP.
// Условие is_verified = false делает переход однократным.
func (r *userRepository) MarkVerified(db *gorm.DB, id uint) error {
	result := db.Model(&models.User{}).
		Where("user_id = ? AND is_verified = ?", id, false).
		Updates(map[string]interface{}{
			"is_verified":    true,
			"otp":            nil,
			"otp_expires_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserAlreadyVerified
	}
	return nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, id uint, passwordHash string) error {
	return r.UpdateFields(db, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *userRepository) TouchLastLogin(db *gorm.DB, id uint, at time.Time) error {
	return r.UpdateFields(db, id, map[string]interface{}{"last_login": at})
}
