package repositories

import (
	"errors"

	"castboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTalentImageNotFound = errors.New("talent image not found")
	// ErrPrimaryImageConflict - сработал частичный уникальный индекс по is_primary
	ErrPrimaryImageConflict = errors.New("talent already has a primary image")
)

type TalentImageRepository interface {
	Create(db *gorm.DB, image *models.TalentImage) error
	FindByID(db *gorm.DB, talentID, imageID uint) (*models.TalentImage, error)
	ListByTalent(db *gorm.DB, talentID uint) ([]models.TalentImage, error)
	CountByTalent(db *gorm.DB, talentID uint) (int64, error)
	FirstInOrder(db *gorm.DB, talentID uint) (*models.TalentImage, error)

	// DemoteOthers снимает is_primary со всех изображений таланта, кроме exceptID
	// (0 - со всех).
	DemoteOthers(db *gorm.DB, talentID, exceptID uint) error
	// MarkPrimary обновляет только поле is_primary
	MarkPrimary(db *gorm.DB, imageID uint) error
	UpdateSortOrder(db *gorm.DB, imageID uint, sortOrder int) error
	Delete(db *gorm.DB, imageID uint) error
	DeleteByTalent(db *gorm.DB, talentID uint) error
}

type talentImageRepository struct{}

func NewTalentImageRepository() TalentImageRepository {
	return &talentImageRepository{}
}

// orderImages - порядок показа: основное, затем sort_order, затем новые
func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC").
		Order("sort_order ASC").
		Order("created_at DESC").
		Order("image_id DESC")
}

func (r *talentImageRepository) Create(db *gorm.DB, image *models.TalentImage) error {
	if err := db.Create(image).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrPrimaryImageConflict
		}
		return err
	}
	return nil
}

func (r *talentImageRepository) FindByID(db *gorm.DB, talentID, imageID uint) (*models.TalentImage, error) {
	var image models.TalentImage
	err := db.Where("image_id = ? AND talent_id = ?", imageID, talentID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *talentImageRepository) ListByTalent(db *gorm.DB, talentID uint) ([]models.TalentImage, error) {
	var images []models.TalentImage
	err := orderImages(db.Where("talent_id = ?", talentID)).Find(&images).Error
	return images, err
}

func (r *talentImageRepository) CountByTalent(db *gorm.DB, talentID uint) (int64, error) {
	var count int64
	err := db.Model(&models.TalentImage{}).Where("talent_id = ?", talentID).Count(&count).Error
	return count, err
}

func (r *talentImageRepository) FirstInOrder(db *gorm.DB, talentID uint) (*models.TalentImage, error) {
	var image models.TalentImage
	err := orderImages(db.Where("talent_id = ?", talentID)).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *talentImageRepository) DemoteOthers(db *gorm.DB, talentID, exceptID uint) error {
	return db.Model(&models.TalentImage{}).
		Where("talent_id = ? AND is_primary = ? AND image_id <> ?", talentID, true, exceptID).
		Update("is_primary", false).Error
}

func (r *talentImageRepository) MarkPrimary(db *gorm.DB, imageID uint) error {
	result := db.Model(&models.TalentImage{}).
		Where("image_id = ?", imageID).
		Update("is_primary", true)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrPrimaryImageConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentImageNotFound
	}
	return nil
}

func (r *talentImageRepository) UpdateSortOrder(db *gorm.DB, imageID uint, sortOrder int) error {
	result := db.Model(&models.TalentImage{}).
		Where("image_id = ?", imageID).
		Update("sort_order", sortOrder)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentImageNotFound
	}
	return nil
}

func (r *talentImageRepository) Delete(db *gorm.DB, imageID uint) error {
	result := db.Delete(&models.TalentImage{}, "image_id = ?", imageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentImageNotFound
	}
	return nil
}

func (r *talentImageRepository) DeleteByTalent(db *gorm.DB, talentID uint) error {
	return db.Where("talent_id = ?", talentID).Delete(&models.TalentImage{}).Error
}
