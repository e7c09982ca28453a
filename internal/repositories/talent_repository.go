package repositories

import (
	"errors"

	"castboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTalentNotFound = errors.New("talent not found")

// TalentFilter - фильтры каталога талантов
type TalentFilter struct {
	AgentID     uint
	IsAvailable *bool
	Gender      models.Gender
	Country     string
	Search      string
	Pagination
}

type TalentRepository interface {
	Create(db *gorm.DB, talent *models.Talent) error
	FindByID(db *gorm.DB, id uint) (*models.Talent, error)
	FindByIDWithImages(db *gorm.DB, id uint) (*models.Talent, error)
	List(db *gorm.DB, filter TalentFilter) ([]models.Talent, int64, error)
	Update(db *gorm.DB, talent *models.Talent) error
	Delete(db *gorm.DB, id uint) error
}

type talentRepository struct{}

func NewTalentRepository() TalentRepository {
	return &talentRepository{}
}

func (r *talentRepository) Create(db *gorm.DB, talent *models.Talent) error {
	return db.Omit("Images", "Agent").Create(talent).Error
}

func (r *talentRepository) FindByID(db *gorm.DB, id uint) (*models.Talent, error) {
	var talent models.Talent
	if err := db.First(&talent, "talent_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentNotFound
		}
		return nil, err
	}
	return &talent, nil
}

// FindByIDWithImages подгружает изображения в порядке показа
func (r *talentRepository) FindByIDWithImages(db *gorm.DB, id uint) (*models.Talent, error) {
	var talent models.Talent
	err := db.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return orderImages(tx)
	}).First(&talent, "talent_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentNotFound
		}
		return nil, err
	}
	return &talent, nil
}

func (r *talentRepository) List(db *gorm.DB, filter TalentFilter) ([]models.Talent, int64, error) {
	query := db.Model(&models.Talent{})

	if filter.AgentID != 0 {
		query = query.Where("added_by_agent = ?", filter.AgentID)
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Country != "" {
		query = query.Where("LOWER(country) = LOWER(?)", filter.Country)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", containsPattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var talents []models.Talent
	err := query.
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return orderImages(tx)
		}).
		Order("created_at DESC").Order("talent_id DESC").
		Offset(filter.offset()).Limit(filter.limit()).
		Find(&talents).Error
	return talents, total, err
}

func (r *talentRepository) Update(db *gorm.DB, talent *models.Talent) error {
	return db.Omit("Images", "Agent").Save(talent).Error
}

func (r *talentRepository) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Talent{}, "talent_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentNotFound
	}
	return nil
}
