package repositories

import (
	"errors"

	"castboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrQueryNotFound   = errors.New("contact query not found")
)

// ContentRepository - синглтон-документы, обращения и лента мыслей
type ContentRepository interface {
	FindByKind(db *gorm.DB, kind models.ContentKind) (*models.Content, error)
	Create(db *gorm.DB, content *models.Content) error
	UpdateDescription(db *gorm.DB, content *models.Content, description string) error

	CreateQuery(db *gorm.DB, query *models.ContactQuery) error
	ListQueries(db *gorm.DB, p Pagination) ([]models.ContactQuery, int64, error)
	FindQueryByID(db *gorm.DB, id uint) (*models.ContactQuery, error)

	CreateThought(db *gorm.DB, thought *models.Thought) error
	ListThoughts(db *gorm.DB, p Pagination) ([]models.Thought, int64, error)
}

type contentRepository struct{}

func NewContentRepository() ContentRepository {
	return &contentRepository{}
}

func (r *contentRepository) FindByKind(db *gorm.DB, kind models.ContentKind) (*models.Content, error) {
	var content models.Content
	if err := db.Where("kind = ?", kind).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) Create(db *gorm.DB, content *models.Content) error {
	return db.Create(content).Error
}

func (r *contentRepository) UpdateDescription(db *gorm.DB, content *models.Content, description string) error {
	return db.Model(content).Update("description", description).Error
}

func (r *contentRepository) CreateQuery(db *gorm.DB, query *models.ContactQuery) error {
	return db.Create(query).Error
}

func (r *contentRepository) ListQueries(db *gorm.DB, p Pagination) ([]models.ContactQuery, int64, error) {
	var total int64
	if err := db.Model(&models.ContactQuery{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var queries []models.ContactQuery
	err := db.Order("created_at DESC").Order("id DESC").
		Offset(p.offset()).Limit(p.limit()).
		Find(&queries).Error
	return queries, total, err
}

func (r *contentRepository) FindQueryByID(db *gorm.DB, id uint) (*models.ContactQuery, error) {
	var query models.ContactQuery
	if err := db.First(&query, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}
	return &query, nil
}

func (r *contentRepository) CreateThought(db *gorm.DB, thought *models.Thought) error {
	return db.Omit("User").Create(thought).Error
}

// ListThoughts - новые первыми, с автором
func (r *contentRepository) ListThoughts(db *gorm.DB, p Pagination) ([]models.Thought, int64, error) {
	var total int64
	if err := db.Model(&models.Thought{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var thoughts []models.Thought
	err := db.Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(p.offset()).Limit(p.limit()).
		Find(&thoughts).Error
	return thoughts, total, err
}
