package repositories

import (
	"errors"

	"castboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

// JobFilter - фильтры списка вакансий
type JobFilter struct {
	Status       models.JobStatus
	CreatedByID  uint
	AssignedToID uint
	Location     string
	Pagination
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id uint) (*models.Job, error)
	List(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	Update(db *gorm.DB, job *models.Job) error
	Delete(db *gorm.DB, id uint) error
}

type jobRepository struct{}

func NewJobRepository() JobRepository {
	return &jobRepository{}
}

func (r *jobRepository) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *jobRepository) FindByID(db *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	if err := db.Preload("AssignedTo").First(&job, "job_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) List(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedByID != 0 {
		query = query.Where("created_by = ?", filter.CreatedByID)
	}
	if filter.AssignedToID != 0 {
		query = query.Where("assigned_to = ?", filter.AssignedToID)
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", containsPattern(filter.Location))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := query.Preload("AssignedTo").Order("created_at DESC").Order("job_id DESC").
		Offset(filter.offset()).Limit(filter.limit()).
		Find(&jobs).Error
	return jobs, total, err
}

// Update сохраняет все поля вакансии
func (r *jobRepository) Update(db *gorm.DB, job *models.Job) error {
	return db.Omit("CreatedBy", "AssignedTo").Save(job).Error
}

func (r *jobRepository) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Job{}, "job_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}
