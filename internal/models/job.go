package models

import "time"

type Job struct {
	ID           uint  `gorm:"primaryKey;column:job_id"`
	CreatedByID  uint  `gorm:"column:created_by;not null;index"`
	CreatedBy    *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	AssignedToID *uint `gorm:"column:assigned_to;index"`
	AssignedTo   *User `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`

	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	Location    string    `gorm:"size:255;index"`
	BudgetMin   *float64  `gorm:"type:decimal(12,2)"`
	BudgetMax   *float64  `gorm:"type:decimal(12,2)"`
	JobType     string    `gorm:"size:120"`
	Status      JobStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	AIPrompt    string    `gorm:"column:ai_prompt;type:text"`

	// Денормализованные счетчики
	ApplicantsCount  int `gorm:"not null;default:0"`
	ShortlistedCount int `gorm:"not null;default:0"`
	SelftapesCount   int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BudgetRangeValid - budget_min <= budget_max, если заданы оба.
func (j *Job) BudgetRangeValid() bool {
	if j.BudgetMin == nil || j.BudgetMax == nil {
		return true
	}
	return *j.BudgetMin <= *j.BudgetMax
}
