package dto

import "time"

type CreateJobRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=255"`
	Description  string   `json:"description" validate:"omitempty,max=5000"`
	Location     string   `json:"location" validate:"omitempty,max=255"`
	BudgetMin    *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax    *float64 `json:"budget_max" validate:"omitempty,gte=0"`
	JobType      string   `json:"job_type" validate:"omitempty,max=120"`
	Status       string   `json:"status" validate:"omitempty,is-job-status"`
	AIPrompt     string   `json:"ai_prompt" validate:"omitempty,max=5000"`
	AssignedToID *uint    `json:"job_assigned_to" validate:"omitempty,min=1"`
}

type UpdateJobRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Location    *string  `json:"location" validate:"omitempty,max=255"`
	BudgetMin   *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax   *float64 `json:"budget_max" validate:"omitempty,gte=0"`
	JobType     *string  `json:"job_type" validate:"omitempty,max=120"`
	Status      *string  `json:"status" validate:"omitempty,is-job-status"`
	AIPrompt    *string  `json:"ai_prompt" validate:"omitempty,max=5000"`
}

// AssignJobRequest - назначение агента. null снимает назначение.
type AssignJobRequest struct {
	AssignedToID *uint `json:"job_assigned_to" validate:"omitempty,min=1"`
}

type JobListQuery struct {
	Status       string `form:"status" validate:"omitempty,is-job-status"`
	CreatedByID  uint   `form:"created_by"`
	AssignedToID uint   `form:"assigned_to"`
	Location     string `form:"location" validate:"omitempty,max=255"`
}

type JobResponse struct {
	JobID            uint         `json:"job_id"`
	CreatedBy        uint         `json:"created_by"`
	AssignedTo       *UserSummary `json:"job_assigned_to"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Location         string       `json:"location"`
	BudgetMin        *float64     `json:"budget_min"`
	BudgetMax        *float64     `json:"budget_max"`
	JobType          string       `json:"job_type"`
	Status           string       `json:"status"`
	AIPrompt         string       `json:"ai_prompt"`
	ApplicantsCount  int          `json:"applicants_count"`
	ShortlistedCount int          `json:"shortlisted_count"`
	SelftapesCount   int          `json:"selftapes_count"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
