package services

import (
	"context"
	"errors"
	"strings"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/services/dto"
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(ctx context.Context, db *gorm.DB, jobID uint) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, db *gorm.DB, query *dto.JobListQuery, page, pageSize int) (*dto.ListResponse[dto.JobResponse], error)
	UpdateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	AssignJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, req *dto.AssignJobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) error
}

type jobService struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
	}
}

var errBudgetRange = apperrors.FieldError("budget_max", "budget_max must be greater than or equal to budget_min.")

func (s *jobService) CreateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if !actor.IsClient() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	status := models.JobStatusDraft
	if req.Status != "" {
		status = models.JobStatus(req.Status)
	}

	job := &models.Job{
		CreatedByID: actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		JobType:     req.JobType,
		Status:      status,
		AIPrompt:    req.AIPrompt,
	}
	if !job.BudgetRangeValid() {
		return nil, errBudgetRange
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if req.AssignedToID != nil {
		if err := s.checkAssignee(tx, *req.AssignedToID); err != nil {
			return nil, err
		}
		job.AssignedToID = req.AssignedToID
	}

	if err := s.jobRepo.Create(tx, job); err != nil {
		return nil, handleJobError(err)
	}
	created, err := s.jobRepo.FindByID(tx, job.ID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "created_by", actor.UserID)
	return toJobResponse(created), nil
}

// checkAssignee - назначить вакансию можно только существующему агенту.
func (s *jobService) checkAssignee(db *gorm.DB, userID uint) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.FieldError("job_assigned_to", "User not found.")
		}
		return apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleAgent {
		return apperrors.ErrAssigneeNotAgent
	}
	return nil
}

func (s *jobService) GetJob(ctx context.Context, db *gorm.DB, jobID uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	return toJobResponse(job), nil
}

func (s *jobService) ListJobs(ctx context.Context, db *gorm.DB, query *dto.JobListQuery, page, pageSize int) (*dto.ListResponse[dto.JobResponse], error) {
	filter := repositories.JobFilter{
		Status:       models.JobStatus(query.Status),
		CreatedByID:  query.CreatedByID,
		AssignedToID: query.AssignedToID,
		Location:     query.Location,
		Pagination:   repositories.Pagination{Page: page, PageSize: pageSize},
	}

	jobs, total, err := s.jobRepo.List(db, filter)
	if err != nil {
		return nil, handleJobError(err)
	}

	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, *toJobResponse(&jobs[i]))
	}
	return dto.NewListResponse(items, total, page, pageSize), nil
}

func (s *jobService) UpdateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !actor.CanModify(job.CreatedByID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.BudgetMin != nil {
		job.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		job.BudgetMax = req.BudgetMax
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}
	if req.AIPrompt != nil {
		job.AIPrompt = *req.AIPrompt
	}

	// Проверяется итоговая пара значений, а не только пришедшие поля
	if !job.BudgetRangeValid() {
		return nil, errBudgetRange
	}

	if err := s.jobRepo.Update(tx, job); err != nil {
		return nil, handleJobError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toJobResponse(job), nil
}

func (s *jobService) AssignJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, req *dto.AssignJobRequest) (*dto.JobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !actor.CanModify(job.CreatedByID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.AssignedToID != nil {
		if err := s.checkAssignee(tx, *req.AssignedToID); err != nil {
			return nil, err
		}
	}
	job.AssignedToID = req.AssignedToID
	job.AssignedTo = nil

	if err := s.jobRepo.Update(tx, job); err != nil {
		return nil, handleJobError(err)
	}
	updated, err := s.jobRepo.FindByID(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job assignment changed", "job_id", jobID, "assigned_to", req.AssignedToID)
	return toJobResponse(updated), nil
}

func (s *jobService) DeleteJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, jobID)
	if err != nil {
		return handleJobError(err)
	}
	if !actor.CanModify(job.CreatedByID) {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.jobRepo.Delete(tx, jobID); err != nil {
		return handleJobError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func toJobResponse(job *models.Job) *dto.JobResponse {
	resp := &dto.JobResponse{
		JobID:            job.ID,
		CreatedBy:        job.CreatedByID,
		Title:            job.Title,
		Description:      job.Description,
		Location:         job.Location,
		BudgetMin:        job.BudgetMin,
		BudgetMax:        job.BudgetMax,
		JobType:          job.JobType,
		Status:           string(job.Status),
		AIPrompt:         job.AIPrompt,
		ApplicantsCount:  job.ApplicantsCount,
		ShortlistedCount: job.ShortlistedCount,
		SelftapesCount:   job.SelftapesCount,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}
	if job.AssignedTo != nil {
		summary := toUserSummary(job.AssignedTo)
		resp.AssignedTo = &summary
	}
	return resp
}
