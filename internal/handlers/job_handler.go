package handlers

import (
	"net/http"

	"castboard_backend/internal/middleware"
	"castboard_backend/internal/models"
	"castboard_backend/internal/services"
	"castboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

// RegisterRoutes - все маршруты вакансий требуют аутентификации,
// роль и владение проверяет сервис.
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.Use(h.RequireAuth())
	{
		jobs.POST("", middleware.RequireRoles(models.UserRoleClient), h.CreateJob)
		jobs.GET("", h.ListJobs)
		jobs.GET("/:jobId", h.GetJob)
		jobs.PUT("/:jobId", h.UpdateJob)
		jobs.PATCH("/:jobId", h.UpdateJob)
		jobs.DELETE("/:jobId", h.DeleteJob)
		jobs.POST("/:jobId/assign", h.AssignJob)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Job created successfully.", job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	jobs, err := h.jobService.ListJobs(c.Request.Context(), h.GetDB(c), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Jobs retrieved successfully.", jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := ParseParamUint(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Job retrieved successfully.", job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID, err := ParseParamUint(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), h.GetDB(c), actor, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Job updated successfully.", job)
}

func (h *JobHandler) AssignJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID, err := ParseParamUint(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.AssignJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.AssignJob(c.Request.Context(), h.GetDB(c), actor, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Job assigned successfully.", job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID, err := ParseParamUint(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), actor, jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Job deleted successfully.", nil)
}
