package handlers

import (
	"net/http"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/middleware"
	"castboard_backend/internal/models"
	"castboard_backend/internal/services"
	"castboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TalentHandler struct {
	*BaseHandler
	talentService services.TalentService
	imageService  services.TalentImageService
}

func NewTalentHandler(base *BaseHandler, talentService services.TalentService, imageService services.TalentImageService) *TalentHandler {
	return &TalentHandler{
		BaseHandler:   base,
		talentService: talentService,
		imageService:  imageService,
	}
}

func (h *TalentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	talents := rg.Group("/talents")
	talents.Use(h.RequireAuth())
	{
		talents.POST("", middleware.RequireRoles(models.UserRoleAgent), h.CreateTalent)
		talents.GET("", h.ListTalents)
		talents.GET("/:talentId", h.GetTalent)
		talents.PUT("/:talentId", h.UpdateTalent)
		talents.PATCH("/:talentId", h.UpdateTalent)
		talents.DELETE("/:talentId", h.DeleteTalent)

		images := talents.Group("/:talentId/images")
		{
			images.POST("", h.AddImage)
			images.GET("", h.ListImages)
			images.PATCH("/:imageId", h.UpdateImage)
			images.DELETE("/:imageId", h.DeleteImage)
			images.POST("/:imageId/primary", h.SetPrimaryImage)
		}
	}
}

func (h *TalentHandler) CreateTalent(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateTalentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	talent, err := h.talentService.CreateTalent(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Talent created successfully.", talent)
}

func (h *TalentHandler) ListTalents(c *gin.Context) {
	var query dto.TalentListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	talents, err := h.talentService.ListTalents(c.Request.Context(), h.GetDB(c), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Talents retrieved successfully.", talents)
}

func (h *TalentHandler) GetTalent(c *gin.Context) {
	talentID, err := ParseParamUint(c, "talentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	talent, err := h.talentService.GetTalent(c.Request.Context(), h.GetDB(c), talentID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Talent retrieved successfully.", talent)
}

func (h *TalentHandler) UpdateTalent(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	talentID, err := ParseParamUint(c, "talentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateTalentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	talent, err := h.talentService.UpdateTalent(c.Request.Context(), h.GetDB(c), actor, talentID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Talent updated successfully.", talent)
}

func (h *TalentHandler) DeleteTalent(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	talentID, err := ParseParamUint(c, "talentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.talentService.DeleteTalent(c.Request.Context(), h.GetDB(c), actor, talentID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Talent deleted successfully.", nil)
}

// --- Изображения ---

// AddImage - multipart: image, is_primary, sort_order
func (h *TalentHandler) AddImage(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	talentID, err := ParseParamUint(c, "talentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.AddTalentImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	file, _ := c.FormFile("image")

	image, err := h.imageService.AddImage(c.Request.Context(), h.GetDB(c), actor, talentID, file, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Image uploaded successfully.", image)
}

func (h *TalentHandler) ListImages(c *gin.Context) {
	talentID, err := ParseParamUint(c, "talentId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	images, err := h.imageService.ListImages(c.Request.Context(), h.GetDB(c), talentID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Images retrieved successfully.", images)
}

func (h *TalentHandler) UpdateImage(c *gin.Context) {
	actor, talentID, imageID, ok := h.imagePath(c)
	if !ok {
		return
	}

	var req dto.UpdateTalentImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, err := h.imageService.UpdateSortOrder(c.Request.Context(), h.GetDB(c), actor, talentID, imageID, *req.SortOrder)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Image updated successfully.", image)
}

func (h *TalentHandler) SetPrimaryImage(c *gin.Context) {
	actor, talentID, imageID, ok := h.imagePath(c)
	if !ok {
		return
	}

	image, err := h.imageService.SetPrimary(c.Request.Context(), h.GetDB(c), actor, talentID, imageID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Primary image updated successfully.", image)
}

func (h *TalentHandler) DeleteImage(c *gin.Context) {
	actor, talentID, imageID, ok := h.imagePath(c)
	if !ok {
		return
	}

	if err := h.imageService.DeleteImage(c.Request.Context(), h.GetDB(c), actor, talentID, imageID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Image deleted successfully.", nil)
}

func (h *TalentHandler) imagePath(c *gin.Context) (actor auth.Actor, talentID, imageID uint, ok bool) {
	actor, ok = h.GetActor(c)
	if !ok {
		return
	}
	var err error
	if talentID, err = ParseParamUint(c, "talentId"); err != nil {
		h.HandleServiceError(c, err)
		return actor, 0, 0, false
	}
	if imageID, err = ParseParamUint(c, "imageId"); err != nil {
		h.HandleServiceError(c, err)
		return actor, 0, 0, false
	}
	return actor, talentID, imageID, true
}
