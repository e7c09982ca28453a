package handlers

import (
	"net/http"

	"castboard_backend/internal/services"
	"castboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	me := rg.Group("/account/me")
	me.Use(h.RequireAuth())
	{
		me.GET("", h.GetMe)
		me.PATCH("", h.UpdateMe)
		me.POST("/profile-pic", h.UploadProfilePic)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetMe(c.Request.Context(), h.GetDB(c), actor.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile retrieved successfully.", profile)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateMe(c.Request.Context(), h.GetDB(c), actor.UserID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully.", profile)
}

// UploadProfilePic - multipart, поле "profile_pic"
func (h *UserHandler) UploadProfilePic(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	// Отсутствие файла проверяет сервис
	file, _ := c.FormFile("profile_pic")

	profile, err := h.userService.UploadProfilePic(c.Request.Context(), h.GetDB(c), actor.UserID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile picture updated successfully.", profile)
}
