package handlers

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse - конверт успешного ответа. Ошибки отдаются в той же
// форме через apperrors.ErrorResponse.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
