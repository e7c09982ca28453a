package routes

import (
	"castboard_backend/internal/handlers"
	"castboard_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты. mediaDir - каталог
// локального хранилища; пустая строка отключает раздачу /media.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	mediaDir string,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.TalentHandler.RegisterRoutes(api)
		appHandlers.ContentHandler.RegisterRoutes(api)
	}

	if mediaDir != "" {
		ginRouter.Static("/media", mediaDir)
		logger.Info("Serving local media", "dir", mediaDir)
	}
}
