package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"castboard_backend/database"
	"castboard_backend/internal/auth"
	"castboard_backend/internal/config"
	"castboard_backend/internal/email"
	"castboard_backend/internal/handlers"
	"castboard_backend/internal/imageprocessor"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/middleware"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/routes"
	"castboard_backend/internal/services"
	"castboard_backend/internal/social"
	"castboard_backend/internal/storage"
	"castboard_backend/internal/validator"
	"castboard_backend/internal/workers"
	"castboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env == "development")
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.Open(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers.NewTokenCleanupWorker(gormDB, cfg.Workers.TokenCleanupInterval).Start(ctx)

	ginRouter, err := SetupRouter(cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает зависимости из конфига и возвращает готовый роутер.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	notifier, err := initializeNotifier(cfg)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.ResetTTL)

	serviceContainer := services.NewServiceContainer(services.Dependencies{
		Tokens:   tokens,
		Notifier: notifier,
		Social:   social.NewDecoder(cfg.Social.Timeout, nil),
		Storage:  storageInstance,
		Images:   imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxImageSize, cfg.Upload.ThumbnailSize),
		OTPTTL:   cfg.OTP.TTL,
	})

	mediaDir := ""
	if local, ok := storageInstance.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/media") {
		mediaDir = local.BasePath()
	}

	return NewRouter(gormDB, tokens, serviceContainer, cfg.Server.CORSOrigins, mediaDir), nil
}

// NewRouter - роутер поверх готового контейнера сервисов
func NewRouter(
	gormDB *gorm.DB,
	tokens *auth.TokenManager,
	serviceContainer *services.ServiceContainer,
	corsOrigins []string,
	mediaDir string,
) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer, tokens)

	ginRouter := initializeGinRouter(gormDB, corsOrigins)
	routes.RegisterRoutes(ginRouter, appHandlers, mediaDir)
	return ginRouter
}

// initializeNotifier - SMTP, если задан хост, иначе письма только логируются.
func initializeNotifier(cfg *config.Config) (email.Notifier, error) {
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	var provider email.Provider
	if cfg.Email.SMTPHost != "" {
		smtp := email.NewSMTPProvider(email.ConfigFromApp(cfg))
		if err := smtp.Validate(); err != nil {
			return nil, fmt.Errorf("smtp config: %w", err)
		}
		provider = smtp
		logger.Info("SMTP email provider configured", "host", cfg.Email.SMTPHost)
	} else {
		logger.Warn("SMTP_HOST is not set. Emails will only be logged.")
		provider = email.NewLogProvider()
	}

	return email.NewOTPNotifier(provider, templates), nil
}

func initializeHandlers(services *services.ServiceContainer, tokens *auth.TokenManager) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator, tokens)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:    handlers.NewUserHandler(baseHandler, services.UserService),
		JobHandler:     handlers.NewJobHandler(baseHandler, services.JobService),
		TalentHandler:  handlers.NewTalentHandler(baseHandler, services.TalentService, services.TalentImageService),
		ContentHandler: handlers.NewContentHandler(baseHandler, services.ContentService),
		HealthHandler:  handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(corsOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin создает суперпользователя из FIRST_ADMIN_EMAIL /
// FIRST_ADMIN_PASSWORD, если его еще нет.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	_, err := userRepo.FindByEmail(tx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		FullName:     "Administrator",
		Role:         models.UserRoleClient,
		IsVerified:   true,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		AuthProvider: models.AuthProviderPassword,
	}
	if err := userRepo.Create(tx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
