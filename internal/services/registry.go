package services

import (
	"time"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/email"
	"castboard_backend/internal/imageprocessor"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/social"
	"castboard_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	OTPService         OTPService
	AuthService        AuthService
	UserService        UserService
	JobService         JobService
	TalentService      TalentService
	TalentImageService TalentImageService
	ContentService     ContentService
}

// Dependencies - внешние зависимости сервисов.
type Dependencies struct {
	Tokens   *auth.TokenManager
	Notifier email.Notifier
	Social   social.Verifier
	Storage  storage.Storage
	Images   *imageprocessor.Processor
	OTPTTL   time.Duration
	// Now по умолчанию time.Now; тесты подменяют часы.
	Now func() time.Time
}

// NewServiceContainer собирает сервисы поверх stateless-репозиториев.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.OTPTTL <= 0 {
		deps.OTPTTL = 30 * time.Minute
	}

	userRepo := repositories.NewUserRepository()
	refreshRepo := repositories.NewRefreshTokenRepository()
	jobRepo := repositories.NewJobRepository()
	talentRepo := repositories.NewTalentRepository()
	imageRepo := repositories.NewTalentImageRepository()
	contentRepo := repositories.NewContentRepository()

	otpService := NewOTPService(userRepo, deps.Notifier, deps.OTPTTL, deps.Now)
	userService := NewUserService(userRepo, deps.Storage, deps.Images)
	imageService := NewTalentImageService(talentRepo, imageRepo, deps.Storage, deps.Images)

	return &ServiceContainer{
		OTPService:         otpService,
		AuthService:        NewAuthService(userRepo, refreshRepo, otpService, userService, deps.Tokens, deps.Social, deps.Now),
		UserService:        userService,
		JobService:         NewJobService(jobRepo, userRepo),
		TalentService:      NewTalentService(talentRepo, imageRepo, imageService),
		TalentImageService: imageService,
		ContentService:     NewContentService(contentRepo, userRepo),
	}
}
