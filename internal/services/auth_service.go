package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/email"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/services/dto"
	"castboard_backend/internal/social"
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// maxUsernameAttempts - попытки подобрать свободный сгенерированный username.
const maxUsernameAttempts = 5

type AuthService interface {
	Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.SignupResponse, error)
	CheckSignup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (map[string]string, error)
	VerifyRegistration(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.VerifyRegistrationResponse, error)
	ResendOTP(ctx context.Context, db *gorm.DB, req *dto.EmailRequest) error
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgetPassword(ctx context.Context, db *gorm.DB, req *dto.EmailRequest) error
	VerifyPasswordResetOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.PasswordOTPResponse, error)
	ResetPassword(ctx context.Context, db *gorm.DB, userID uint, req *dto.ResetPasswordRequest) error
	RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.TokenPair, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
	SocialLogin(ctx context.Context, db *gorm.DB, req *dto.SocialLoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	otp         OTPService
	users       UserService
	tokens      *auth.TokenManager
	social      social.Verifier
	now         func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshRepo repositories.RefreshTokenRepository,
	otp OTPService,
	users UserService,
	tokens *auth.TokenManager,
	verifier social.Verifier,
	now func() time.Time,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		otp:         otp,
		users:       users,
		tokens:      tokens,
		social:      verifier,
		now:         now,
	}
}

// Signup - регистрация. Аккаунт создается неподтвержденным, код
// отправляется после коммита.
func (s *authService) Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	emailAddr := normalizeEmail(req.Email)

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	fieldErrors, err := s.signupFieldErrors(tx, req)
	if err != nil {
		return nil, err
	}
	if len(fieldErrors) > 0 {
		return nil, apperrors.ValidationError(fieldErrors)
	}

	phone := trimmedOrNil(req.Phone)
	var username string
	if u := trimmedOrNil(req.Username); u != nil {
		username = *u
	}
	role := models.UserRole(req.Role)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if username == "" {
		username, err = s.generateUsername(tx, emailAddr)
		if err != nil {
			return nil, err
		}
	}

	user := &models.User{
		Email:        emailAddr,
		Phone:        phone,
		Username:     &username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Company:      req.Company,
		Website:      req.Website,
		Country:      req.Country,
		City:         req.City,
		IsVerified:   false,
		IsActive:     true,
		AuthProvider: models.AuthProviderPassword,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleUserError(err)
	}

	code, err := s.otp.Issue(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "account created", "user_id", user.ID, "role", user.Role)

	s.otp.Notify(ctx, user, code, email.PurposeVerification)

	access, err := s.tokens.GenerateAccessToken(subjectOf(user))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.SignupResponse{
		User:   toUserSummary(user),
		Access: access.Token,
	}, nil
}

// CheckSignup возвращает ошибки полей, которые нельзя проверить тегами:
// занятые email, телефон и username, роль и длину пароля.
func (s *authService) CheckSignup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (map[string]string, error) {
	return s.signupFieldErrors(db.WithContext(ctx), req)
}

func (s *authService) signupFieldErrors(db *gorm.DB, req *dto.SignupRequest) (map[string]string, error) {
	// Все ошибки полей собираются, а не только первая
	fieldErrors := make(map[string]string)

	exists, err := s.userRepo.ExistsByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		fieldErrors["email"] = "Email already registered."
	}

	if phone := trimmedOrNil(req.Phone); phone != nil {
		exists, err := s.userRepo.ExistsByPhone(db, *phone, 0)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			fieldErrors["phone"] = "Phone already registered."
		}
	}

	if username := trimmedOrNil(req.Username); username != nil {
		exists, err := s.userRepo.ExistsByUsername(db, *username, 0)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			fieldErrors["username"] = "Username already taken."
		}
	}

	if !models.UserRole(req.Role).IsValid() {
		fieldErrors["role"] = "Invalid role. Use 'Agent' or 'Client'."
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		fieldErrors["password"] = "Ensure this field has at least 6 characters."
	}
	return fieldErrors, nil
}

// trimmedOrNil - nil для отсутствующего или пустого значения
func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// generateUsername подбирает свободный username вида <local[:8]><4 символа>.
func (s *authService) generateUsername(db *gorm.DB, emailAddr string) (string, error) {
	for i := 0; i < maxUsernameAttempts; i++ {
		candidate, err := auth.GenerateUsername(emailAddr)
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		exists, err := s.userRepo.ExistsByUsername(db, candidate, 0)
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperrors.ErrConflict(nil, "auth", "Could not generate a unique username. Please supply one.")
}

func (s *authService) VerifyRegistration(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.VerifyRegistrationResponse, error) {
	user, err := s.otp.VerifyRegistration(ctx, db, req.Email, req.OTP)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(subjectOf(user))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.VerifyRegistrationResponse{
		Access: access.Token,
		User:   toUserSummary(user),
	}, nil
}

func (s *authService) ResendOTP(ctx context.Context, db *gorm.DB, req *dto.EmailRequest) error {
	return s.otp.Resend(ctx, db, req.Email)
}

// Login - вход по email и паролю. Неподтвержденные аккаунты входить могут.
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "login failed: wrong password", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	resp, err := s.startSession(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// startSession выпускает пару токенов, сохраняет refresh и отмечает вход.
func (s *authService) startSession(ctx context.Context, tx *gorm.DB, user *models.User) (*dto.LoginResponse, error) {
	pair, err := s.issueTokenPair(tx, user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(tx, user.ID, now); err != nil {
		return nil, handleUserError(err)
	}
	user.LastLogin = &now

	return &dto.LoginResponse{
		User:   s.users.BuildProfile(ctx, user),
		Tokens: *pair,
	}, nil
}

func (s *authService) issueTokenPair(tx *gorm.DB, user *models.User) (*dto.TokenPair, error) {
	subject := subjectOf(user)

	access, err := s.tokens.GenerateAccessToken(subject)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(subject)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenID:   refresh.ID,
		ExpiresAt: refresh.ExpiresAt,
	}
	if err := s.refreshRepo.Create(tx, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenPair{Access: access.Token, Refresh: refresh.Token}, nil
}

func (s *authService) ForgetPassword(ctx context.Context, db *gorm.DB, req *dto.EmailRequest) error {
	return s.otp.RequestPasswordReset(ctx, db, req.Email)
}

func (s *authService) VerifyPasswordResetOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.PasswordOTPResponse, error) {
	user, err := s.otp.VerifyPasswordReset(ctx, db, req.Email, req.OTP)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateResetToken(subjectOf(user))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PasswordOTPResponse{
		AccessToken: token.Token,
		User:        dto.UserRef{UserID: user.ID, Email: user.Email},
	}, nil
}

// ResetPassword меняет пароль, гасит оставшийся код и отзывает все refresh-токены.
func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, userID uint, req *dto.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.FieldError("new_password", "Ensure this field has at least 6 characters.")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.UpdatePassword(tx, userID, hash); err != nil {
		return handleUserError(err)
	}
	if err := s.userRepo.ClearOTP(tx, userID); err != nil {
		return handleUserError(err)
	}
	if err := s.refreshRepo.DeleteByUserID(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "password reset", "user_id", userID)
	return nil
}

// RefreshToken меняет refresh-токен на новую пару. Старый токен отзывается.
func (s *authService) RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.tokens.ParseToken(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.refreshRepo.DeleteByTokenID(tx, claims.ID); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			logger.CtxWarn(ctx, "refresh token reuse or revoked token", "user_id", claims.UserID)
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(tx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	pair, err := s.issueTokenPair(tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pair, nil
}

// Logout отзывает refresh-токен. Повторный выход не считается ошибкой.
func (s *authService) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	claims, err := s.tokens.ParseToken(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return apperrors.ErrInvalidToken.WithError(err)
	}
	if err := s.refreshRepo.DeleteByTokenID(db, claims.ID); err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

// SocialLogin находит или создает аккаунт по email, подтвержденному провайдером.
func (s *authService) SocialLogin(ctx context.Context, db *gorm.DB, req *dto.SocialLoginRequest) (*dto.LoginResponse, error) {
	if s.social == nil {
		return nil, apperrors.ErrSocialTokenInvalid
	}
	provider := models.AuthProvider(req.Provider)

	identity, err := s.social.Verify(ctx, provider, req.Token)
	if err != nil {
		logger.CtxWarn(ctx, "social token rejected", "provider", provider, "error", err)
		return nil, apperrors.ErrSocialTokenInvalid.WithError(err)
	}
	emailAddr := normalizeEmail(identity.Email)

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, emailAddr)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		user, err = s.createSocialUser(tx, emailAddr, identity, provider, req.Role)
		if err != nil {
			return nil, err
		}
		logger.CtxInfo(ctx, "account created via social login", "user_id", user.ID, "provider", provider)
	case err != nil:
		return nil, apperrors.InternalError(err)
	default:
		if !user.IsActive {
			return nil, apperrors.ErrAccountInactive
		}
		if !user.IsVerified {
			// Провайдер подтвердил владение адресом
			if err := s.userRepo.MarkVerified(tx, user.ID); err != nil && !errors.Is(err, repositories.ErrUserAlreadyVerified) {
				return nil, apperrors.InternalError(err)
			}
			user.IsVerified = true
			user.OTP = nil
			user.OTPExpiresAt = nil
		}
	}

	resp, err := s.startSession(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *authService) createSocialUser(tx *gorm.DB, emailAddr string, identity *social.Identity, provider models.AuthProvider, role string) (*models.User, error) {
	username, err := s.generateUsername(tx, emailAddr)
	if err != nil {
		return nil, err
	}
	hash, err := auth.UnusablePasswordHash()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	userRole := models.UserRole(role)
	if !userRole.IsValid() {
		userRole = models.UserRoleClient
	}
	fullName := identity.FullName
	if fullName == "" {
		fullName, _, _ = strings.Cut(emailAddr, "@")
	}

	user := &models.User{
		Email:        emailAddr,
		Username:     &username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         userRole,
		IsVerified:   true,
		IsActive:     true,
		AuthProvider: provider,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleUserError(err)
	}
	return user, nil
}

func subjectOf(user *models.User) auth.Subject {
	return auth.Subject{
		UserID:      user.ID,
		Role:        string(user.Role),
		IsSuperuser: user.IsSuperuser,
	}
}
