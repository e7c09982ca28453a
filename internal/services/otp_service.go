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
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// maxOTPAttempts - сколько раз перегенерировать код, если такой же
// активный код уже выдан другому аккаунту.
const maxOTPAttempts = 5

// OTPService управляет жизненным циклом одноразовых кодов.
type OTPService interface {
	// Issue генерирует и сохраняет код. Вызывается внутри транзакции вызывающего.
	Issue(ctx context.Context, db *gorm.DB, user *models.User) (string, error)
	// Notify отправляет код. Ошибка доставки только логируется.
	Notify(ctx context.Context, user *models.User, code string, purpose email.OTPPurpose)

	VerifyRegistration(ctx context.Context, db *gorm.DB, emailAddr, code string) (*models.User, error)
	Resend(ctx context.Context, db *gorm.DB, emailAddr string) error
	RequestPasswordReset(ctx context.Context, db *gorm.DB, emailAddr string) error
	VerifyPasswordReset(ctx context.Context, db *gorm.DB, emailAddr, code string) (*models.User, error)
}

type otpService struct {
	userRepo repositories.UserRepository
	notifier email.Notifier
	ttl      time.Duration
	now      func() time.Time
}

func NewOTPService(userRepo repositories.UserRepository, notifier email.Notifier, ttl time.Duration, now func() time.Time) OTPService {
	return &otpService{
		userRepo: userRepo,
		notifier: notifier,
		ttl:      ttl,
		now:      now,
	}
}

func (s *otpService) Issue(ctx context.Context, db *gorm.DB, user *models.User) (string, error) {
	now := s.now().UTC()

	var code string
	for attempt := 1; ; attempt++ {
		candidate, err := auth.GenerateOTP()
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		taken, err := s.codeHeldByOther(db, candidate, user.ID, now)
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		if !taken {
			code = candidate
			break
		}
		if attempt == maxOTPAttempts {
			logger.CtxWarn(ctx, "otp collision retries exhausted", "user_id", user.ID)
			code = candidate
			break
		}
	}

	expiresAt := now.Add(s.ttl)
	if err := s.userRepo.SetOTP(db, user.ID, code, expiresAt); err != nil {
		return "", handleUserError(err)
	}
	user.OTP = &code
	user.OTPExpiresAt = &expiresAt

	logger.CtxDebug(ctx, "otp issued", "user_id", user.ID, "expires_at", expiresAt)
	return code, nil
}

func (s *otpService) codeHeldByOther(db *gorm.DB, code string, userID uint, now time.Time) (bool, error) {
	holders, err := s.userRepo.FindByOTP(db, code)
	if err != nil {
		return false, err
	}
	for i := range holders {
		if holders[i].ID != userID && holders[i].HasActiveOTP(now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *otpService) Notify(ctx context.Context, user *models.User, code string, purpose email.OTPPurpose) {
	if s.notifier == nil {
		logger.CtxWarn(ctx, "otp notifier is not configured", "user_id", user.ID)
		return
	}
	if err := s.notifier.SendOTP(ctx, user.Email, code, purpose, s.ttl); err != nil {
		logger.CtxWithError(ctx, "failed to deliver otp", err,
			"user_id", user.ID,
			"purpose", purpose,
		)
	}
}

func (s *otpService) VerifyRegistration(ctx context.Context, db *gorm.DB, emailAddr, code string) (*models.User, error) {
	now := s.now()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.lookupByCode(ctx, tx, emailAddr, code, now)
	if err != nil {
		return nil, err
	}
	if !user.HasActiveOTP(now) {
		return nil, apperrors.ErrOTPInvalid
	}
	if user.IsVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	if err := s.userRepo.MarkVerified(tx, user.ID); err != nil {
		return nil, handleUserError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	user.IsVerified = true
	user.OTP = nil
	user.OTPExpiresAt = nil
	logger.CtxInfo(ctx, "account verified", "user_id", user.ID)
	return user, nil
}

func (s *otpService) Resend(ctx context.Context, db *gorm.DB, emailAddr string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.FieldError("email", apperrors.ErrEmailNotRegistered.Message).WithError(err)
		}
		return handleUserError(err)
	}
	if user.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	code, err := s.Issue(ctx, tx, user)
	if err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.Notify(ctx, user, code, email.PurposeVerification)
	return nil
}

func (s *otpService) RequestPasswordReset(ctx context.Context, db *gorm.DB, emailAddr string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.FieldError("email", apperrors.ErrAccountNotFound.Message).WithError(err)
		}
		return handleUserError(err)
	}

	code, err := s.Issue(ctx, tx, user)
	if err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.Notify(ctx, user, code, email.PurposePasswordReset)
	return nil
}

// VerifyPasswordReset проверяет код сброса пароля. Код не очищается:
// это делает ResetPassword после смены пароля.
func (s *otpService) VerifyPasswordReset(ctx context.Context, db *gorm.DB, emailAddr, code string) (*models.User, error) {
	now := s.now()

	user, err := s.lookupByCode(ctx, db, emailAddr, code, now)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, apperrors.ErrNotVerified
	}
	if user.OTPExpiresAt == nil || user.OTPExpiresAt.Before(now) {
		return nil, apperrors.ErrOTPExpired
	}
	return user, nil
}

// lookupByCode ищет владельца кода. С email поиск идет по паре email+код,
// без него - по коду среди всех аккаунтов; несколько подходящих активных
// аккаунтов считаются неверным кодом.
func (s *otpService) lookupByCode(ctx context.Context, db *gorm.DB, emailAddr, code string, now time.Time) (*models.User, error) {
	if emailAddr != "" {
		user, err := s.userRepo.FindByEmailAndOTP(db, normalizeEmail(emailAddr), code)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrOTPInvalid
			}
			return nil, apperrors.InternalError(err)
		}
		return user, nil
	}

	holders, err := s.userRepo.FindByOTP(db, code)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var active []int
	for i := range holders {
		if holders[i].HasActiveOTP(now) {
			active = append(active, i)
		}
	}

	switch {
	case len(active) == 1:
		return &holders[active[0]], nil
	case len(active) > 1:
		logger.CtxWarn(ctx, "otp code is held by several accounts", "count", len(active))
		return nil, apperrors.ErrOTPInvalid
	case len(holders) == 1:
		// Единственный, но просроченный код: решение принимает вызывающий.
		return &holders[0], nil
	default:
		return nil, apperrors.ErrOTPInvalid
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
