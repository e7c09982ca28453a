package services

import (
	"errors"

	"castboard_backend/internal/repositories"
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Ошибки, которые уже являются AppError, пропускаются как есть.

func handleUserError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrUserNotFound.WithError(err)
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrAccountAlreadyExists.WithError(err)
	case errors.Is(err, repositories.ErrUserAlreadyVerified):
		return apperrors.ErrAlreadyVerified.WithError(err)
	}
	return apperrors.InternalError(err)
}

func handleJobError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrJobNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrJobNotFound.WithError(err)
	}
	return apperrors.InternalError(err)
}

func handleTalentError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrTalentNotFound):
		return apperrors.ErrTalentNotFound.WithError(err)
	case errors.Is(err, repositories.ErrTalentImageNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrTalentImageNotFound.WithError(err)
	case errors.Is(err, repositories.ErrPrimaryImageConflict):
		return apperrors.ErrPrimaryImageConflict.WithError(err)
	}
	return apperrors.InternalError(err)
}

func handleContentError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrContentNotFound):
		return apperrors.ErrContentNotFound.WithError(err)
	case errors.Is(err, repositories.ErrQueryNotFound):
		return apperrors.ErrQueryNotFound.WithError(err)
	}
	return apperrors.InternalError(err)
}
