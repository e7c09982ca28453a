package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found.", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists.", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidImage - файл не прошел проверку размера или формата (400)
func ErrInvalidImage(message string) *AppError {
	return New(CodeInvalidImage, "image", message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// ErrInsufficientPermissions - роль или владение не позволяют выполнить действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"You do not have permission to perform this action.",
	http.StatusForbidden,
)

// --- Auth & Account ---

// ErrEmailAlreadyExists - email уже используется (гонка при вставке).
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"A user with this email already exists.",
	http.StatusConflict,
)

// ErrAccountAlreadyExists - нарушен уникальный индекс users (email, phone или username).
var ErrAccountAlreadyExists = New(
	CodeConflict,
	"auth",
	"An account with these details already exists.",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials.",
	http.StatusBadRequest,
)

// ErrAccountInactive - аккаунт деактивирован.
var ErrAccountInactive = New(
	CodeAccountInactive,
	"auth",
	"This account is inactive.",
	http.StatusForbidden,
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token.",
	http.StatusUnauthorized,
)

// ErrPasswordMismatch - new_password и confirm_password не совпадают.
var ErrPasswordMismatch = New(
	CodePasswordMismatch,
	"auth",
	"Passwords do not match.",
	http.StatusBadRequest,
)

// ErrEmailNotRegistered - повторная отправка кода на неизвестный email.
var ErrEmailNotRegistered = New(
	CodeNotFound,
	"auth",
	"Email not registered.",
	http.StatusBadRequest,
)

// ErrAccountNotFound - запрос сброса пароля для неизвестного email.
var ErrAccountNotFound = New(
	CodeNotFound,
	"auth",
	"User account not found.",
	http.StatusBadRequest,
)

// ErrSocialTokenInvalid - провайдер не подтвердил токен.
var ErrSocialTokenInvalid = New(
	CodeInvalidToken,
	"social",
	"Unable to verify the social login token.",
	http.StatusBadRequest,
)

// --- OTP ---

// ErrOTPInvalid - код не найден, не совпал или истек.
var ErrOTPInvalid = New(
	CodeOTPInvalid,
	"otp",
	"Invalid or expired OTP.",
	http.StatusBadRequest,
)

// ErrOTPExpired - код найден, но срок его действия вышел.
var ErrOTPExpired = New(
	CodeOTPExpired,
	"otp",
	"OTP has expired.",
	http.StatusBadRequest,
)

// ErrAlreadyVerified - аккаунт уже подтвержден.
var ErrAlreadyVerified = New(
	CodeAlreadyVerified,
	"otp",
	"User already verified.",
	http.StatusBadRequest,
)

// ErrNotVerified - сброс пароля для неподтвержденного аккаунта.
var ErrNotVerified = New(
	CodeNotVerified,
	"otp",
	"User account is not verified. Please verify your email first.",
	http.StatusBadRequest,
)

// --- Jobs ---

// ErrJobNotFound - вакансия не найдена.
var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found.",
	http.StatusNotFound,
)

// ErrAssigneeNotAgent - назначить вакансию можно только агенту.
var ErrAssigneeNotAgent = New(
	CodeInvalidOperation,
	"job",
	"Jobs can only be assigned to an agent account.",
	http.StatusBadRequest,
)

// --- Talents ---

// ErrTalentNotFound - талант не найден.
var ErrTalentNotFound = New(
	CodeNotFound,
	"talent",
	"Talent not found.",
	http.StatusNotFound,
)

// ErrTalentImageNotFound - изображение не найдено у этого таланта.
var ErrTalentImageNotFound = New(
	CodeNotFound,
	"talent",
	"Talent image not found.",
	http.StatusNotFound,
)

// ErrPrimaryImageConflict - сработал частичный уникальный индекс is_primary.
var ErrPrimaryImageConflict = New(
	CodeConflict,
	"talent",
	"Another image was made primary at the same time. Please retry.",
	http.StatusConflict,
)

// --- Content ---

// ErrContentNotFound - синглтон-документ еще не создан.
var ErrContentNotFound = New(
	CodeNotFound,
	"content",
	"No content found.",
	http.StatusNotFound,
)

// ErrQueryNotFound - обращение не найдено.
var ErrQueryNotFound = New(
	CodeNotFound,
	"content",
	"Query not found.",
	http.StatusNotFound,
)

// ErrUserNotFound - пользователь не найден.
var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found.",
	http.StatusNotFound,
)
