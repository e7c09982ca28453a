package validator

import (
	"log"
	"time"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Приложение не должно запускаться без правил валидации
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-gender", validateGender)
	mustRegister("is-otp", validateOTP)
	mustRegister("is-phone", validatePhone)
	mustRegister("is-date", validateDate)
	mustRegister("is-social-provider", validateSocialProvider)
}

// Пустые значения пропускаются: для них есть 'required'.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.JobStatus(value).IsValid()
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.Gender(value).IsValid()
}

func validateOTP(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || auth.IsOTPFormat(value)
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if value[0] == '+' {
		value = value[1:]
	}
	if len(value) < 7 || len(value) > 15 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

func validateDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}

func validateSocialProvider(fl validator.FieldLevel) bool {
	switch models.AuthProvider(fl.Field().String()) {
	case "", models.AuthProviderApple, models.AuthProviderGoogle, models.AuthProviderFacebook, models.AuthProviderMicrosoft:
		return true
	}
	return false
}
