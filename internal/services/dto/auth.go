package dto

// SignupRequest - запрос регистрации
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	FullName string  `json:"full_name" validate:"required,max=255"`
	Role     string  `json:"role" validate:"required,is-user-role"`
	Phone    *string `json:"phone" validate:"omitempty,is-phone"`
	Username *string `json:"username" validate:"omitempty,max=50"`
	Company  string  `json:"company" validate:"omitempty,max=255"`
	Website  string  `json:"website" validate:"omitempty,url,max=255"`
	Country  string  `json:"country" validate:"omitempty,max=100"`
	City     string  `json:"city" validate:"omitempty,max=100"`
}

// VerifyOTPRequest - подтверждение кода. Email необязателен: с ним поиск
// идет по паре email+код.
type VerifyOTPRequest struct {
	OTP   string `json:"otp" validate:"required,is-otp"`
	Email string `json:"email" validate:"omitempty,email"`
}

// EmailRequest - повторная отправка кода и запрос сброса пароля.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ResetPasswordRequest - новый пароль для авторизованного пользователя.
type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// RefreshTokenRequest - запрос обновления токена (и выхода).
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// SocialLoginRequest - вход через внешнего провайдера.
type SocialLoginRequest struct {
	Provider string `json:"provider" validate:"required,is-social-provider"`
	Token    string `json:"token" validate:"required"`
	Role     string `json:"role" validate:"omitempty,is-user-role"`
}

// TokenPair - пара токенов
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SignupResponse - ответ на регистрацию
type SignupResponse struct {
	User   UserSummary `json:"user"`
	Access string      `json:"access"`
}

// VerifyRegistrationResponse - ответ на подтверждение регистрации
type VerifyRegistrationResponse struct {
	Access string      `json:"access"`
	User   UserSummary `json:"user"`
}

// LoginResponse - ответ на вход (в том числе социальный)
type LoginResponse struct {
	User   *UserProfile `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// PasswordOTPResponse - ответ на проверку кода сброса пароля
type PasswordOTPResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserRef `json:"user"`
}
