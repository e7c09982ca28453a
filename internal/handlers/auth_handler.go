package handlers

import (
	"net/http"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/middleware"
	"castboard_backend/internal/services"
	"castboard_backend/internal/services/dto"
	"castboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты жизненного цикла аккаунта
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	account := rg.Group("/account")
	{
		account.POST("/signup", h.Signup)
		account.POST("/verify-otp/registration", h.VerifyRegistration)
		account.POST("/resend-otp", h.ResendOTP)
		account.POST("/login", h.Login)
		account.POST("/social-login", h.SocialLogin)
		account.POST("/forget-password", h.ForgetPassword)
		account.POST("/password/verify-otp", h.VerifyPasswordResetOTP)
		account.POST("/token/refresh", h.RefreshToken)
		account.POST("/logout", h.Logout)

		// Кроме access-токена принимает токен, выданный после проверки OTP сброса
		account.POST("/reset-password",
			middleware.AuthMiddleware(h.tokens, auth.PurposeAccess, auth.PurposePasswordReset),
			h.ResetPassword,
		)
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.Bind_JSON(c, &req) {
		return
	}
	fields, ok := h.CollectFieldErrors(c, &req)
	if !ok {
		return
	}

	// Занятые email/телефон/username попадают в тот же ответ, что и ошибки формата
	conflicts, err := h.authService.CheckSignup(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	for field, msg := range conflicts {
		if _, exists := fields[field]; !exists {
			fields[field] = msg
		}
	}
	if len(fields) > 0 {
		h.HandleServiceError(c, apperrors.ValidationError(fields))
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Account created successfully. OTP sent to email.", resp)
}

func (h *AuthHandler) VerifyRegistration(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyRegistration(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "OTP verified successfully.", resp)
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendOTP(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "A new OTP has been sent to your email.", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful.", resp)
}

func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req dto.SocialLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.SocialLogin(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful.", resp)
}

func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ForgetPassword(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "OTP sent to your email for password reset.", nil)
}

func (h *AuthHandler) VerifyPasswordResetOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyPasswordResetOTP(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "OTP verified successfully.", resp)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), actor.UserID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password reset successfully.", nil)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Token refreshed successfully.", resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), h.GetDB(c), req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Logged out successfully.", nil)
}
