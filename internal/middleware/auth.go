package middleware

import (
	"errors"
	"strconv"
	"strings"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/pkg/apperrors"
	"castboard_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT. Без списка purposes
// принимаются только access-токены.
func AuthMiddleware(tokens *auth.TokenManager, purposes ...auth.TokenPurpose) gin.HandlerFunc {
	if len(purposes) == 0 {
		purposes = []auth.TokenPurpose{auth.PurposeAccess}
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication credentials were not provided."))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.ParseToken(tokenStr, purposes...)
		if err != nil {
			if errors.Is(err, auth.ErrWrongPurpose) {
				apperrors.HandleError(c, apperrors.NewUnauthorizedError("Token is not valid for this endpoint."))
				return
			}
			apperrors.HandleError(c, apperrors.ErrInvalidToken.WithError(err))
			return
		}

		// Сохраняем claims в контекст
		actor := auth.ActorFromClaims(claims)
		c.Set(contextkeys.UserIDKey, actor.UserID)
		c.Set(contextkeys.RoleKey, actor.Role)
		c.Set(contextkeys.SuperuserKey, actor.IsSuperuser)
		c.Set(contextkeys.TokenPurposeKey, claims.Purpose)

		ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(actor.UserID), 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles - пропускает пользователей с одной из ролей. Суперпользователь
// проходит всегда.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication credentials were not provided."))
			return
		}
		if !actor.IsSuperuser && !roleSet[actor.Role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequireSuperuser - только суперпользователь
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication credentials were not provided."))
			return
		}
		if !actor.IsSuperuser {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetActor извлекает пользователя, выставленного AuthMiddleware
func GetActor(c *gin.Context) (auth.Actor, bool) {
	userID, ok := c.Get(contextkeys.UserIDKey)
	if !ok {
		return auth.Actor{}, false
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return auth.Actor{}, false
	}

	actor := auth.Actor{UserID: id}
	if role, ok := c.Get(contextkeys.RoleKey); ok {
		actor.Role, _ = role.(models.UserRole)
	}
	if su, ok := c.Get(contextkeys.SuperuserKey); ok {
		actor.IsSuperuser, _ = su.(bool)
	}
	return actor, true
}
