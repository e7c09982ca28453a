package auth

import "castboard_backend/internal/models"

// Actor - аутентифицированный пользователь, от имени которого выполняется операция
type Actor struct {
	UserID      uint
	Role        models.UserRole
	IsSuperuser bool
}

// IsAgent - роль Agent (суперпользователь проходит любую ролевую проверку)
func (a Actor) IsAgent() bool {
	return a.IsSuperuser || a.Role == models.UserRoleAgent
}

// IsClient - роль Client
func (a Actor) IsClient() bool {
	return a.IsSuperuser || a.Role == models.UserRoleClient
}

// CanModify - владелец записи или суперпользователь
func (a Actor) CanModify(ownerID uint) bool {
	return a.IsSuperuser || a.UserID == ownerID
}

// ActorFromClaims собирает Actor из проверенного токена
func ActorFromClaims(c *Claims) Actor {
	return Actor{
		UserID:      c.UserID,
		Role:        models.UserRole(c.Role),
		IsSuperuser: c.IsSuperuser,
	}
}
