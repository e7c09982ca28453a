package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose ограничивает, где токен может быть использован.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = "access"
	PurposeRefresh       TokenPurpose = "refresh"
	PurposePasswordReset TokenPurpose = "password_reset"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrWrongPurpose  = errors.New("token purpose not allowed")
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

// Claims - полезная нагрузка всех токенов приложения
type Claims struct {
	UserID      uint         `json:"user_id"`
	Role        string       `json:"role"`
	IsSuperuser bool         `json:"is_superuser,omitempty"`
	Purpose     TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager подписывает и проверяет HS256 токены.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// Subject - данные пользователя, которые попадают в токен
type Subject struct {
	UserID      uint
	Role        string
	IsSuperuser bool
}

// IssuedToken - подписанный токен и его метаданные
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *TokenManager) GenerateAccessToken(s Subject) (*IssuedToken, error) {
	return m.generate(s, PurposeAccess, m.accessTTL)
}

func (m *TokenManager) GenerateRefreshToken(s Subject) (*IssuedToken, error) {
	return m.generate(s, PurposeRefresh, m.refreshTTL)
}

// GenerateResetToken - короткоживущий токен, который принимает только /reset-password
func (m *TokenManager) GenerateResetToken(s Subject) (*IssuedToken, error) {
	return m.generate(s, PurposePasswordReset, m.resetTTL)
}

func (m *TokenManager) generate(s Subject, purpose TokenPurpose, ttl time.Duration) (*IssuedToken, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingSecret
	}

	now := m.now()
	expiresAt := now.Add(ttl)
	jti := uuid.NewString()

	claims := Claims{
		UserID:      s.UserID,
		Role:        s.Role,
		IsSuperuser: s.IsSuperuser,
		Purpose:     purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   fmt.Sprintf("%d", s.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{Token: signed, ID: jti, ExpiresAt: expiresAt}, nil
}

// ParseToken проверяет подпись и срок. Если передан список purposes,
// токен должен иметь одно из этих назначений.
func (m *TokenManager) ParseToken(tokenStr string, purposes ...TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if len(purposes) == 0 {
		return claims, nil
	}
	for _, p := range purposes {
		if claims.Purpose == p {
			return claims, nil
		}
	}
	return nil, ErrWrongPurpose
}
