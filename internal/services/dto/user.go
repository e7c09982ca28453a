package dto

import (
	"time"
)

// UserRef - минимальная идентификация пользователя.
type UserRef struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// UserSummary - короткая карточка пользователя.
type UserSummary struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

// UserProfile - полный профиль пользователя.
type UserProfile struct {
	UserID        uint       `json:"user_id"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone"`
	Username      *string    `json:"username"`
	FullName      string     `json:"full_name"`
	Role          string     `json:"role"`
	Bio           string     `json:"bio"`
	Company       string     `json:"company"`
	Website       string     `json:"website"`
	Country       string     `json:"country"`
	City          string     `json:"city"`
	ProfilePicURL *string    `json:"profile_pic_url"`
	IsVerified    bool       `json:"is_verified"`
	IsActive      bool       `json:"is_active"`
	IsStaff       bool       `json:"is_staff"`
	IsSuperuser   bool       `json:"is_superuser"`
	IsSubscribed  bool       `json:"is_subscribed"`
	AuthProvider  string     `json:"auth_provider"`
	DateJoined    time.Time  `json:"date_joined"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLogin     *time.Time `json:"last_login"`
}

// UpdateProfileRequest - частичное обновление своего профиля.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,is-phone"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
	Country  *string `json:"country" validate:"omitempty,max=100"`
	City     *string `json:"city" validate:"omitempty,max=100"`
}
