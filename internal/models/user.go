package models

import "time"

type User struct {
	ID           uint     `gorm:"primaryKey;column:user_id"`
	Email        string   `gorm:"size:254;uniqueIndex;not null"`
	Phone        *string  `gorm:"size:15;uniqueIndex"`
	Username     *string  `gorm:"size:50;uniqueIndex"`
	PasswordHash string   `gorm:"not null"`
	FullName     string   `gorm:"size:255"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'Client'"`

	ProfilePic string `gorm:"size:500"` // ключ в хранилище
	Bio        string `gorm:"type:text"`
	Company    string `gorm:"size:255"`
	Website    string `gorm:"size:255"`
	Country    string `gorm:"size:100"`
	City       string `gorm:"size:100"`

	// Состояние верификации. OTP либо NULL, либо 6 цифр с непустым сроком.
	OTP          *string    `gorm:"column:otp;size:6;index"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	IsVerified   bool       `gorm:"not null;default:false;index:idx_users_active_verified,priority:2"`

	IsActive     bool         `gorm:"not null;index:idx_users_active_verified,priority:1"`
	IsStaff      bool         `gorm:"not null;default:false"`
	IsSuperuser  bool         `gorm:"not null;default:false"`
	IsSubscribed bool         `gorm:"not null;default:false;index"`
	AuthProvider AuthProvider `gorm:"size:20;not null;default:'password'"`

	CreatedAt time.Time `gorm:"column:date_joined"`
	UpdatedAt time.Time
	LastLogin *time.Time

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// HasActiveOTP - код выставлен и еще не истек на момент now.
func (u *User) HasActiveOTP(now time.Time) bool {
	return u.OTP != nil && u.OTPExpiresAt != nil && !now.After(*u.OTPExpiresAt)
}

// UsernameValue возвращает username или пустую строку.
func (u *User) UsernameValue() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	TokenID   string    `gorm:"size:64;not null;uniqueIndex"` // jti
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
