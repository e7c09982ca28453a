package models

import "time"

// Content - синглтон-документ (политика, о нас, условия). Одна строка на Kind.
type Content struct {
	ID          uint        `gorm:"primaryKey"`
	Kind        ContentKind `gorm:"size:32;not null;uniqueIndex"`
	Description string      `gorm:"type:text;not null"`
	LastUpdated time.Time   `gorm:"autoUpdateTime"`
}

// ContactQuery - обращение с публичной формы.
type ContactQuery struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:155"`
	Email     string `gorm:"size:254;not null"`
	Message   string `gorm:"size:500"`
	CreatedAt time.Time
}

// Thought - запись в общей ленте.
type Thought struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Thoughts  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}
