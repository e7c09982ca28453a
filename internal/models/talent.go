package models

import (
	"time"

	"gorm.io/datatypes"
)

type Talent struct {
	ID      uint  `gorm:"primaryKey;column:talent_id"`
	AgentID uint  `gorm:"column:added_by_agent;not null;index"`
	Agent   *User `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE"`

	Name   string          `gorm:"size:255;not null"`
	Role   string          `gorm:"size:120"`
	DOB    *datatypes.Date `gorm:"column:dob"`
	Gender Gender          `gorm:"size:10;index"`

	// Параметры
	Height   *float64 `gorm:"type:decimal(5,2)"`
	Bust     *float64 `gorm:"type:decimal(5,2)"`
	Waist    *float64 `gorm:"type:decimal(5,2)"`
	Hips     *float64 `gorm:"type:decimal(5,2)"`
	ShoeSize *float64 `gorm:"type:decimal(4,1)"`

	EyeColor  string `gorm:"size:50"`
	HairType  string `gorm:"size:50"`
	HairColor string `gorm:"size:50"`
	SkinColor string `gorm:"size:50"`

	Location  string `gorm:"size:255"`
	Continent string `gorm:"size:50"`
	Country   string `gorm:"size:100;index"`

	IsAvailable   bool `gorm:"not null;index"`
	AvailableDate *datatypes.Date

	Images []TalentImage `gorm:"foreignKey:TalentID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
