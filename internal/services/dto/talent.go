package dto

import "time"

// Даты передаются как YYYY-MM-DD.

type CreateTalentRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Role          string   `json:"role" validate:"omitempty,max=120"`
	DOB           string   `json:"dob" validate:"omitempty,is-date"`
	Gender        string   `json:"gender" validate:"omitempty,is-gender"`
	Height        *float64 `json:"height" validate:"omitempty,gt=0,lt=1000"`
	Bust          *float64 `json:"bust" validate:"omitempty,gt=0,lt=1000"`
	Waist         *float64 `json:"waist" validate:"omitempty,gt=0,lt=1000"`
	Hips          *float64 `json:"hips" validate:"omitempty,gt=0,lt=1000"`
	ShoeSize      *float64 `json:"shoe_size" validate:"omitempty,gt=0,lt=1000"`
	EyeColor      string   `json:"eye_color" validate:"omitempty,max=50"`
	HairType      string   `json:"hair_type" validate:"omitempty,max=50"`
	HairColor     string   `json:"hair_color" validate:"omitempty,max=50"`
	SkinColor     string   `json:"skin_color" validate:"omitempty,max=50"`
	Location      string   `json:"location" validate:"omitempty,max=255"`
	Continent     string   `json:"continent" validate:"omitempty,max=50"`
	Country       string   `json:"country" validate:"omitempty,max=100"`
	IsAvailable   *bool    `json:"is_available"`
	AvailableDate string   `json:"available_date" validate:"omitempty,is-date"`
}

type UpdateTalentRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Role          *string  `json:"role" validate:"omitempty,max=120"`
	DOB           *string  `json:"dob" validate:"omitempty,is-date"`
	Gender        *string  `json:"gender" validate:"omitempty,is-gender"`
	Height        *float64 `json:"height" validate:"omitempty,gt=0,lt=1000"`
	Bust          *float64 `json:"bust" validate:"omitempty,gt=0,lt=1000"`
	Waist         *float64 `json:"waist" validate:"omitempty,gt=0,lt=1000"`
	Hips          *float64 `json:"hips" validate:"omitempty,gt=0,lt=1000"`
	ShoeSize      *float64 `json:"shoe_size" validate:"omitempty,gt=0,lt=1000"`
	EyeColor      *string  `json:"eye_color" validate:"omitempty,max=50"`
	HairType      *string  `json:"hair_type" validate:"omitempty,max=50"`
	HairColor     *string  `json:"hair_color" validate:"omitempty,max=50"`
	SkinColor     *string  `json:"skin_color" validate:"omitempty,max=50"`
	Location      *string  `json:"location" validate:"omitempty,max=255"`
	Continent     *string  `json:"continent" validate:"omitempty,max=50"`
	Country       *string  `json:"country" validate:"omitempty,max=100"`
	IsAvailable   *bool    `json:"is_available"`
	AvailableDate *string  `json:"available_date" validate:"omitempty,is-date"`
}

type TalentListQuery struct {
	AgentID     uint   `form:"agent"`
	IsAvailable *bool  `form:"is_available"`
	Gender      string `form:"gender" validate:"omitempty,is-gender"`
	Country     string `form:"country" validate:"omitempty,max=100"`
	Search      string `form:"search" validate:"omitempty,max=100"`
}

type TalentResponse struct {
	TalentID      uint                  `json:"talent_id"`
	AddedByAgent  uint                  `json:"added_by_agent"`
	Name          string                `json:"name"`
	Role          string                `json:"role"`
	DOB           *string               `json:"dob"`
	Gender        string                `json:"gender"`
	Height        *float64              `json:"height"`
	Bust          *float64              `json:"bust"`
	Waist         *float64              `json:"waist"`
	Hips          *float64              `json:"hips"`
	ShoeSize      *float64              `json:"shoe_size"`
	EyeColor      string                `json:"eye_color"`
	HairType      string                `json:"hair_type"`
	HairColor     string                `json:"hair_color"`
	SkinColor     string                `json:"skin_color"`
	Location      string                `json:"location"`
	Continent     string                `json:"continent"`
	Country       string                `json:"country"`
	IsAvailable   bool                  `json:"is_available"`
	AvailableDate *string               `json:"available_date"`
	Images        []TalentImageResponse `json:"images"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// AddTalentImageRequest - поля multipart формы, кроме самого файла.
type AddTalentImageRequest struct {
	IsPrimary bool `form:"is_primary"`
	SortOrder int  `form:"sort_order" validate:"gte=0"`
}

type UpdateTalentImageRequest struct {
	SortOrder *int `json:"sort_order" validate:"required,gte=0"`
}

type TalentImageResponse struct {
	ImageID      uint      `json:"image_id"`
	TalentID     uint      `json:"talent_id"`
	URL          string    `json:"image"`
	ThumbnailURL string    `json:"thumbnail"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	IsPrimary    bool      `json:"is_primary"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}
