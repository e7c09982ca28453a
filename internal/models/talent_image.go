package models

import "time"

// TalentImage - фото таланта. У таланта с изображениями ровно одно
// is_primary=true; это же гарантирует частичный уникальный индекс
// uniq_primary_image_per_talent (см. database.Migrate).
type TalentImage struct {
	ID            uint   `gorm:"primaryKey;column:image_id"`
	TalentID      uint   `gorm:"not null;index"`
	Image         string `gorm:"size:500;not null"` // ключ в хранилище
	ThumbnailPath string `gorm:"size:500"`
	ContentType   string `gorm:"size:50"`
	Size          int64
	IsPrimary     bool `gorm:"not null;default:false"`
	SortOrder     int  `gorm:"not null;default:0;check:chk_talent_images_sort_order,sort_order >= 0"`
	CreatedAt     time.Time
}
