package database

import (
	"fmt"

	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Не более одного is_primary на талант. Работает и в Postgres, и в SQLite.
const primaryImageIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_primary_image_per_talent
	ON talent_images (talent_id) WHERE is_primary`

// Open подключается к Postgres. TranslateError включен, чтобы нарушения
// уникальности приходили как gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	return db, nil
}

// Migrate выполняет миграцию всех моделей
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Job{},
		&models.Talent{},
		&models.TalentImage{},
		&models.Content{},
		&models.ContactQuery{},
		&models.Thought{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(primaryImageIndexSQL).Error; err != nil {
		return fmt.Errorf("create primary image index: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
