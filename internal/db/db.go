package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate creates/updates the schema for every persisted model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Work{},
		&models.SkillTag{},
		&models.Project{},
		&models.Proposal{},
		&models.RefreshToken{},
	)
}
