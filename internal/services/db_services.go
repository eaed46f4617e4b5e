package services

import (
	"imagevault/internal/repositories"

	"gorm.io/gorm"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	AppSettings AppSettingsService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	appSettingsRepo := repositories.NewAppSettingsRepository(db)

	return &DbServices{
		AppSettings: NewAppSettingsService(appSettingsRepo),
	}
}
