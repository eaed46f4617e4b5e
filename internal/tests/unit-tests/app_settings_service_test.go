package unit_tests

import (
	"context"
	"testing"

	"imagevault/internal/models"
	"imagevault/internal/services"
	"imagevault/internal/tests/mocks"

	"github.com/stretchr/testify/assert"
)

func defaultSettings() *models.AppSettings {
	return &models.AppSettings{
		ID:          1,
		Version:     1,
		Theme:       "system",
		Locale:      "en",
		DefaultSize: "1024x1024",
		ImageModel:  "gpt-image-1",
	}
}

func TestAppSettingsService_Get_Delegates(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return defaultSettings(), nil
		},
	}
	service := services.NewAppSettingsService(mockRepo)
	service.Startup(context.Background())

	settings, err := service.Get()
	assert.NoError(t, err)
	assert.Equal(t, "system", settings.Theme)
	assert.Equal(t, "1024x1024", settings.DefaultSize)
}

func TestAppSettingsService_Update_Success(t *testing.T) {
	var saved *models.AppSettings
	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return defaultSettings(), nil
		},
		UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
			saved = settings
			return nil
		},
	}
	service := services.NewAppSettingsService(mockRepo)
	service.Startup(context.Background())

	updated, err := service.Update("dark", "fr", "1536x1024")
	assert.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	assert.Equal(t, "fr", updated.Locale)
	assert.Equal(t, "1536x1024", updated.DefaultSize)
	assert.NotNil(t, saved)
	assert.Equal(t, uint(1), saved.ID)
}

func TestAppSettingsService_Update_Validation(t *testing.T) {
	service := services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{})
	service.Startup(context.Background())

	_, err := service.Update("", "en", "1024x1024")
	assert.Equal(t, "theme is required", err.Error())

	_, err = service.Update("dark", "", "1024x1024")
	assert.Equal(t, "locale is required", err.Error())

	_, err = service.Update("dark", "en", "")
	assert.Equal(t, "default size is required", err.Error())

	_, err = service.Update("neon", "en", "1024x1024")
	assert.Equal(t, "theme must be 'light', 'dark', or 'system'", err.Error())

	_, err = service.Update("dark", "en", "640x480")
	assert.Equal(t, "default size must be one of the supported image sizes", err.Error())
}
