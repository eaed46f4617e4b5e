package unit_tests

import (
	"testing"

	"imagevault/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
)

func TestKeyringService_StoreGetDelete(t *testing.T) {
	keyring.MockInit()
	service := services.NewKeyringService()
	service.Startup()

	assert.NoError(t, service.StoreApiKey("openai", "sk-test"))

	key, err := service.GetApiKey("openai")
	assert.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	assert.NoError(t, service.DeleteApiKey("openai"))
	_, err = service.GetApiKey("openai")
	assert.Error(t, err)
}

func TestKeyringService_Validation(t *testing.T) {
	keyring.MockInit()
	service := services.NewKeyringService()

	err := service.StoreApiKey("", "sk-test")
	assert.Equal(t, "provider is required", err.Error())

	err = service.StoreApiKey("openai", "")
	assert.Equal(t, "API key is empty", err.Error())

	_, err = service.GetApiKey("")
	assert.Equal(t, "provider is required", err.Error())

	err = service.DeleteApiKey("")
	assert.Equal(t, "provider is required", err.Error())
}

func TestKeyringService_APIKey_PrefersKeychain(t *testing.T) {
	keyring.MockInit()
	service := services.NewKeyringService()

	t.Setenv("OPENAI_API_KEY", "sk-env")
	assert.NoError(t, service.StoreApiKey("openai", "sk-keychain"))

	key, ok := service.APIKey("openai")
	assert.True(t, ok)
	assert.Equal(t, "sk-keychain", key)
}

func TestKeyringService_APIKey_EnvFallbackWritesBack(t *testing.T) {
	keyring.MockInit()
	service := services.NewKeyringService()

	t.Setenv("OPENAI_API_KEY", "sk-env")

	key, ok := service.APIKey("openai")
	assert.True(t, ok)
	assert.Equal(t, "sk-env", key)

	// The fallback hit must now be readable from the secure tier.
	stored, err := service.GetApiKey("openai")
	assert.NoError(t, err)
	assert.Equal(t, "sk-env", stored)
	assert.True(t, service.HasApiKey("openai"))
}

func TestKeyringService_APIKey_MissingEverywhere(t *testing.T) {
	keyring.MockInit()
	service := services.NewKeyringService()

	t.Setenv("OPENAI_API_KEY", "")

	_, ok := service.APIKey("openai")
	assert.False(t, ok)
	assert.False(t, service.HasApiKey("openai"))
}
