package services

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "imagevault"

func GetOS() string {
	return runtime.GOOS
}

// KeyringService stores API keys in the OS keychain, with an environment
// fallback so a bundled or .env-provided key works out of the box.
type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) Startup() {
}

func (s *KeyringService) StoreApiKey(provider string, apiKey string) error {
	if apiKey == "" {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}

	return keyring.Set(serviceName, provider, apiKey)
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	return keyring.Get(serviceName, provider)
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Delete(serviceName, provider)
}

// HasApiKey reports whether a key resolves for the provider through either tier.
func (s *KeyringService) HasApiKey(provider string) bool {
	_, ok := s.APIKey(provider)
	return ok
}

// APIKey resolves a key at call time: keychain first, then the provider's
// environment variable (e.g. OPENAI_API_KEY). An environment hit is written
// back into the keychain so later lookups resolve from the secure tier.
func (s *KeyringService) APIKey(provider string) (string, bool) {
	if provider == "" {
		return "", false
	}

	if key, err := keyring.Get(serviceName, provider); err == nil && key != "" {
		return key, true
	}

	envName := strings.ToUpper(provider) + "_API_KEY"
	key := strings.TrimSpace(os.Getenv(envName))
	if key == "" {
		return "", false
	}

	// Best effort; the env value still serves this process if the set fails.
	_ = keyring.Set(serviceName, provider, key)
	return key, true
}
