//go:build prod

package storage

import (
	"log"
	"os"
	"path/filepath"
)

// GetDefaultImagesDir returns the image directory for production mode.
// In production, images live in the user's config directory.
func GetDefaultImagesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Warning: Failed to get user config dir: %v. Using fallback.", err)
		return "images"
	}

	appDir := filepath.Join(configDir, "imagevault", "images")

	err = os.MkdirAll(appDir, 0755)
	if err != nil {
		log.Printf("Warning: Failed to create app config dir: %v. Using fallback.", err)
		return "images"
	}

	return appDir
}
