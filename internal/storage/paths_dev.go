//go:build !prod

package storage

// GetDefaultImagesDir returns the image directory for development mode.
// In dev mode, images are stored in the project root for easy inspection.
func GetDefaultImagesDir() string {
	return "images"
}
