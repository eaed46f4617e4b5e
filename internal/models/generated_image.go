package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedImage is one catalog record describing a generated image. The JSON
// tags define the on-disk metadata format; Filename points at the binary asset
// next to the catalog file.
type GeneratedImage struct {
	ID        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"date"`
	Filename  string    `json:"filename"`
}
