package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"imagevault/internal/models"

	"github.com/google/uuid"
)

const metadataFilename = "images.json"

var (
	// ErrAssetWrite reports a failed binary asset write; the catalog is unchanged.
	ErrAssetWrite = errors.New("failed to write image asset")
	// ErrPersist reports a failed catalog metadata write.
	ErrPersist = errors.New("failed to persist image catalog")
)

// ImageStore owns the durable catalog of generated images. Implementations
// serialize all mutations; reads return snapshots.
type ImageStore interface {
	GetAll() []models.GeneratedImage
	Save(data []byte, prompt string) (*models.GeneratedImage, error)
	Delete(image models.GeneratedImage) error
	ReadAsset(image models.GeneratedImage) ([]byte, error)
}

// FileImageStore keeps the catalog as a JSON array next to one PNG file per
// record. It is the only component that touches those files.
type FileImageStore struct {
	dir          string
	metadataPath string
	mu           sync.RWMutex
	items        []models.GeneratedImage
}

// NewFileImageStore opens (or creates) the store rooted at dir and loads the
// catalog. A missing or malformed metadata file yields an empty catalog.
func NewFileImageStore(dir string) (*FileImageStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileImageStore{
		dir:          dir,
		metadataPath: filepath.Join(dir, metadataFilename),
	}
	s.loadFromDisk()
	return s, nil
}

// loadFromDisk restores the catalog and drops records whose asset file is
// missing, so reads never surface a record pointing at nothing.
func (s *FileImageStore) loadFromDisk() {
	data, err := os.ReadFile(s.metadataPath)
	if err != nil {
		s.items = nil
		return
	}

	var decoded []models.GeneratedImage
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("image store: malformed catalog %s, starting empty: %v", s.metadataPath, err)
		s.items = nil
		return
	}

	items := decoded[:0]
	for _, item := range decoded {
		if _, err := os.Stat(filepath.Join(s.dir, item.Filename)); err != nil {
			log.Printf("image store: dropping record %s, missing asset %s", item.ID, item.Filename)
			continue
		}
		items = append(items, item)
	}
	s.items = items
}

// GetAll returns a snapshot of the catalog sorted by creation date, newest first.
func (s *FileImageStore) GetAll() []models.GeneratedImage {
	s.mu.RLock()
	out := make([]models.GeneratedImage, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Save writes the asset file first and only then the catalog, so a crash at
// any point never leaves a record pointing at a missing file. A failed catalog
// persist rolls back the in-memory append; the written asset stays behind as a
// harmless orphan.
func (s *FileImageStore) Save(data []byte, prompt string) (*models.GeneratedImage, error) {
	if len(data) == 0 {
		return nil, errors.New("image data is required")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("prompt is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	filename := id.String() + ".png"

	if err := writeFileAtomic(s.dir, filepath.Join(s.dir, filename), data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}

	image := models.GeneratedImage{
		ID:        id,
		Prompt:    prompt,
		CreatedAt: time.Now(),
		Filename:  filename,
	}
	s.items = append(s.items, image)

	if err := s.persistLocked(); err != nil {
		s.items = s.items[:len(s.items)-1]
		log.Printf("image store: catalog persist failed, asset %s orphaned", filename)
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return &image, nil
}

// Delete removes the catalog entry and persists before touching the asset
// file, so a reported success means both are gone and a persist failure leaves
// the catalog consistent. Deleting an unknown id is a no-op success.
func (s *FileImageStore) Delete(image models.GeneratedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, item := range s.items {
		if item.ID == image.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if err := s.persistLocked(); err != nil {
		rest := append([]models.GeneratedImage{removed}, s.items[idx:]...)
		s.items = append(s.items[:idx], rest...)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	// The catalog is authoritative at this point; a leftover asset is harmless.
	if err := os.Remove(filepath.Join(s.dir, removed.Filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("image store: failed to remove asset %s: %v", removed.Filename, err)
	}
	return nil
}

// ReadAsset returns the raw bytes of the binary asset for a catalog record.
func (s *FileImageStore) ReadAsset(image models.GeneratedImage) ([]byte, error) {
	if image.Filename == "" {
		return nil, errors.New("image filename is required")
	}
	data, err := os.ReadFile(filepath.Join(s.dir, image.Filename))
	if err != nil {
		return nil, fmt.Errorf("read image asset: %w", err)
	}
	return data, nil
}

// AssetPath resolves the absolute path of a record's binary asset.
func (s *FileImageStore) AssetPath(image models.GeneratedImage) string {
	return filepath.Join(s.dir, image.Filename)
}

func (s *FileImageStore) persistLocked() error {
	items := s.items
	if items == nil {
		items = []models.GeneratedImage{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.dir, s.metadataPath, data)
}

// writeFileAtomic writes data to a temp file in dir and renames it over path,
// so a crash mid-write never leaves a half-written file under the final name.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := func() error {
		if _, err := tmp.Write(data); err != nil {
			return err
		}
		return tmp.Close()
	}()
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize file: %w", err)
	}
	return nil
}
