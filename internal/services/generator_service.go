package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"imagevault/internal/events"
	"imagevault/internal/models"
	"imagevault/internal/openai"
	"imagevault/internal/storage"
)

// GeneratorState is the snapshot handed to the frontend after every operation.
type GeneratorState struct {
	Prompt    string                  `json:"prompt"`
	IsLoading bool                    `json:"isLoading"`
	LastError string                  `json:"lastError"`
	Images    []models.GeneratedImage `json:"images"`
}

// GeneratorService sequences validate -> generate -> save -> refresh and owns
// the user-facing loading/error state. It allows at most one in-flight
// generation at a time.
type GeneratorService struct {
	ctx       context.Context
	generator openai.Generator
	store     storage.ImageStore

	mu        sync.Mutex
	prompt    string
	isLoading bool
	lastError string
	images    []models.GeneratedImage
}

func NewGeneratorService(generator openai.Generator, store storage.ImageStore) *GeneratorService {
	return &GeneratorService{generator: generator, store: store}
}

func (s *GeneratorService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *GeneratorService) context() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// State returns a copy of the current state.
func (s *GeneratorService) State() GeneratorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *GeneratorService) stateLocked() GeneratorState {
	images := make([]models.GeneratedImage, len(s.images))
	copy(images, s.images)
	return GeneratorState{
		Prompt:    s.prompt,
		IsLoading: s.isLoading,
		LastError: s.lastError,
		Images:    images,
	}
}

func (s *GeneratorService) SetPrompt(prompt string) {
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()
}

// LoadImages replaces the cached listing with the store's current catalog.
func (s *GeneratorService) LoadImages() []models.GeneratedImage {
	images := s.store.GetAll()
	s.mu.Lock()
	s.images = images
	s.mu.Unlock()
	return images
}

// Generate runs one prompt through the generation client and the image store.
// It is a no-op while a generation is already in flight or when the trimmed
// prompt is empty. When it returns, either the catalog holds the new image or
// LastError is set.
func (s *GeneratorService) Generate(size string) (state GeneratorState) {
	s.mu.Lock()
	trimmed := strings.TrimSpace(s.prompt)
	if trimmed == "" || s.isLoading {
		state = s.stateLocked()
		s.mu.Unlock()
		return state
	}
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()

	ctx := s.context()
	events.Emit(ctx, events.GenerationStarted, events.NewInfo("generating image"))

	// Scoped cleanup: loading always drops, and the returned snapshot is
	// taken after it does, whatever path exits the function.
	defer func() {
		s.mu.Lock()
		s.isLoading = false
		state = s.stateLocked()
		s.mu.Unlock()
	}()

	data, err := s.generator.Generate(ctx, trimmed, size)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	image, err := s.store.Save(data, trimmed)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	s.mu.Lock()
	s.images = s.store.GetAll()
	s.prompt = ""
	s.mu.Unlock()

	events.Emit(ctx, events.GenerationDone, events.NewSuccess("saved image "+image.ID.String()))
	return
}

// DeleteAt removes the records at the given indices of the currently displayed
// list. Deletions are best effort: the first failure is kept as LastError,
// remaining indices are still attempted, and the listing is refreshed once at
// the end.
func (s *GeneratorService) DeleteAt(indices []int) GeneratorState {
	s.mu.Lock()
	current := make([]models.GeneratedImage, len(s.images))
	copy(current, s.images)
	s.mu.Unlock()

	var firstErr error
	for _, idx := range indices {
		if idx < 0 || idx >= len(current) {
			continue
		}
		if err := s.store.Delete(current[idx]); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.mu.Lock()
	s.images = s.store.GetAll()
	if firstErr != nil {
		s.lastError = errorMessage(firstErr)
	}
	state := s.stateLocked()
	s.mu.Unlock()

	if firstErr != nil {
		events.Emit(s.context(), events.GenerationFailed, events.NewError(errorMessage(firstErr)))
	} else {
		events.Emit(s.context(), events.CatalogChanged, events.NewInfo("images deleted"))
	}
	return state
}

// ImageDataURL returns a data URL for a stored image so the frontend can
// render it without filesystem access.
func (s *GeneratorService) ImageDataURL(id string) (string, error) {
	s.mu.Lock()
	var found *models.GeneratedImage
	for i := range s.images {
		if s.images[i].ID.String() == id {
			found = &s.images[i]
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return "", fmt.Errorf("unknown image id %s", id)
	}
	data, err := s.store.ReadAsset(*found)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (s *GeneratorService) fail(ctx context.Context, err error) {
	msg := errorMessage(err)
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
	events.Emit(ctx, events.GenerationFailed, events.NewError(msg))
}

// errorMessage is the single translation point from failure kind to a
// user-facing message.
func errorMessage(err error) string {
	var apiErr *openai.APIError
	var transportErr *openai.TransportError

	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		return "Missing OpenAI API key. Enter it in Settings."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Server error (%d): %s", apiErr.StatusCode, apiErr.Body)
	case errors.As(err, &transportErr):
		return "Could not reach the image service. Check your connection and try again."
	case errors.Is(err, openai.ErrDecode):
		return "Failed to decode image response."
	case errors.Is(err, openai.ErrEmptyResult):
		return "No image data returned."
	case errors.Is(err, openai.ErrUnsupportedSize):
		return "The selected image size is not supported."
	case errors.Is(err, storage.ErrAssetWrite):
		return "Failed to save the image to disk."
	case errors.Is(err, storage.ErrPersist):
		return "Failed to update the image catalog."
	default:
		return err.Error()
	}
}
