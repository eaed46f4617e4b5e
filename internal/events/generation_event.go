package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	GenerationStarted = "events:generation:started"
	GenerationDone    = "events:generation:done"
	GenerationFailed  = "events:generation:failed"
	CatalogChanged    = "events:catalog:changed"
)

// GenerationEvent is a simple struct representing a backend event payload
type GenerationEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func CreateGenerationEvent(eventType EventType, message string) GenerationEvent {
	return GenerationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info GenerationEvent.
func NewInfo(message string) GenerationEvent {
	return CreateGenerationEvent(EventInfo, message)
}

// NewError creates an error GenerationEvent.
func NewError(message string) GenerationEvent {
	return CreateGenerationEvent(EventError, message)
}

// NewSuccess creates a success GenerationEvent.
func NewSuccess(message string) GenerationEvent {
	return CreateGenerationEvent(EventSuccess, message)
}
