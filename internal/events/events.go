package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// Event types.
const (
	TypeCandyGenerated = "candy.generated"
	TypeCandyFailed    = "candy.failed"
)

// GenerationEvent records the outcome of one candy generation.
type GenerationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is TypeCandyGenerated or TypeCandyFailed
	Type string `json:"type"`

	// Payload contains the outcome details serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// GenerationPayload is the payload of both generation event types. Failure
// fields are empty on success and CandyName is empty on failure.
type GenerationPayload struct {
	TraceID    string `json:"trace_id,omitempty"`
	CandyType  string `json:"candy_type"`
	CandyName  string `json:"candy_name,omitempty"`
	Stage      string `json:"stage,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"message,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *GenerationEvent) UnmarshalPayload(v interface{}) error {
	return sonic.Unmarshal(e.Payload, v)
}

// NewGenerationEvent creates a new GenerationEvent with the specified type and payload.
func NewGenerationEvent(eventType string, payload interface{}) (*GenerationEvent, error) {
	payloadBytes, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &GenerationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *GenerationEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *GenerationEvent) error
}
