package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter fans generation events out synchronously to handlers
// registered in memory, in registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "generation_event_emitter"),
	}
}

// RegisterHandler adds handler to the end of the dispatch order.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered generation event handler",
		"handler", fmt.Sprintf("%T", handler),
		"handler_count", len(e.handlers))
}

// EmitEvent delivers event to every registered handler. A failing handler
// does not stop delivery; all handler errors are joined, each prefixed with
// the handler type.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *GenerationEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	log := e.logger.With(dispatchAttrs(event)...)
	if len(handlers) == 0 {
		log.DebugContext(ctx, "no handlers registered for generation event")
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		name := fmt.Sprintf("%T", handler)
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.ErrorContext(ctx, "generation event handler failed",
				"handler", name,
				"error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	log.DebugContext(ctx, "generation event dispatched",
		"handler_count", len(handlers),
		"failed_handlers", len(errs))
	return errors.Join(errs...)
}

// dispatchAttrs identifies event in logs. Failed generations also carry the
// stage and kind. An undecodable payload is still dispatched.
func dispatchAttrs(event *GenerationEvent) []any {
	attrs := []any{
		"event_id", event.ID,
		"event_type", event.Type,
	}

	var payload GenerationPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return append(attrs, "payload_error", err.Error())
	}
	if payload.TraceID != "" {
		attrs = append(attrs, "trace_id", payload.TraceID)
	}
	if payload.Stage != "" {
		attrs = append(attrs, "stage", payload.Stage)
	}
	if payload.Kind != "" {
		attrs = append(attrs, "kind", payload.Kind)
	}
	return attrs
}
