package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BoldMakerAI/ai-candy-generator/internal/metrics"
)

// AuditLogHandler writes one structured log line per generation event.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates an AuditLogHandler writing to logger.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.With("component", "generation_audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *GenerationEvent) error {
	var p GenerationPayload
	if err := event.UnmarshalPayload(&p); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}

	attrs := []any{
		"event_id", event.ID.String(),
		"event_type", event.Type,
		"trace_id", p.TraceID,
		"candy_type", p.CandyType,
		"duration_ms", p.DurationMS,
	}

	switch event.Type {
	case TypeCandyGenerated:
		h.logger.InfoContext(ctx, "candy generated", append(attrs, "candy_name", p.CandyName)...)
	case TypeCandyFailed:
		h.logger.WarnContext(ctx, "candy generation failed",
			append(attrs, "stage", p.Stage, "kind", p.Kind, "message", p.Message)...)
	default:
		h.logger.DebugContext(ctx, "ignoring unknown event type", attrs...)
	}
	return nil
}

// MetricsHandler counts generation outcomes.
type MetricsHandler struct{}

// HandleEvent implements EventHandler.
func (MetricsHandler) HandleEvent(_ context.Context, event *GenerationEvent) error {
	switch event.Type {
	case TypeCandyGenerated:
		metrics.CandyOutcome(metrics.OutcomeSuccess)
	case TypeCandyFailed:
		metrics.CandyOutcome(metrics.OutcomeFailure)
	}
	return nil
}
