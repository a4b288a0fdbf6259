package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BoldMakerAI/ai-candy-generator/internal/config"
	"github.com/BoldMakerAI/ai-candy-generator/internal/events"
	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
	"github.com/BoldMakerAI/ai-candy-generator/internal/platform/gemini"
	"github.com/BoldMakerAI/ai-candy-generator/internal/retry"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	generator    generation.Generator
	eventEmitter *events.InMemoryEventEmitter
}

// newApplication wires the Gemini client, the orchestrator and the event
// handlers.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	client, err := gemini.NewClient(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	orchestrator, err := generation.NewOrchestrator(client, client, logger,
		retry.WithMaxAttempts(cfg.LLM.MaxRetries),
		retry.WithBaseDelay(cfg.LLM.BaseDelay()),
		retry.WithMaxJitter(cfg.LLM.MaxJitter()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	return newApplicationWithGenerator(cfg, logger, orchestrator), nil
}

// newApplicationWithGenerator assembles the application around an existing
// generator.
func newApplicationWithGenerator(cfg *config.Config, logger *slog.Logger, gen generation.Generator) *application {
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewAuditLogHandler(logger))
	emitter.RegisterHandler(events.MetricsHandler{})

	return &application{
		config:       cfg,
		logger:       logger,
		generator:    gen,
		eventEmitter: emitter,
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
