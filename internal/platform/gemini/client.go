package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/BoldMakerAI/ai-candy-generator/internal/config"
	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
	"github.com/BoldMakerAI/ai-candy-generator/internal/redact"
)

const jsonMIMEType = "application/json"

// Client calls the Gemini API for structured text and for images.
type Client struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	textModel  string
	imageModel string
}

var (
	_ generation.TextCompleter  = (*Client)(nil)
	_ generation.ImageCompleter = (*Client)(nil)
)

// NewClient creates a new Gemini client with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model names and an optional base URL
//
// Returns:
//   - A properly initialized Client or an error if initialization fails
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.TextModel == "" || cfg.ImageModel == "" {
		return nil, fmt.Errorf("%w: text and image model names cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	return &Client{
		logger:     logger.With(slog.String("component", "gemini_client")),
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}, nil
}

// CompleteText asks the text model for a JSON object matching schema.
func (c *Client) CompleteText(
	ctx context.Context,
	prompt string,
	schema generation.OutputSchema,
) (*generation.TextResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "Making Gemini text call",
		"model", c.textModel,
		"prompt_length", len(prompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   toGenaiSchema(schema),
	})
	if err != nil {
		c.logger.DebugContext(ctx, "Gemini text call failed",
			"model", c.textModel,
			"error", redact.Error(err))
		return nil, err
	}

	out := toTextResponse(resp)
	c.logger.DebugContext(ctx, "Gemini text call completed",
		"model", c.textModel,
		"text_length", len(out.Text),
		"block_reason", out.BlockReason)
	return out, nil
}

// CompleteImage asks the image model for image output only.
func (c *Client) CompleteImage(ctx context.Context, prompt string) (*generation.ImageResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "Making Gemini image call",
		"model", c.imageModel,
		"prompt_length", len(prompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	})
	if err != nil {
		c.logger.DebugContext(ctx, "Gemini image call failed",
			"model", c.imageModel,
			"error", redact.Error(err))
		return nil, err
	}

	out := toImageResponse(resp)
	c.logger.DebugContext(ctx, "Gemini image call completed",
		"model", c.imageModel,
		"candidates", len(out.Candidates),
		"block_reason", out.BlockReason)
	return out, nil
}
