package generation

import (
	"context"

	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
)

// Generator produces a candy from a request. This interface is the boundary
// between the delivery layers (HTTP, CLI) and the generation pipeline.
type Generator interface {
	// Generate runs the whole pipeline. It either returns a complete candy
	// or an *Error; partial results are never returned.
	Generate(ctx context.Context, req domain.CandyRequest) (*domain.Candy, error)
}

// TextCompleter is the structured text capability of the AI backend.
type TextCompleter interface {
	// CompleteText sends prompt and asks for JSON output matching schema.
	CompleteText(ctx context.Context, prompt string, schema OutputSchema) (*TextResponse, error)
}

// ImageCompleter is the image capability of the AI backend.
type ImageCompleter interface {
	// CompleteImage sends prompt and asks for image output only.
	CompleteImage(ctx context.Context, prompt string) (*ImageResponse, error)
}

// TextResponse is the backend-neutral result of a text completion.
type TextResponse struct {
	// Text is the concatenated text payload of the first candidate.
	Text string

	// BlockReason is set when the prompt was refused by a safety filter.
	BlockReason string
}

// ImageResponse is the backend-neutral result of an image completion.
type ImageResponse struct {
	Candidates  []Candidate
	BlockReason string
}

// Candidate is one alternative returned by the backend.
type Candidate struct {
	Parts []Part
}

// Part is a single piece of candidate content. Data holds inline binary
// content such as image bytes; it is empty for text parts.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}
