package generation_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
	"github.com/BoldMakerAI/ai-candy-generator/internal/retry"
)

// fakeText replays scripted text responses, one per call.
type fakeText struct {
	mu      sync.Mutex
	results []textResult
	prompts []string
	schemas []generation.OutputSchema
}

type textResult struct {
	resp *generation.TextResponse
	err  error
}

func (f *fakeText) CompleteText(
	_ context.Context,
	prompt string,
	schema generation.OutputSchema,
) (*generation.TextResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	idx := len(f.prompts) - 1
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	r := f.results[idx]
	return r.resp, r.err
}

func (f *fakeText) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeImage replays scripted image responses, one per call.
type fakeImage struct {
	mu      sync.Mutex
	results []imageResult
	prompts []string
}

type imageResult struct {
	resp *generation.ImageResponse
	err  error
}

func (f *fakeImage) CompleteImage(_ context.Context, prompt string) (*generation.ImageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	idx := len(f.prompts) - 1
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	r := f.results[idx]
	return r.resp, r.err
}

func (f *fakeImage) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func noSleep(context.Context, time.Duration) error { return nil }

func textOK(body string) textResult {
	return textResult{resp: &generation.TextResponse{Text: body}}
}

func imageOK(data []byte) imageResult {
	return imageResult{resp: &generation.ImageResponse{
		Candidates: []generation.Candidate{{
			Parts: []generation.Part{{MIMEType: "image/png", Data: data}},
		}},
	}}
}

const nebulaConcept = `{"name":"Nebula Pop","imagePrompt":"a swirling blue gummy sphere"}`

func newOrchestrator(t *testing.T, text *fakeText, image *fakeImage) *generation.Orchestrator {
	t.Helper()
	o, err := generation.NewOrchestrator(
		text, image,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		retry.WithSleeper(noSleep),
	)
	require.NoError(t, err)
	return o
}

func validRequest(t *testing.T) domain.CandyRequest {
	t.Helper()
	req, err := domain.NewCandyRequest("space, galaxy, blueberry", "Gummy")
	require.NoError(t, err)
	return req
}

func requireGenerationError(t *testing.T, err error, stage generation.Stage, kind error) *generation.Error {
	t.Helper()
	require.Error(t, err)
	var genErr *generation.Error
	require.True(t, errors.As(err, &genErr), "expected *generation.Error, got %T", err)
	assert.Equal(t, stage, genErr.Stage)
	assert.ErrorIs(t, err, kind)
	return genErr
}

func TestNewOrchestrator_RequiresPorts(t *testing.T) {
	t.Parallel()

	_, err := generation.NewOrchestrator(nil, &fakeImage{}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewOrchestrator(&fakeText{}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	o, err := generation.NewOrchestrator(&fakeText{}, &fakeImage{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG fake image bytes")
	text := &fakeText{results: []textResult{textOK(nebulaConcept)}}
	image := &fakeImage{results: []imageResult{imageOK(png)}}
	o := newOrchestrator(t, text, image)

	candy, err := o.Generate(context.Background(), validRequest(t))
	require.NoError(t, err)

	assert.Equal(t, "Nebula Pop", candy.Name)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png), candy.ImageURL)

	require.Len(t, text.prompts, 1)
	assert.Contains(t, text.prompts[0], "- Keywords: space, galaxy, blueberry")
	assert.Contains(t, text.prompts[0], "- Candy Type: Gummy")
	assert.Equal(t, generation.ConceptSchema(), text.schemas[0])

	require.Len(t, image.prompts, 1)
	assert.Equal(t,
		"A single piece of candy. a swirling blue gummy sphere. Centered, isolated on a pure solid white background. Professional product photography, studio lighting, no shadows.",
		image.prompts[0])
}

func TestGenerate_StructuralValidityAcrossCalls(t *testing.T) {
	t.Parallel()

	text := &fakeText{results: []textResult{
		textOK(nebulaConcept),
		textOK(`{"name":"Comet Crunch","imagePrompt":"a jagged silver hard candy"}`),
	}}
	image := &fakeImage{results: []imageResult{imageOK([]byte("one")), imageOK([]byte("two"))}}
	o := newOrchestrator(t, text, image)

	for i := 0; i < 2; i++ {
		candy, err := o.Generate(context.Background(), validRequest(t))
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(candy.Name))
		require.True(t, strings.HasPrefix(candy.ImageURL, domain.PNGDataURIPrefix))
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(candy.ImageURL, domain.PNGDataURIPrefix))
		require.NoError(t, err)
		assert.NotEmpty(t, decoded)
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	t.Parallel()

	text := &fakeText{results: []textResult{textOK(nebulaConcept)}}
	image := &fakeImage{results: []imageResult{imageOK([]byte("x"))}}
	o := newOrchestrator(t, text, image)

	_, err := o.Generate(context.Background(), domain.CandyRequest{Keywords: "  ", CandyType: domain.DefaultCandyType})
	requireGenerationError(t, err, generation.StageRequest, generation.ErrInvalidRequest)
	assert.ErrorIs(t, err, domain.ErrEmptyKeywords)
	assert.Zero(t, text.calls())
}

func TestGenerate_TextStageFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		result      textResult
		kind        error
		message     string
		wantAttempt int
	}{
		{
			name:        "overloaded backend exhausts retries",
			result:      textResult{err: errors.New("The model is overloaded. Please try again later.")},
			kind:        generation.ErrBackendBusy,
			message:     "The AI model is currently busy. Please try again in a moment.",
			wantAttempt: retry.DefaultMaxAttempts,
		},
		{
			name:        "503 in JSON envelope exhausts retries",
			result:      textResult{err: errors.New(`{"error":{"code":503,"message":"Service Unavailable","status":"UNAVAILABLE"}}`)},
			kind:        generation.ErrBackendBusy,
			message:     "The AI model is currently busy. Please try again in a moment.",
			wantAttempt: retry.DefaultMaxAttempts,
		},
		{
			name:        "non-retryable error uses nested message",
			result:      textResult{err: errors.New(`{"error":{"code":400,"message":"Invalid argument: foo","status":"INVALID_ARGUMENT"}}`)},
			kind:        generation.ErrBackendFailure,
			message:     "Text Generation Error: Invalid argument: foo",
			wantAttempt: 1,
		},
		{
			name:        "safety block",
			result:      textResult{resp: &generation.TextResponse{BlockReason: "SAFETY"}},
			kind:        generation.ErrContentBlocked,
			message:     "Your request was blocked for safety reasons (SAFETY). Please try a different description.",
			wantAttempt: 1,
		},
		{
			name:        "empty body",
			result:      textOK(""),
			kind:        generation.ErrInvalidResponse,
			message:     "The AI failed to generate a valid candy concept structure. Please try again.",
			wantAttempt: 1,
		},
		{
			name:        "non-JSON body",
			result:      textOK("Here is your candy: Nebula Pop"),
			kind:        generation.ErrInvalidResponse,
			message:     "The AI failed to generate a valid candy concept structure. Please try again.",
			wantAttempt: 1,
		},
		{
			name:        "nil response",
			result:      textResult{},
			kind:        generation.ErrInvalidResponse,
			message:     "The AI failed to generate a valid candy concept structure. Please try again.",
			wantAttempt: 1,
		},
		{
			name:        "missing image prompt",
			result:      textOK(`{"name":"Nebula Pop"}`),
			kind:        generation.ErrInvalidResponse,
			message:     "The AI generated an incomplete candy concept. Please try again.",
			wantAttempt: 1,
		},
		{
			name:        "blank name",
			result:      textOK(`{"name":"   ","imagePrompt":"a swirling blue gummy sphere"}`),
			kind:        generation.ErrInvalidResponse,
			message:     "The AI generated an incomplete candy concept. Please try again.",
			wantAttempt: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := &fakeText{results: []textResult{tt.result}}
			image := &fakeImage{results: []imageResult{imageOK([]byte("x"))}}
			o := newOrchestrator(t, text, image)

			candy, err := o.Generate(context.Background(), validRequest(t))
			assert.Nil(t, candy)
			genErr := requireGenerationError(t, err, generation.StageText, tt.kind)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.message, genErr.Message)
			assert.Equal(t, tt.wantAttempt, text.calls())
			assert.Zero(t, image.calls(), "image stage must not start after a text failure")
		})
	}
}

func TestGenerate_TextRecoversAfterOverload(t *testing.T) {
	t.Parallel()

	text := &fakeText{results: []textResult{
		{err: errors.New("503 Service Unavailable")},
		textOK(nebulaConcept),
	}}
	image := &fakeImage{results: []imageResult{imageOK([]byte("x"))}}
	o := newOrchestrator(t, text, image)

	candy, err := o.Generate(context.Background(), validRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "Nebula Pop", candy.Name)
	assert.Equal(t, 2, text.calls())
}

func TestGenerate_ImageStageFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		result      imageResult
		kind        error
		message     string
		wantAttempt int
	}{
		{
			name:        "overloaded backend exhausts retries",
			result:      imageResult{err: errors.New("model is OVERLOADED")},
			kind:        generation.ErrBackendBusy,
			message:     "The AI image generator is currently busy. Please try again in a moment.",
			wantAttempt: retry.DefaultMaxAttempts,
		},
		{
			name:        "non-retryable error",
			result:      imageResult{err: errors.New("quota exceeded")},
			kind:        generation.ErrBackendFailure,
			message:     "Image Generation Error: quota exceeded",
			wantAttempt: 1,
		},
		{
			name:        "no candidates with block reason",
			result:      imageResult{resp: &generation.ImageResponse{BlockReason: "PROHIBITED_CONTENT"}},
			kind:        generation.ErrContentBlocked,
			message:     "Image generation was blocked for safety reasons (PROHIBITED_CONTENT). Please try a different candy idea.",
			wantAttempt: 1,
		},
		{
			name:        "no candidates",
			result:      imageResult{resp: &generation.ImageResponse{}},
			kind:        generation.ErrInvalidResponse,
			message:     "Failed to generate a candy image. The AI returned no candidates.",
			wantAttempt: 1,
		},
		{
			name: "candidate without inline data",
			result: imageResult{resp: &generation.ImageResponse{
				Candidates: []generation.Candidate{{Parts: []generation.Part{{Text: "I cannot draw that."}}}},
			}},
			kind:        generation.ErrInvalidResponse,
			message:     "Failed to generate a candy image. The response did not contain image data, which could be due to a safety filter.",
			wantAttempt: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := &fakeText{results: []textResult{textOK(nebulaConcept)}}
			image := &fakeImage{results: []imageResult{tt.result}}
			o := newOrchestrator(t, text, image)

			candy, err := o.Generate(context.Background(), validRequest(t))
			assert.Nil(t, candy)
			requireGenerationError(t, err, generation.StageImage, tt.kind)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, 1, text.calls())
			assert.Equal(t, tt.wantAttempt, image.calls())
		})
	}
}

func TestGenerate_UsesFirstInlinePayload(t *testing.T) {
	t.Parallel()

	text := &fakeText{results: []textResult{textOK(nebulaConcept)}}
	image := &fakeImage{results: []imageResult{{resp: &generation.ImageResponse{
		Candidates: []generation.Candidate{{Parts: []generation.Part{
			{Text: "Here is your candy"},
			{MIMEType: "image/png", Data: []byte("first")},
			{MIMEType: "image/png", Data: []byte("second")},
		}}},
	}}}}
	o := newOrchestrator(t, text, image)

	candy, err := o.Generate(context.Background(), validRequest(t))
	require.NoError(t, err)
	assert.Equal(t, domain.PNGDataURIPrefix+base64.StdEncoding.EncodeToString([]byte("first")), candy.ImageURL)
}

func TestGenerate_ErrorHidesProviderDetails(t *testing.T) {
	t.Parallel()

	cause := errors.New(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	text := &fakeText{results: []textResult{{err: cause}}}
	o := newOrchestrator(t, text, &fakeImage{results: []imageResult{imageOK([]byte("x"))}})

	_, err := o.Generate(context.Background(), validRequest(t))
	genErr := requireGenerationError(t, err, generation.StageText, generation.ErrBackendFailure)
	assert.Equal(t, "Text Generation Error: API key not valid", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Same(t, cause, genErr.Cause)
}

func TestGenerate_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	text := &fakeText{results: []textResult{{err: errors.New("503 overloaded")}}}
	o, err := generation.NewOrchestrator(
		text, &fakeImage{results: []imageResult{imageOK([]byte("x"))}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		retry.WithSleeper(func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)
	require.NoError(t, err)

	_, err = o.Generate(ctx, validRequest(t))
	requireGenerationError(t, err, generation.StageText, generation.ErrBackendBusy)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, text.calls())
}

// blockingText waits for the call context to end and returns its error.
type blockingText struct{}

func (blockingText) CompleteText(ctx context.Context, _ string, _ generation.OutputSchema) (*generation.TextResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// blockingImage waits for the call context to end and returns its error.
type blockingImage struct{}

func (blockingImage) CompleteImage(ctx context.Context, _ string) (*generation.ImageResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestGenerate_DeadlineExpiresDuringCall(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text stage", func(t *testing.T) {
		t.Parallel()

		o, err := generation.NewOrchestrator(blockingText{}, &fakeImage{results: []imageResult{imageOK([]byte("x"))}},
			logger, retry.WithSleeper(noSleep))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err = o.Generate(ctx, validRequest(t))
		genErr := requireGenerationError(t, err, generation.StageText, generation.ErrTimeout)
		assert.Equal(t, "The request timed out. Please try again.", genErr.Message)
		assert.Equal(t, "timeout", genErr.KindName())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, generation.ErrBackendFailure)
	})

	t.Run("image stage", func(t *testing.T) {
		t.Parallel()

		text := &fakeText{results: []textResult{textOK(nebulaConcept)}}
		o, err := generation.NewOrchestrator(text, blockingImage{}, logger, retry.WithSleeper(noSleep))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err = o.Generate(ctx, validRequest(t))
		requireGenerationError(t, err, generation.StageImage, generation.ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
