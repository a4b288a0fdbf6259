package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/BoldMakerAI/ai-candy-generator/internal/apierror"
	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
	"github.com/BoldMakerAI/ai-candy-generator/internal/metrics"
	"github.com/BoldMakerAI/ai-candy-generator/internal/redact"
	"github.com/BoldMakerAI/ai-candy-generator/internal/retry"
)

// Retry operation names, also used as metric labels.
const (
	OperationText  = "text_generation"
	OperationImage = "image_generation"
)

// Orchestrator runs the concept stage and the image stage in order.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	text      TextCompleter
	image     ImageCompleter
	logger    *slog.Logger
	retryOpts []retry.Option
}

// Orchestrator implements the Generator interface.
var _ Generator = (*Orchestrator)(nil)

// NewOrchestrator wires the pipeline to its backend ports. retryOpts are
// applied to both stages after the orchestrator's own defaults.
func NewOrchestrator(
	text TextCompleter,
	image ImageCompleter,
	logger *slog.Logger,
	retryOpts ...retry.Option,
) (*Orchestrator, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: text completer cannot be nil", ErrInvalidConfig)
	}
	if image == nil {
		return nil, fmt.Errorf("%w: image completer cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		text:      text,
		image:     image,
		logger:    logger.With(slog.String("component", "candy_orchestrator")),
		retryOpts: retryOpts,
	}, nil
}

// Generate invents a candy concept for req and renders its image.
func (o *Orchestrator) Generate(ctx context.Context, req domain.CandyRequest) (*domain.Candy, error) {
	if err := req.Validate(); err != nil {
		return nil, newError(StageRequest, ErrInvalidRequest, err.Error(), err)
	}

	log := o.logger.With(slog.String("candy_type", req.CandyType.String()))
	log.InfoContext(ctx, "generating candy concept", slog.Int("keywords_length", len(req.Keywords)))

	start := time.Now()
	concept, err := o.generateConcept(ctx, req)
	if err != nil {
		metrics.GenerationStage(string(StageText), metrics.OutcomeFailure, time.Since(start))
		o.logFailure(ctx, log, err)
		return nil, err
	}
	metrics.GenerationStage(string(StageText), metrics.OutcomeSuccess, time.Since(start))

	log.InfoContext(ctx, "generating candy image", slog.String("candy_name", concept.Name))

	start = time.Now()
	png, err := o.generateImage(ctx, concept)
	if err != nil {
		metrics.GenerationStage(string(StageImage), metrics.OutcomeFailure, time.Since(start))
		o.logFailure(ctx, log, err)
		return nil, err
	}
	metrics.GenerationStage(string(StageImage), metrics.OutcomeSuccess, time.Since(start))

	candy, err := domain.NewCandy(concept.Name, png)
	if err != nil {
		genErr := newError(StageImage, ErrInvalidResponse, msgNoImageData, err)
		o.logFailure(ctx, log, genErr)
		return nil, genErr
	}

	log.InfoContext(ctx, "candy generated",
		slog.String("candy_name", candy.Name),
		slog.Int("image_bytes", len(png)))
	return candy, nil
}

func (o *Orchestrator) generateConcept(ctx context.Context, req domain.CandyRequest) (domain.CandyConcept, error) {
	prompt := BuildConceptPrompt(req)
	schema := ConceptSchema()

	resp, err := retry.Do(ctx, func(ctx context.Context) (*TextResponse, error) {
		return o.text.CompleteText(ctx, prompt, schema)
	}, o.retryOptions(OperationText)...)
	if err != nil {
		if timedOut(ctx, err) {
			return domain.CandyConcept{}, newError(StageText, ErrTimeout, msgTimeout, err)
		}
		c := apierror.Classify(err)
		if c.Retryable {
			return domain.CandyConcept{}, newError(StageText, ErrBackendBusy, msgTextBusy, err)
		}
		return domain.CandyConcept{}, newError(StageText, ErrBackendFailure, msgTextErrorPrefix+c.Message, err)
	}
	if resp == nil {
		return domain.CandyConcept{}, newError(StageText, ErrInvalidResponse, msgInvalidStructure, nil)
	}

	if resp.BlockReason != "" {
		return domain.CandyConcept{}, newError(StageText, ErrContentBlocked,
			fmt.Sprintf(msgTextBlocked, resp.BlockReason), nil)
	}

	return parseConcept(resp.Text)
}

// parseConcept decodes the model's JSON body into a validated concept.
func parseConcept(body string) (domain.CandyConcept, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.CandyConcept{}, newError(StageText, ErrInvalidResponse, msgInvalidStructure,
			errors.New("empty response body"))
	}

	var concept domain.CandyConcept
	if err := sonic.UnmarshalString(body, &concept); err != nil {
		return domain.CandyConcept{}, newError(StageText, ErrInvalidResponse, msgInvalidStructure, err)
	}

	if err := concept.Validate(); err != nil {
		return domain.CandyConcept{}, newError(StageText, ErrInvalidResponse, msgIncompleteConcept, err)
	}

	concept.Name = strings.TrimSpace(concept.Name)
	concept.ImagePrompt = strings.TrimSpace(concept.ImagePrompt)
	return concept, nil
}

func (o *Orchestrator) generateImage(ctx context.Context, concept domain.CandyConcept) ([]byte, error) {
	prompt := BuildImagePrompt(concept)

	resp, err := retry.Do(ctx, func(ctx context.Context) (*ImageResponse, error) {
		return o.image.CompleteImage(ctx, prompt)
	}, o.retryOptions(OperationImage)...)
	if err != nil {
		if timedOut(ctx, err) {
			return nil, newError(StageImage, ErrTimeout, msgTimeout, err)
		}
		c := apierror.Classify(err)
		if c.Retryable {
			return nil, newError(StageImage, ErrBackendBusy, msgImageBusy, err)
		}
		return nil, newError(StageImage, ErrBackendFailure, msgImageErrorPrefix+c.Message, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.BlockReason != "" {
			return nil, newError(StageImage, ErrContentBlocked,
				fmt.Sprintf(msgImageBlocked, resp.BlockReason), nil)
		}
		return nil, newError(StageImage, ErrInvalidResponse, msgNoCandidates, nil)
	}

	data := FirstInlineData(resp.Candidates[0])
	if len(data) == 0 {
		return nil, newError(StageImage, ErrInvalidResponse, msgNoImageData, nil)
	}
	return data, nil
}

// FirstInlineData returns the first non-empty inline payload of c in part
// order, or nil.
func FirstInlineData(c Candidate) []byte {
	for _, part := range c.Parts {
		if len(part.Data) > 0 {
			return part.Data
		}
	}
	return nil
}

// timedOut reports whether a stage failed because the caller's deadline
// expired, either as the call error itself or on ctx.
func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func (o *Orchestrator) retryOptions(operation string) []retry.Option {
	opts := []retry.Option{
		retry.WithLogger(o.logger),
		retry.WithOperation(operation),
		retry.WithOnRetry(func(int, time.Duration, error) {
			metrics.RetryAttempt(operation)
		}),
	}
	return append(opts, o.retryOpts...)
}

func (o *Orchestrator) logFailure(ctx context.Context, log *slog.Logger, err error) {
	var genErr *Error
	if !errors.As(err, &genErr) {
		log.ErrorContext(ctx, "candy generation failed", slog.String("error", redact.Error(err)))
		return
	}

	attrs := []any{
		slog.String("stage", string(genErr.Stage)),
		slog.String("kind", genErr.KindName()),
		slog.String("message", genErr.Message),
	}
	if genErr.Cause != nil {
		attrs = append(attrs, slog.String("cause", redact.Error(genErr.Cause)))
	}

	if errors.Is(genErr, ErrContentBlocked) || errors.Is(genErr, ErrInvalidRequest) {
		log.WarnContext(ctx, "candy generation rejected", attrs...)
		return
	}
	log.ErrorContext(ctx, "candy generation failed", attrs...)
}
