package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/BoldMakerAI/ai-candy-generator/internal/api/shared"
	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
	"github.com/BoldMakerAI/ai-candy-generator/internal/events"
	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
	"github.com/BoldMakerAI/ai-candy-generator/internal/platform/logger"
	"github.com/BoldMakerAI/ai-candy-generator/internal/watermark"
)

// CandyHandler handles candy-related HTTP requests
type CandyHandler struct {
	generator       generation.Generator
	emitter         events.EventEmitter
	watermarkText   string
	generateTimeout time.Duration
}

// CandyHandlerOption customizes a CandyHandler.
type CandyHandlerOption func(*CandyHandler)

// WithGenerateTimeout bounds each generation. The handler itself answers 504
// when the deadline expires. Zero disables the bound.
func WithGenerateTimeout(d time.Duration) CandyHandlerOption {
	return func(h *CandyHandler) {
		h.generateTimeout = d
	}
}

// NewCandyHandler creates a new CandyHandler. emitter may be nil.
func NewCandyHandler(
	generator generation.Generator,
	emitter events.EventEmitter,
	watermarkText string,
	opts ...CandyHandlerOption,
) *CandyHandler {
	if watermarkText == "" {
		watermarkText = watermark.DefaultText
	}
	h := &CandyHandler{
		generator:     generator,
		emitter:       emitter,
		watermarkText: watermarkText,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GenerateCandy handles POST /api/candies requests
func (h *CandyHandler) GenerateCandy(w http.ResponseWriter, r *http.Request) {
	var req GenerateCandyRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	candyReq, err := domain.NewCandyRequest(req.Keywords, req.CandyType)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	ctx := r.Context()
	if h.generateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.generateTimeout)
		defer cancel()
	}

	start := time.Now()
	candy, err := h.generator.Generate(ctx, candyReq)
	h.emit(r.Context(), candyReq, candy, err, time.Since(start))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CandyResponse{
		Name:     candy.Name,
		ImageURL: candy.ImageURL,
	})
}

// ListCandyTypes handles GET /api/candy-types requests
func (h *CandyHandler) ListCandyTypes(w http.ResponseWriter, r *http.Request) {
	all := domain.AllCandyTypes()
	types := make([]string, 0, len(all))
	for _, t := range all {
		types = append(types, t.String())
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CandyTypesResponse{
		Types:   types,
		Default: domain.DefaultCandyType.String(),
	})
}

// DownloadCandy handles POST /api/candies/download requests. It returns the
// candy image as a watermarked PNG attachment.
func (h *CandyHandler) DownloadCandy(w http.ResponseWriter, r *http.Request) {
	var req DownloadCandyRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	img, err := watermark.DecodeDataURI(req.ImageURL)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	marked, err := watermark.Apply(img, h.watermarkText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", watermark.FileName(req.Name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(marked)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(marked); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "failed to write image response", "error", err)
	}
}

// emit publishes the outcome of one generation. Emitter failures are logged
// and never change the response.
func (h *CandyHandler) emit(
	ctx context.Context,
	req domain.CandyRequest,
	candy *domain.Candy,
	genErr error,
	elapsed time.Duration,
) {
	if h.emitter == nil {
		return
	}

	payload := events.GenerationPayload{
		TraceID:    shared.GetTraceID(ctx),
		CandyType:  req.CandyType.String(),
		DurationMS: elapsed.Milliseconds(),
	}
	eventType := events.TypeCandyGenerated
	if genErr != nil {
		eventType = events.TypeCandyFailed
		payload.Message = GetSafeErrorMessage(genErr)
		var e *generation.Error
		if errors.As(genErr, &e) {
			payload.Stage = string(e.Stage)
			payload.Kind = e.KindName()
		}
	} else if candy != nil {
		payload.CandyName = candy.Name
	}

	event, err := events.NewGenerationEvent(eventType, payload)
	if err == nil {
		err = h.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "failed to emit generation event", "error", err)
	}
}
