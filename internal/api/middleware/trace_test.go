package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BoldMakerAI/ai-candy-generator/internal/api/shared"
	"github.com/BoldMakerAI/ai-candy-generator/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	ctx, buf := logger.NewLogCaptureContext(t)

	var seenTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/candy-types", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	TraceMiddleware(next).ServeHTTP(rec, req)

	require.Len(t, seenTraceID, 32)
	assert.Equal(t, seenTraceID, rec.Header().Get(shared.TraceIDHeader))
	logger.AssertLogField(t, buf, "trace_id", seenTraceID)
	logger.AssertLogContains(t, buf, "inside handler")
}

func TestTraceMiddleware_UniquePerRequest(t *testing.T) {
	t.Parallel()

	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, first.Header().Get(shared.TraceIDHeader), second.Header().Get(shared.TraceIDHeader))
}
