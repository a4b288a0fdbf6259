package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_RecordsRoutePatternAndStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	labels := prometheus.Labels{"method": http.MethodGet, "path": "/items/{id}", "code": "418"}
	before := testutil.ToFloat64(httpRequestsTotal.With(labels))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.With(labels)))
}

func TestGenerationCounters(t *testing.T) {
	stageLabels := prometheus.Labels{"stage": "text", "outcome": OutcomeFailure}
	before := testutil.ToFloat64(generationStageTotal.With(stageLabels))
	GenerationStage("text", OutcomeFailure, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(generationStageTotal.With(stageLabels)))

	retryLabels := prometheus.Labels{"operation": "image_generation"}
	beforeRetry := testutil.ToFloat64(retryAttemptsTotal.With(retryLabels))
	RetryAttempt("image_generation")
	RetryAttempt("image_generation")
	assert.Equal(t, beforeRetry+2, testutil.ToFloat64(retryAttemptsTotal.With(retryLabels)))

	candyLabels := prometheus.Labels{"outcome": OutcomeSuccess}
	beforeCandy := testutil.ToFloat64(candiesTotal.With(candyLabels))
	CandyOutcome(OutcomeSuccess)
	assert.Equal(t, beforeCandy+1, testutil.ToFloat64(candiesTotal.With(candyLabels)))
}
