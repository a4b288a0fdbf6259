package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/BoldMakerAI/ai-candy-generator/internal/apierror"
)

// Defaults used when no option overrides them.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultMaxJitter   = time.Second
)

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

type settings struct {
	maxAttempts int
	baseDelay   time.Duration
	maxJitter   time.Duration
	retryable   func(error) bool
	logger      *slog.Logger
	operation   string
	onRetry     func(attempt int, delay time.Duration, err error)
	sleep       Sleeper
}

// Option customizes Do.
type Option func(*settings)

// WithMaxAttempts sets the total number of attempts, including the first.
// Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *settings) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the delay unit that is doubled on each retry.
func WithBaseDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.baseDelay = d
		}
	}
}

// WithMaxJitter sets the upper bound of the random delay added to each wait.
func WithMaxJitter(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.maxJitter = d
		}
	}
}

// WithClassifier replaces the function that decides whether an error is
// transient.
func WithClassifier(fn func(error) bool) Option {
	return func(s *settings) {
		if fn != nil {
			s.retryable = fn
		}
	}
}

// WithLogger sets the logger that receives retry notices.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOperation names the call in log records.
func WithOperation(name string) Option {
	return func(s *settings) {
		s.operation = name
	}
}

// WithOnRetry registers a callback invoked before each backoff wait.
// attempt is the 1-based number of the attempt that just failed.
func WithOnRetry(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(s *settings) {
		s.onRetry = fn
	}
}

// WithSleeper replaces the backoff timer.
func WithSleeper(fn Sleeper) Option {
	return func(s *settings) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// Do runs call until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. Attempts never overlap. The error of the last
// attempt is returned unchanged; if ctx ends during a backoff wait the
// context error is joined to it.
func Do[T any](ctx context.Context, call func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	s := settings{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		maxJitter:   DefaultMaxJitter,
		retryable:   apierror.IsRetryable,
		logger:      slog.Default(),
		operation:   "api_call",
		sleep:       timerSleep,
	}
	for _, opt := range opts {
		opt(&s)
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		result, err := call(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !s.retryable(err) || attempt >= s.maxAttempts-1 {
			return zero, lastErr
		}

		delay := Backoff(attempt, s.baseDelay, s.maxJitter)
		s.logger.WarnContext(ctx, "API call failed with retryable error, retrying",
			"operation", s.operation,
			"attempt", attempt+1,
			"max_attempts", s.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", apierror.Message(err))
		if s.onRetry != nil {
			s.onRetry(attempt+1, delay, err)
		}

		if err := s.sleep(ctx, delay); err != nil {
			return zero, errors.Join(lastErr, err)
		}
	}

	return zero, lastErr
}

// Backoff returns the wait before the retry that follows the failed
// 0-indexed attempt: 2^attempt * base plus a random jitter in [0, maxJitter).
func Backoff(attempt int, base, maxJitter time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}
	delay := base * time.Duration(1<<attempt)
	if maxJitter > 0 {
		delay += time.Duration(rand.Int64N(int64(maxJitter))) // #nosec G404 -- non-cryptographic jitter
	}
	return delay
}

func timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
