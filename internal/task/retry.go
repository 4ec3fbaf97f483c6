package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/harlowe/syllabi-api/internal/extraction"
	"github.com/harlowe/syllabi-api/internal/pipeline"
)

// RetryConfig controls the retry behavior around pipeline runs.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int

	// BaseDelay is the initial backoff delay. Each subsequent attempt doubles
	// it, with jitter applied.
	BaseDelay time.Duration
}

// isTransient reports whether a pipeline error is worth retrying. Only
// extraction service outages are transient; malformed responses and blocked
// content will not improve on a second attempt with the same input.
func isTransient(err error) bool {
	return errors.Is(err, extraction.ErrServiceUnavailable)
}

// runWithRetry executes the pipeline run function with exponential backoff
// and jitter between attempts. Permanent errors are returned immediately
// without retrying. The context bounds the total time spent, including
// backoff delays.
func runWithRetry(
	ctx context.Context,
	log *slog.Logger,
	cfg RetryConfig,
	run func(ctx context.Context) (*pipeline.Result, error),
) (*pipeline.Result, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		log.Warn("invalid max retries value, using default", slog.Int("max_retries", 3))
		maxRetries = 3
	}

	baseDelay := cfg.BaseDelay
	if baseDelay < time.Second {
		log.Warn("invalid retry delay value, using default", slog.Int("base_delay_seconds", 2))
		baseDelay = 2 * time.Second
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		log.Info("running extraction pipeline",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		result, err := run(ctx)
		if err == nil {
			return result, nil
		}

		log.Error("pipeline run failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if !isTransient(err) {
			log.Warn("permanent error occurred, not retrying")
			return nil, err
		}

		if attempt >= maxRetries {
			log.Warn("maximum retry attempts reached", slog.Int("max_retries", maxRetries))
			return nil, fmt.Errorf("exceeded maximum retry attempts (%d): %w", maxRetries, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelay) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitterFactor)

		log.Info("retrying after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			log.Warn("pipeline run cancelled during retry delay",
				slog.Int("attempt", attempt+1),
				slog.String("ctx_err", ctx.Err().Error()))
			return nil, ctx.Err()
		}
	}
}
