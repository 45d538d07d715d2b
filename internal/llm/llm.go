// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the completion service behind a small interface
// so pipeline stages and tests can swap implementations. Callers receive
// free-form text with no structural guarantee and parse it themselves.
// See docs/ARCHITECTURE § Completion Service.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Backend is the completion service. Complete returns the model's raw
// text reply; it offers no structural guarantee.
type Backend interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// CompleteWithRetry calls the backend with exponential backoff on error.
// Completion failures that survive all retries are fatal to the run, so
// the error is returned rather than degraded.
func CompleteWithRetry(ctx context.Context, backend Backend, prompt string, maxTokens, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		reply, err := backend.Complete(ctx, prompt, maxTokens)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
