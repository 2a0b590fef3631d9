package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Retry configuration constants
const (
	MaxRetryAttempts  = 3
	InitialBackoff    = 500 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// RetryableStatusCodes are HTTP status codes that should trigger a retry.
// These are transient conditions of a single provider; anything else is
// surfaced to the command layer, which may fall back to another provider.
var RetryableStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// ShouldRetry checks if the error status code indicates a retryable failure.
func ShouldRetry(statusCode int) bool {
	for _, code := range RetryableStatusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// CalculateBackoff returns the backoff duration for a given attempt number
func CalculateBackoff(attempt int) time.Duration {
	backoff := InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * BackoffMultiplier)
		if backoff > MaxBackoff {
			backoff = MaxBackoff
			break
		}
	}
	return backoff
}

// RetryableFunc is a function that can be retried
type RetryableFunc[T any] func() (T, error)

// WithRetry executes a function with retry logic for transient failures,
// applying exponential backoff between attempts. Non-retryable errors
// return immediately.
func WithRetry[T any](ctx context.Context, fn RetryableFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("operation cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !ShouldRetry(apiErr.StatusCode) {
			return zero, err
		}

		if attempt < MaxRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(CalculateBackoff(attempt)):
			}
		}
	}

	return zero, fmt.Errorf("max retry attempts (%d) exceeded: %w", MaxRetryAttempts, lastErr)
}

// StreamRetryableFunc is a function that returns an HTTP response for
// streaming. The caller owns the response body on success.
type StreamRetryableFunc func() (*http.Response, error)

// WithStreamRetry retries the initial connection of a streaming request on
// transient failures, then processes the SSE stream. Once streaming has
// started, a failure mid-stream is final: partial responses cannot be
// safely retried.
func WithStreamRetry(ctx context.Context, fn StreamRetryableFunc, onChunk func(content string)) (*ChatResponse, error) {
	var lastErr error

	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("operation cancelled: %w", err)
		}

		resp, err := fn()
		if err == nil {
			defer func() { _ = resp.Body.Close() }()

			processor := NewSSEProcessor(resp.Body)
			if err := processor.Process(ctx, onChunk); err != nil {
				return nil, fmt.Errorf("failed to process stream: %w", err)
			}
			return processor.BuildResponse(), nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !ShouldRetry(apiErr.StatusCode) {
			return nil, err
		}

		if attempt < MaxRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(CalculateBackoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("max retry attempts (%d) exceeded: %w", MaxRetryAttempts, lastErr)
}
