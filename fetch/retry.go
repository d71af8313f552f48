// Package fetch provides orchestration around pagetab.Fetcher
// implementations: retry with backoff, per-domain rate limiting, and
// concurrent multi-URL fetching.
package fetch

import (
	"context"
	"time"

	"github.com/pagetab/pagetab"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 3s.
func DefaultRetryDelays() []time.Duration {
	return Delays(time.Second, 3)
}

// Delays returns retries linearly growing backoff delays starting at base:
// base, 2*base, 3*base, ...
func Delays(base time.Duration, retries int) []time.Duration {
	delays := make([]time.Duration, 0, retries)
	for i := 1; i <= retries; i++ {
		delays = append(delays, time.Duration(i)*base)
	}
	return delays
}

// WithRetry fetches a URL, retrying transient failures with the default
// backoff delays. The logger function, if provided, is called for each retry
// attempt.
func WithRetry(ctx context.Context, fetcher pagetab.Fetcher, url string, logger LogFunc) (*pagetab.FetchResult, error) {
	return WithRetryDelays(ctx, fetcher, url, logger, DefaultRetryDelays())
}

// WithRetryDelays is like WithRetry but allows configurable delays. This is
// useful for testing without waiting for real delays.
//
// Only EUNAVAILABLE failures are retried; a missing page (ENOTFOUND) or
// invalid input will not become available by waiting.
func WithRetryDelays(ctx context.Context, fetcher pagetab.Fetcher, url string, logger LogFunc, delays []time.Duration) (*pagetab.FetchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if pagetab.ErrorCode(err) != pagetab.EUNAVAILABLE {
			return nil, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
