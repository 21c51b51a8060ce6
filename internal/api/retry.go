package api

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// RetryConfig configures retry behavior for failed API requests. It is
// applied by the retrying transport; the request builder and the
// authorization flow never retry on their own.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// BaseDelay is the initial delay between retry attempts.
	BaseDelay time.Duration
	// MaxDelay is the maximum delay between retry attempts.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay increases after each attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) added to delays
	// to prevent thundering herd.
	Jitter float64
	// RetryableOn determines if a status code should trigger a retry.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultRetryDelay,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
		RetryableOn: func(statusCode int) bool {
			switch statusCode {
			case 408, 429, 500, 502, 503, 504:
				return true
			default:
				return false
			}
		},
	}
}

// Delay calculates the delay before the next retry attempt with optional jitter.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	if delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}

	// Add jitter
	if r.Jitter > 0 {
		jitterAmount := delay * r.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// CheckRetry is a retryablehttp.CheckRetry. Transport errors follow the
// library's default policy; responses are retried per RetryableOn.
func (r *RetryConfig) CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if resp == nil {
		return false, nil
	}
	return r.RetryableOn(resp.StatusCode), nil
}

// Backoff is a retryablehttp.Backoff. A Retry-After header given in
// seconds on a 429 or 503 wins over the computed delay, capped at MaxDelay.
func (r *RetryConfig) Backoff(_, _ time.Duration, attempt int, resp *http.Response) time.Duration {
	if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s >= 0 {
			wait := time.Duration(s) * time.Second
			if wait > r.MaxDelay {
				wait = r.MaxDelay
			}
			return wait
		}
	}
	return r.Delay(attempt)
}
