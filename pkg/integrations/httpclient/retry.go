package httpclient

import (
	"context"
	"errors"
	"net"
	"time"
)

// RetryPolicy defines retry behavior with exponential backoff.
type RetryPolicy struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	BackoffMultiplier float64
}

// NewRetryPolicy creates the default policy: 3 retries at 500ms, 1s and 2s.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// Backoff returns the delay before the given retry (0 is the first retry).
func (p *RetryPolicy) Backoff(retry int) time.Duration {
	backoff := float64(p.InitialBackoff)
	for i := 0; i < retry; i++ {
		backoff *= p.BackoffMultiplier
	}
	return time.Duration(backoff)
}

// RetryableStatus reports whether a response status should be retried.
// 408 is treated like a network timeout; every 5xx is retried.
func (p *RetryPolicy) RetryableStatus(statusCode int) bool {
	return statusCode == 408 || statusCode >= 500
}

// isRetryableError checks if a transport error is retryable (timeouts,
// connection errors, context deadline exceeded on the attempt).
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsTemporary
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
