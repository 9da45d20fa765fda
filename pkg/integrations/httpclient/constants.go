package httpclient

import "time"

// Timeouts shared by every adapter client
const (
	// DefaultConnectTimeout bounds TCP connection establishment
	DefaultConnectTimeout = 10 * time.Second

	// DefaultRequestTimeout bounds one attempt including reading the body
	DefaultRequestTimeout = 30 * time.Second
)

// Retry policy defaults
const (
	// DefaultMaxRetries is the number of retries after the first attempt
	DefaultMaxRetries = 3

	// DefaultInitialBackoff is the delay before the first retry
	DefaultInitialBackoff = 500 * time.Millisecond

	// DefaultBackoffMultiplier grows the delay between consecutive retries
	DefaultBackoffMultiplier = 2.0
)

// MaxResponseBytes is the default cap on a buffered response body.
const MaxResponseBytes = 10 << 20

// Error messages
const (
	ErrRetriesExhausted = "Request failed after retries"
	ErrReadBody         = "Failed to read response body"
	ErrResponseTooLarge = "Response body exceeds size limit"
)
