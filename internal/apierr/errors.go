// Package apierr provides shared error sentinels and retry infrastructure
// for HTTP-based speech-synthesis providers. Provider-specific error types
// are classified into these sentinels at the adapter boundary.
//
// Providers map HTTP status codes to these errors using fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrAuthFailed) etc.
package apierr

import "errors"

// Sentinel errors for provider interaction failures.
var (
	// ErrRateLimit indicates the provider rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the provider quota was exhausted (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates provider authentication or permission failed.
	// Surfaced immediately without retrying; the key or project needs fixing.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")
)
