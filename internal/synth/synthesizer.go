// Package synth holds the text-to-speech provider clients. Providers are
// interchangeable behind the Synthesizer interface; provider-specific errors
// are classified into apierr sentinels at this boundary.
package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-narrate/internal/apierr"
)

// Provider identifiers.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// Default retry configuration for transient provider failures.
const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 15 * time.Second
)

// defaultCallTimeout bounds a single provider request.
const defaultCallTimeout = 90 * time.Second

// Request is one synthesis call for a single chunk.
type Request struct {
	// Text is the content to synthesize: plain narration, or an SSML
	// envelope when SSML is true.
	Text string
	SSML bool

	// Voice names a provider voice. Empty selects the provider default.
	Voice string

	// Speed is the speaking rate, 1.0 = normal. Zero selects the default.
	Speed float64

	// Pitch adjusts the voice pitch in provider units. Zero is neutral.
	Pitch float64
}

// Synthesizer converts one chunk of narration into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)

	// SupportsSSML reports whether the provider accepts pacing markup.
	// Chunks are annotated only for providers that return true.
	SupportsSSML() bool
}

// SynthesizeAll synthesizes requests strictly in order, one at a time, and
// returns the audio buffers in the same order. The first failure aborts the
// remaining chunks (fail-fast); authorization failures carry
// apierr.ErrAuthFailed so callers can surface them distinctly.
func SynthesizeAll(ctx context.Context, reqs []Request, s Synthesizer) ([][]byte, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	buffers := make([][]byte, 0, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf, err := s.Synthesize(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		buffers = append(buffers, buf)
	}
	return buffers, nil
}

// isRetryableError determines if an error is transient and should be retried.
func isRetryableError(err error) bool {
	// Rate limits and timeouts are retryable (with backoff).
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrTimeout) {
		return true
	}

	// Context cancellation, auth failures and quota exhaustion are not.
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrQuotaExceeded) {
		return false
	}

	return false
}
