package synth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-narrate/internal/apierr"
)

// speechCreator is an internal interface for OpenAI speech synthesis.
// *openai.Client implements this implicitly, which allows injecting mocks.
type speechCreator interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Synthesizer   = (*OpenAISynthesizer)(nil)
	_ speechCreator = (*openai.Client)(nil)
)

// OpenAISynthesizer synthesizes speech using OpenAI's speech API. It accepts
// plain text only; pacing markup is skipped for this provider.
type OpenAISynthesizer struct {
	client     speechCreator
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// OpenAIOption configures an OpenAISynthesizer.
type OpenAIOption func(*OpenAISynthesizer)

// WithOpenAIMaxRetries sets the maximum number of retry attempts.
func WithOpenAIMaxRetries(n int) OpenAIOption {
	return func(s *OpenAISynthesizer) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithOpenAIRetryDelays sets the base and max delays for exponential backoff.
func WithOpenAIRetryDelays(base, max time.Duration) OpenAIOption {
	return func(s *OpenAISynthesizer) {
		if base > 0 {
			s.baseDelay = base
		}
		if max > 0 {
			s.maxDelay = max
		}
	}
}

// NewOpenAISynthesizer creates an OpenAISynthesizer.
// The client is injected to enable testing with mocks.
func NewOpenAISynthesizer(client speechCreator, opts ...OpenAIOption) *OpenAISynthesizer {
	s := &OpenAISynthesizer{
		client:     client,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SupportsSSML reports that the OpenAI speech API takes plain text only.
func (s *OpenAISynthesizer) SupportsSSML() bool { return false }

// Synthesize converts one request to MP3 audio bytes with retry on
// transient errors.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	voice := openai.VoiceAlloy
	if req.Voice != "" {
		voice = openai.SpeechVoice(req.Voice)
	}

	speechReq := openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          req.Text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          req.Speed,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: s.maxRetries,
		BaseDelay:  s.baseDelay,
		MaxDelay:   s.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() ([]byte, error) {
		resp, err := s.client.CreateSpeech(ctx, speechReq)
		if err != nil {
			return nil, classifyOpenAIError(err)
		}
		defer func() { _ = resp.Close() }()

		audio, err := io.ReadAll(resp)
		if err != nil {
			return nil, fmt.Errorf("read speech response: %w", err)
		}
		return audio, nil
	}, isRetryableError)
}

// classifyOpenAIError maps OpenAI API errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("provider rejected credentials: %s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout,
			http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
