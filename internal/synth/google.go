package synth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/go-narrate/internal/apierr"
)

// Google Cloud Text-to-Speech endpoint and defaults.
const (
	googleSynthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

	defaultLanguageCode = "ko-KR"
	defaultGoogleVoice  = "ko-KR-Neural2-A"
)

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface implementation check.
var _ Synthesizer = (*GoogleSynthesizer)(nil)

// GoogleSynthesizer synthesizes speech via the Google Cloud TTS REST API.
// It accepts SSML input and retries transient failures with exponential
// backoff. Credentials are injected per client; no process-wide key state.
type GoogleSynthesizer struct {
	httpClient httpDoer
	apiKey     string
	language   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// GoogleOption configures a GoogleSynthesizer.
type GoogleOption func(*GoogleSynthesizer)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(c httpDoer) GoogleOption {
	return func(g *GoogleSynthesizer) {
		g.httpClient = c
	}
}

// WithLanguageCode sets the synthesis language. Default: ko-KR.
func WithLanguageCode(code string) GoogleOption {
	return func(g *GoogleSynthesizer) {
		if code != "" {
			g.language = code
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) GoogleOption {
	return func(g *GoogleSynthesizer) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) GoogleOption {
	return func(g *GoogleSynthesizer) {
		if base > 0 {
			g.baseDelay = base
		}
		if max > 0 {
			g.maxDelay = max
		}
	}
}

// NewGoogleSynthesizer creates a GoogleSynthesizer using apiKey.
func NewGoogleSynthesizer(apiKey string, opts ...GoogleOption) *GoogleSynthesizer {
	g := &GoogleSynthesizer{
		httpClient: &http.Client{Timeout: defaultCallTimeout},
		apiKey:     apiKey,
		language:   defaultLanguageCode,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SupportsSSML reports that Google TTS accepts SSML input.
func (g *GoogleSynthesizer) SupportsSSML() bool { return true }

// Synthesize converts one request to MP3 audio bytes, retrying transient
// failures. Authorization failures are returned immediately without retry.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	cfg := apierr.RetryConfig{
		MaxRetries: g.maxRetries,
		BaseDelay:  g.baseDelay,
		MaxDelay:   g.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() ([]byte, error) {
		return g.synthesizeOnce(ctx, req)
	}, isRetryableError)
}

// Wire types for the text:synthesize call.
type synthesisInput struct {
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
}

type audioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
	Pitch         float64 `json:"pitch,omitempty"`
}

type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceSelection `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func (g *GoogleSynthesizer) synthesizeOnce(ctx context.Context, req Request) ([]byte, error) {
	voice := req.Voice
	if voice == "" {
		voice = defaultGoogleVoice
	}

	body := synthesizeRequest{
		Voice: voiceSelection{LanguageCode: g.language, Name: voice},
		AudioConfig: audioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  req.Speed,
			Pitch:         req.Pitch,
		},
	}
	if req.SSML {
		body.Input.SSML = req.Text
	} else {
		body.Input.Text = req.Text
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, googleSynthesizeURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create synthesis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("synthesis request: %w", apierr.ErrTimeout)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyGoogleError(resp.StatusCode, respBody)
	}

	var parsed synthesizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse synthesis response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}

// classifyGoogleError maps provider HTTP errors to apierr sentinels.
// Authorization failures get an actionable message; anything unclassified
// carries the provider's error content verbatim.
func classifyGoogleError(statusCode int, body []byte) error {
	msg := string(body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("provider rejected credentials (HTTP %d): check the API key and that the Cloud project has Text-to-Speech enabled: %w",
			statusCode, apierr.ErrAuthFailed)
	case http.StatusTooManyRequests:
		if strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
			return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout,
		http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		// Retryable server-side conditions.
		return fmt.Errorf("%s: %w", msg, apierr.ErrTimeout)
	default:
		return fmt.Errorf("provider error (HTTP %d): %s", statusCode, msg)
	}
}
