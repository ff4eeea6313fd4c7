package synth_test

// Coverage Notes:
// - The provider is faked at the HTTP layer; tests assert the request wire
//   format (SSML vs text, voice, API key header) and the error
//   classification, which is where provider quirks live.
// - Backoff delays are shrunk to milliseconds; timing itself is not asserted.

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alnah/go-narrate/internal/apierr"
	"github.com/alnah/go-narrate/internal/synth"
)

// fakeDoer replays canned HTTP responses and records requests.
type fakeDoer struct {
	responses []*http.Response
	errs      []error
	requests  []*http.Request
	bodies    []map[string]any
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)

	var body map[string]any
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(data, &body)
	}
	f.bodies = append(f.bodies, body)

	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func audioResponse(t *testing.T, audio []byte) *http.Response {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"audioContent": base64.StdEncoding.EncodeToString(audio),
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(payload)),
	}
}

func errorResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func fastRetries(n int) []synth.GoogleOption {
	return []synth.GoogleOption{
		synth.WithMaxRetries(n),
		synth.WithRetryDelays(time.Millisecond, 2*time.Millisecond),
	}
}

// ---------------------------------------------------------------------------
// TestGoogleSynthesize - Wire format
// ---------------------------------------------------------------------------

func TestGoogleSynthesize(t *testing.T) {
	t.Parallel()

	t.Run("plain text request", func(t *testing.T) {
		t.Parallel()

		doer := &fakeDoer{responses: []*http.Response{audioResponse(t, []byte("mp3-bytes"))}}
		g := synth.NewGoogleSynthesizer("test-key", synth.WithHTTPClient(doer))

		audio, err := g.Synthesize(context.Background(), synth.Request{
			Text:  "안녕하세요.",
			Voice: "ko-KR-Neural2-C",
			Speed: 1.1,
		})
		if err != nil {
			t.Fatalf("Synthesize() unexpected error: %v", err)
		}
		if !bytes.Equal(audio, []byte("mp3-bytes")) {
			t.Errorf("audio = %q, want decoded content", audio)
		}

		req := doer.requests[0]
		if got := req.Header.Get("X-Goog-Api-Key"); got != "test-key" {
			t.Errorf("API key header = %q, want test-key", got)
		}

		body := doer.bodies[0]
		input := body["input"].(map[string]any)
		if input["text"] != "안녕하세요." {
			t.Errorf("input.text = %v, want plain text", input["text"])
		}
		if _, hasSSML := input["ssml"]; hasSSML {
			t.Error("plain request must not carry an ssml field")
		}
		voice := body["voice"].(map[string]any)
		if voice["name"] != "ko-KR-Neural2-C" {
			t.Errorf("voice.name = %v, want ko-KR-Neural2-C", voice["name"])
		}
		if voice["languageCode"] != "ko-KR" {
			t.Errorf("voice.languageCode = %v, want ko-KR", voice["languageCode"])
		}
	})

	t.Run("ssml request uses the ssml field", func(t *testing.T) {
		t.Parallel()

		doer := &fakeDoer{responses: []*http.Response{audioResponse(t, []byte("x"))}}
		g := synth.NewGoogleSynthesizer("k", synth.WithHTTPClient(doer))

		_, err := g.Synthesize(context.Background(), synth.Request{
			Text: "<speak>안녕하세요.</speak>",
			SSML: true,
		})
		if err != nil {
			t.Fatalf("Synthesize() unexpected error: %v", err)
		}

		input := doer.bodies[0]["input"].(map[string]any)
		if input["ssml"] != "<speak>안녕하세요.</speak>" {
			t.Errorf("input.ssml = %v, want the SSML envelope", input["ssml"])
		}
		if _, hasText := input["text"]; hasText {
			t.Error("SSML request must not carry a text field")
		}
	})

	t.Run("empty voice selects the default", func(t *testing.T) {
		t.Parallel()

		doer := &fakeDoer{responses: []*http.Response{audioResponse(t, []byte("x"))}}
		g := synth.NewGoogleSynthesizer("k", synth.WithHTTPClient(doer))

		if _, err := g.Synthesize(context.Background(), synth.Request{Text: "가"}); err != nil {
			t.Fatalf("Synthesize() unexpected error: %v", err)
		}
		voice := doer.bodies[0]["voice"].(map[string]any)
		if voice["name"] != "ko-KR-Neural2-A" {
			t.Errorf("voice.name = %v, want the default Korean voice", voice["name"])
		}
	})

	t.Run("supports ssml", func(t *testing.T) {
		t.Parallel()

		if !synth.NewGoogleSynthesizer("k").SupportsSSML() {
			t.Error("SupportsSSML() = false, want true")
		}
	})
}

// ---------------------------------------------------------------------------
// TestGoogleErrorClassification - Provider errors to apierr sentinels
// ---------------------------------------------------------------------------

func TestGoogleErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		attempts int
	}{
		{
			name:     "401 auth failure no retry",
			status:   http.StatusUnauthorized,
			body:     "API key not valid",
			wantErr:  apierr.ErrAuthFailed,
			attempts: 1,
		},
		{
			name:     "403 auth failure no retry",
			status:   http.StatusForbidden,
			body:     "forbidden",
			wantErr:  apierr.ErrAuthFailed,
			attempts: 1,
		},
		{
			name:     "429 quota exhausted no retry",
			status:   http.StatusTooManyRequests,
			body:     "RESOURCE_EXHAUSTED: quota exceeded for quota metric",
			wantErr:  apierr.ErrQuotaExceeded,
			attempts: 1,
		},
		{
			name:     "429 rate limit retried to exhaustion",
			status:   http.StatusTooManyRequests,
			body:     "slow down",
			wantErr:  apierr.ErrRateLimit,
			attempts: 3,
		},
		{
			name:     "503 retried to exhaustion",
			status:   http.StatusServiceUnavailable,
			body:     "backend unavailable",
			wantErr:  apierr.ErrTimeout,
			attempts: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			responses := make([]*http.Response, tt.attempts)
			for i := range responses {
				responses[i] = errorResponse(tt.status, tt.body)
			}
			doer := &fakeDoer{responses: responses}
			g := synth.NewGoogleSynthesizer("k", append(fastRetries(2), synth.WithHTTPClient(doer))...)

			_, err := g.Synthesize(context.Background(), synth.Request{Text: "가"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Synthesize() error = %v, want %v", err, tt.wantErr)
			}
			if len(doer.requests) != tt.attempts {
				t.Errorf("attempts = %d, want %d", len(doer.requests), tt.attempts)
			}
		})
	}

	t.Run("transient failure then success", func(t *testing.T) {
		t.Parallel()

		doer := &fakeDoer{responses: []*http.Response{
			errorResponse(http.StatusServiceUnavailable, "flaky"),
			audioResponse(t, []byte("ok")),
		}}
		g := synth.NewGoogleSynthesizer("k", append(fastRetries(2), synth.WithHTTPClient(doer))...)

		audio, err := g.Synthesize(context.Background(), synth.Request{Text: "가"})
		if err != nil {
			t.Fatalf("Synthesize() unexpected error: %v", err)
		}
		if !bytes.Equal(audio, []byte("ok")) {
			t.Errorf("audio = %q, want ok", audio)
		}
		if len(doer.requests) != 2 {
			t.Errorf("attempts = %d, want 2", len(doer.requests))
		}
	})

	t.Run("unclassified status carries provider body verbatim", func(t *testing.T) {
		t.Parallel()

		doer := &fakeDoer{responses: []*http.Response{
			errorResponse(http.StatusTeapot, "I refuse to synthesize"),
		}}
		g := synth.NewGoogleSynthesizer("k", append(fastRetries(2), synth.WithHTTPClient(doer))...)

		_, err := g.Synthesize(context.Background(), synth.Request{Text: "가"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if want := "I refuse to synthesize"; !bytes.Contains([]byte(err.Error()), []byte(want)) {
			t.Errorf("error %q should carry provider body %q", err, want)
		}
		if len(doer.requests) != 1 {
			t.Errorf("attempts = %d, want 1 (unclassified errors are not retried)", len(doer.requests))
		}
	})

	t.Run("context cancellation maps to timeout sentinel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		doer := &fakeDoer{errs: []error{fmt.Errorf("dial: %w", context.Canceled)}}
		cancel()

		g := synth.NewGoogleSynthesizer("k", append(fastRetries(2), synth.WithHTTPClient(doer))...)
		_, err := g.Synthesize(ctx, synth.Request{Text: "가"})
		if !errors.Is(err, apierr.ErrTimeout) && !errors.Is(err, context.Canceled) {
			t.Errorf("Synthesize() error = %v, want timeout or cancellation", err)
		}
	})
}
