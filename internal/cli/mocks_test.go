package cli_test

// Shared fakes for CLI command tests. Commands are exercised end to end
// through cobra with every external surface stubbed: no network, no FFmpeg.

import (
	"context"
	"errors"

	"github.com/alnah/go-narrate/internal/cli"
	"github.com/alnah/go-narrate/internal/config"
	"github.com/alnah/go-narrate/internal/merge"
	"github.com/alnah/go-narrate/internal/synth"
)

// echoSynth returns each request's text as audio bytes.
type echoSynth struct {
	ssml bool
	err  error
}

func (e *echoSynth) Synthesize(_ context.Context, req synth.Request) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte(req.Text), nil
}

func (e *echoSynth) SupportsSSML() bool { return e.ssml }

// stubSynthFactory hands out the same synthesizer for both providers and
// records the API key it was given.
type stubSynthFactory struct {
	synth   synth.Synthesizer
	lastKey string
}

func (f *stubSynthFactory) NewGoogleSynthesizer(apiKey string) synth.Synthesizer {
	f.lastKey = apiKey
	return f.synth
}

func (f *stubSynthFactory) NewOpenAISynthesizer(apiKey string) synth.Synthesizer {
	f.lastKey = apiKey
	return f.synth
}

// stubMergerFactory returns a raw-concat merger regardless of path.
type stubMergerFactory struct{}

func (stubMergerFactory) NewMerger(string) (*merge.Merger, error) {
	return merge.NewMerger(nil), nil
}

// stubResolver returns a canned FFmpeg path or error.
type stubResolver struct {
	path string
	err  error
}

func (r stubResolver) Resolve() (string, error) {
	return r.path, r.err
}

// stubConfigLoader returns a canned config.
type stubConfigLoader struct {
	cfg config.Config
	err error
}

func (l stubConfigLoader) Load() (config.Config, error) {
	return l.cfg, l.err
}

// configWithOutputDir builds a config pointing outputs at dir.
func configWithOutputDir(dir string) config.Config {
	return config.Config{OutputDir: dir}
}

// envWith returns a getenv func backed by a map.
func envWith(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

// testEnv builds an Env wired with the default fakes, overridable per test.
func testEnv(opts ...cli.EnvOption) *cli.Env {
	base := []cli.EnvOption{
		cli.WithStderr(&discard{}),
		cli.WithStdout(&discard{}),
		cli.WithGetenv(envWith(map[string]string{
			cli.EnvGoogleAPIKey: "fake-key",
			cli.EnvOpenAIAPIKey: "sk-fake",
		})),
		cli.WithFFmpegResolver(stubResolver{err: errors.New("not installed")}),
		cli.WithConfigLoader(stubConfigLoader{}),
		cli.WithSynthesizerFactory(&stubSynthFactory{synth: &echoSynth{ssml: true}}),
		cli.WithMergerFactory(stubMergerFactory{}),
	}
	return cli.NewEnv(append(base, opts...)...)
}

// discard is an io.Writer that swallows everything.
type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
