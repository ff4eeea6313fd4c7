package cli

import (
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-narrate/internal/config"
	"github.com/alnah/go-narrate/internal/ffmpeg"
	"github.com/alnah/go-narrate/internal/merge"
	"github.com/alnah/go-narrate/internal/synth"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	FFmpegResolver     FFmpegResolver
	ConfigLoader       ConfigLoader
	SynthesizerFactory SynthesizerFactory
	MergerFactory      MergerFactory
}

// FFmpegResolver resolves the path to the FFmpeg binary.
type FFmpegResolver interface {
	Resolve() (string, error)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// SynthesizerFactory creates text-to-speech provider clients.
type SynthesizerFactory interface {
	NewGoogleSynthesizer(apiKey string) synth.Synthesizer
	NewOpenAISynthesizer(apiKey string) synth.Synthesizer
}

// MergerFactory creates audio mergers.
type MergerFactory interface {
	// NewMerger creates a merger backed by the FFmpeg binary at ffmpegPath.
	// An empty path yields a merger that uses raw concatenation only.
	NewMerger(ffmpegPath string) (*merge.Merger, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithSynthesizerFactory sets the synthesizer factory.
func WithSynthesizerFactory(f SynthesizerFactory) EnvOption {
	return func(e *Env) {
		e.SynthesizerFactory = f
	}
}

// WithMergerFactory sets the merger factory.
func WithMergerFactory(f MergerFactory) EnvOption {
	return func(e *Env) {
		e.MergerFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		Now:                time.Now,
		FFmpegResolver:     &defaultFFmpegResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		SynthesizerFactory: &defaultSynthesizerFactory{},
		MergerFactory:      &defaultMergerFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve() (string, error) {
	return ffmpeg.Resolve()
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultSynthesizerFactory implements SynthesizerFactory using the real
// provider clients.
type defaultSynthesizerFactory struct{}

func (defaultSynthesizerFactory) NewGoogleSynthesizer(apiKey string) synth.Synthesizer {
	return synth.NewGoogleSynthesizer(apiKey)
}

func (defaultSynthesizerFactory) NewOpenAISynthesizer(apiKey string) synth.Synthesizer {
	client := openai.NewClient(apiKey)
	return synth.NewOpenAISynthesizer(client)
}

// defaultMergerFactory implements MergerFactory using the merge package.
type defaultMergerFactory struct{}

func (defaultMergerFactory) NewMerger(ffmpegPath string) (*merge.Merger, error) {
	if ffmpegPath == "" {
		return merge.NewMerger(nil), nil
	}
	enc, err := merge.NewFFmpegEncoder(ffmpegPath)
	if err != nil {
		return nil, err
	}
	return merge.NewMerger(enc), nil
}

// Compile-time interface verification.
var (
	_ FFmpegResolver     = (*defaultFFmpegResolver)(nil)
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ SynthesizerFactory = (*defaultSynthesizerFactory)(nil)
	_ MergerFactory      = (*defaultMergerFactory)(nil)
)
