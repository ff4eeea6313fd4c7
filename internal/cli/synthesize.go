package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-narrate/internal/chunk"
	"github.com/alnah/go-narrate/internal/config"
	"github.com/alnah/go-narrate/internal/merge"
	"github.com/alnah/go-narrate/internal/pipeline"
	"github.com/alnah/go-narrate/internal/synth"
)

// Speaking rate bounds accepted by both providers.
const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// clampParallel constrains parallel scene count to [1, MaxRecommendedParallel].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > pipeline.MaxRecommendedParallel {
		return pipeline.MaxRecommendedParallel
	}
	return n
}

// splitScenes splits narration text into scenes at blank lines.
func splitScenes(text string) []string {
	var scenes []string
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		scenes = append(scenes, block)
	}
	return scenes
}

// SynthesizeCmd creates the synthesize command.
// The env parameter provides injectable dependencies for testing.
func SynthesizeCmd(env *Env) *cobra.Command {
	var (
		output   string
		voice    string
		speed    float64
		pitch    float64
		provider string
		plain    bool
		scenes   bool
		parallel int
		budget   int
	)

	cmd := &cobra.Command{
		Use:   "synthesize <text-file>",
		Short: "Synthesize narration audio from a text file",
		Long: `Synthesize narration audio from a text file.

The text is split into provider-sized chunks, synthesized in order, and
merged into a single MP3. Emotionally charged sentences get slower pacing
and surrounding pauses unless --plain is set or the provider takes plain
text only.

Google Cloud TTS is the default provider and accepts pacing markup.
OpenAI's speech API (--provider openai) takes plain text only.`,
		Example: `  narrate synthesize story.txt -o story.mp3
  narrate synthesize story.txt --voice ko-KR-Neural2-C --speed 1.1
  narrate synthesize story.txt --plain
  narrate synthesize script.txt --scenes --parallel 4
  narrate synthesize story.txt --provider openai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynthesize(cmd, env, args[0], output, voice, speed, pitch, provider, plain, scenes, parallel, budget)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>.mp3)")
	cmd.Flags().StringVar(&voice, "voice", "", "Provider voice name (default: provider's Korean voice)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speaking rate (0.25-4.0, 1.0 = normal)")
	cmd.Flags().Float64Var(&pitch, "pitch", 0, "Voice pitch adjustment in provider units")
	cmd.Flags().StringVar(&provider, "provider", synth.ProviderGoogle, "TTS provider: google, openai")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable emotion-conditioned pacing markup")
	cmd.Flags().BoolVar(&scenes, "scenes", false, "Treat blank-line-separated blocks as independent scenes")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", pipeline.MaxRecommendedParallel, "Max concurrent scenes with --scenes (1-4)")
	cmd.Flags().IntVar(&budget, "budget", 0, "Chunk byte budget (default: provider-appropriate)")

	return cmd
}

// runSynthesize executes the narration pipeline.
// Validation order: input file -> speed -> provider -> API key -> output path.
func runSynthesize(cmd *cobra.Command, env *Env, inputPath, output, voice string,
	speed, pitch float64, provider string, plain, useScenes bool, parallel, budget int,
) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	text, err := readNarrationFile(inputPath)
	if err != nil {
		return err
	}

	if speed < minSpeed || speed > maxSpeed {
		return fmt.Errorf("%w: got %g", ErrInvalidSpeed, speed)
	}

	if provider != synth.ProviderGoogle && provider != synth.ProviderOpenAI {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	if voice == "" {
		voice = cfg.Voice
	}

	var synthesizer synth.Synthesizer
	switch provider {
	case synth.ProviderGoogle:
		key := env.Getenv(EnvGoogleAPIKey)
		if key == "" {
			return fmt.Errorf("%w (set it with: export %s=...)", ErrAPIKeyMissing, EnvGoogleAPIKey)
		}
		synthesizer = env.SynthesizerFactory.NewGoogleSynthesizer(key)
	case synth.ProviderOpenAI:
		key := env.Getenv(EnvOpenAIAPIKey)
		if key == "" {
			return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
		}
		synthesizer = env.SynthesizerFactory.NewOpenAISynthesizer(key)
	}

	defaultOutput := deriveOutputPath(filepath.Base(inputPath), ".mp3")
	output = config.ResolveOutputPath(output, cfg.OutputDir, defaultOutput)
	warnExtensionMismatch(env.Stderr, output, ".mp3", "MP3")

	// === SETUP ===

	// FFmpeg is optional: without it multi-chunk output degrades to raw
	// byte concatenation.
	ffmpegPath, err := env.FFmpegResolver.Resolve()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: %v; merged audio will use raw concatenation\n", err)
		ffmpegPath = ""
	}

	merger, err := env.MergerFactory.NewMerger(ffmpegPath)
	if err != nil {
		return err
	}

	pipeOpts := []pipeline.Option{pipeline.WithMarkup(!plain)}
	if budget > 0 {
		chunker, err := chunk.NewChunker(budget)
		if err != nil {
			return err
		}
		pipeOpts = append(pipeOpts, pipeline.WithChunker(chunker))
	}

	p, err := pipeline.New(synthesizer, merger, pipeOpts...)
	if err != nil {
		return err
	}

	// === SYNTHESIS ===

	var audio []byte
	if useScenes {
		audio, err = synthesizeScenes(ctx, env, p, merger, text, voice, speed, pitch, parallel)
	} else {
		audio, err = synthesizeSingle(ctx, env, p, text, voice, speed, pitch)
	}
	if err != nil {
		return err
	}

	// === WRITE OUTPUT ===

	if err := writeFileExcl(output, audio); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Done: %s\n", output)
	return nil
}

func synthesizeSingle(ctx context.Context, env *Env, p *pipeline.Pipeline,
	text, voice string, speed, pitch float64,
) ([]byte, error) {
	fmt.Fprintln(env.Stderr, "Synthesizing...")

	result, err := p.Narrate(ctx, pipeline.NarrateRequest{
		Text:  text,
		Voice: voice,
		Speed: speed,
		Pitch: pitch,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(env.Stderr, "Synthesized %d chunks (%d with pacing markup)\n",
		result.Chunks, result.Marked)
	return result.Audio, nil
}

// synthesizeScenes narrates blank-line-separated scenes with bounded
// parallelism, then merges the per-scene audio in order.
func synthesizeScenes(ctx context.Context, env *Env, p *pipeline.Pipeline,
	merger *merge.Merger, text, voice string, speed, pitch float64, parallel int,
) ([]byte, error) {
	blocks := splitScenes(text)
	if len(blocks) == 0 {
		return nil, pipeline.ErrEmptyNarration
	}

	scenes := make([]pipeline.Scene, len(blocks))
	for i, b := range blocks {
		scenes[i] = pipeline.Scene{
			ID:    fmt.Sprintf("scene-%d", i+1),
			Text:  b,
			Voice: voice,
			Speed: speed,
			Pitch: pitch,
		}
	}

	parallel = clampParallel(parallel)
	fmt.Fprintf(env.Stderr, "Synthesizing %d scenes (parallel: %d)...\n", len(scenes), parallel)

	results, err := p.NarrateScenes(ctx, scenes, parallel)
	if err != nil {
		return nil, err
	}

	buffers := make([][]byte, len(results))
	for i, r := range results {
		buffers[i] = r.Audio
	}
	return merger.Merge(ctx, buffers)
}
