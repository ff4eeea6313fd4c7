// Package pipeline wires chunking, annotation, synthesis and merging into the
// narration flow, and segmentation, timing and rendering into the caption
// flow. All state is request-scoped; nothing is shared across requests.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-narrate/internal/chunk"
	"github.com/alnah/go-narrate/internal/markup"
	"github.com/alnah/go-narrate/internal/merge"
	"github.com/alnah/go-narrate/internal/synth"
)

// MaxRecommendedParallel is the recommended upper limit for concurrent scene
// synthesis. Higher values risk provider rate limiting.
const MaxRecommendedParallel = 4

// Pipeline runs the narration flow. Chunks within one narration are always
// synthesized sequentially in order; parallelism exists only across
// independent scenes.
type Pipeline struct {
	chunker   *chunk.Chunker
	annotator *markup.Annotator
	synth     synth.Synthesizer
	merger    *merge.Merger
	logger    zerolog.Logger
	useMarkup bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMarkup toggles emotion-conditioned pacing markup. Only effective with
// providers that support SSML.
func WithMarkup(enabled bool) Option {
	return func(p *Pipeline) {
		p.useMarkup = enabled
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithChunker replaces the default chunker.
func WithChunker(c *chunk.Chunker) Option {
	return func(p *Pipeline) {
		p.chunker = c
	}
}

// WithAnnotator replaces the default annotator.
func WithAnnotator(a *markup.Annotator) Option {
	return func(p *Pipeline) {
		p.annotator = a
	}
}

// New creates a Pipeline around a synthesizer and merger.
// The chunk budget defaults to the markup headroom budget when annotation is
// in play, and to the larger plain-text budget otherwise.
func New(s synth.Synthesizer, m *merge.Merger, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		annotator: markup.NewAnnotator(),
		synth:     s,
		merger:    m,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.chunker == nil {
		budget := chunk.MultiSceneBudget
		if p.useMarkup && s.SupportsSSML() {
			budget = chunk.DefaultBudget
		}
		chunker, err := chunk.NewChunker(budget)
		if err != nil {
			return nil, err
		}
		p.chunker = chunker
	}

	return p, nil
}

// NarrateRequest is one narration-to-audio job.
type NarrateRequest struct {
	Text  string
	Voice string
	Speed float64 // speaking rate, 1.0 = normal; 0 selects the default
	Pitch float64
}

// Result is the outcome of one narration job.
type Result struct {
	JobID  uuid.UUID
	Audio  []byte
	Chunks int
	Marked int // chunks that carried pacing markup
}

// Narrate runs the full flow for one narration: chunk, annotate, synthesize
// sequentially in chunk order, merge. Unexpected panics are caught here and
// returned as a wrapped ErrInternal; the host process never crashes on a
// request.
func (p *Pipeline) Narrate(ctx context.Context, req NarrateRequest) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if strings.TrimSpace(req.Text) == "" {
		return Result{}, ErrEmptyNarration
	}

	result.JobID = uuid.New()
	baseRate := req.Speed
	if baseRate <= 0 {
		baseRate = 1.0
	}

	chunks := p.chunker.Chunk(req.Text)
	result.Chunks = len(chunks)

	annotate := p.useMarkup && p.synth.SupportsSSML()
	reqs := make([]synth.Request, len(chunks))
	for i, c := range chunks {
		content, marked := c, false
		if annotate {
			content, marked = p.annotator.Annotate(c, baseRate)
		}
		if marked {
			result.Marked++
		}
		reqs[i] = synth.Request{
			Text:  content,
			SSML:  marked,
			Voice: req.Voice,
			Speed: req.Speed,
			Pitch: req.Pitch,
		}
	}

	p.logger.Debug().
		Stringer("job", result.JobID).
		Int("chunks", result.Chunks).
		Int("marked", result.Marked).
		Msg("synthesizing narration")

	buffers, err := synth.SynthesizeAll(ctx, reqs, p.synth)
	if err != nil {
		return Result{}, err
	}

	audio, err := p.merger.Merge(ctx, buffers)
	if err != nil {
		return Result{}, err
	}
	result.Audio = audio

	return result, nil
}

// Scene is one independent narration within a multi-scene job.
type Scene struct {
	ID    string
	Text  string
	Voice string
	Speed float64
	Pitch float64
}

// NarrateScenes synthesizes multiple independent scenes with bounded
// parallelism. Chunk order within each scene stays strictly sequential;
// results are returned in scene order. The first failing scene aborts the
// rest.
func (p *Pipeline) NarrateScenes(ctx context.Context, scenes []Scene, maxParallel int) ([]Result, error) {
	if len(scenes) == 0 {
		return nil, nil
	}
	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]Result, len(scenes))
	// Semaphore channel for concurrency control.
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, scene := range scenes {
		i, scene := i, scene
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			res, err := p.Narrate(ctx, NarrateRequest{
				Text:  scene.Text,
				Voice: scene.Voice,
				Speed: scene.Speed,
				Pitch: scene.Pitch,
			})
			if err != nil {
				return fmt.Errorf("scene %d (%s): %w", i, scene.ID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
