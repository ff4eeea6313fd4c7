// Package merge joins per-chunk synthesis results into one continuous audio
// asset. The external encoder produces a container-correct file; when the
// encoder is missing or fails, the merger degrades to ordered raw byte
// concatenation so a merge call never hard-fails.
package merge

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Merger concatenates ordered audio buffers.
type Merger struct {
	enc     Encoder
	tempDir tempDirCreator
	files   fileStore
	remover fileRemover
	logger  zerolog.Logger
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithLogger sets the logger for fallback conditions.
func WithLogger(l zerolog.Logger) MergerOption {
	return func(m *Merger) {
		m.logger = l
	}
}

// WithTempDirCreator sets the temp directory creator (for testing).
func WithTempDirCreator(t tempDirCreator) MergerOption {
	return func(m *Merger) {
		m.tempDir = t
	}
}

// WithFileStore sets the file store (for testing).
func WithFileStore(fs fileStore) MergerOption {
	return func(m *Merger) {
		m.files = fs
	}
}

// WithFileRemover sets the file remover (for testing).
func WithFileRemover(r fileRemover) MergerOption {
	return func(m *Merger) {
		m.remover = r
	}
}

// NewMerger creates a Merger backed by enc. A nil enc is allowed and routes
// every multi-buffer merge through the raw concatenation fallback.
func NewMerger(enc Encoder, opts ...MergerOption) *Merger {
	m := &Merger{
		enc:     enc,
		tempDir: osTempDirCreator{},
		files:   osFileStore{},
		remover: osFileRemover{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge concatenates buffers in order into one audio asset.
// Zero buffers yield nil; a single buffer is returned unchanged. Temp files
// are scoped to the call and removed on every exit path.
func (m *Merger) Merge(ctx context.Context, buffers [][]byte) ([]byte, error) {
	switch len(buffers) {
	case 0:
		return nil, nil
	case 1:
		return buffers[0], nil
	}

	if m.enc == nil {
		m.logger.Warn().Int("buffers", len(buffers)).
			Msg("no encoder available, using raw concatenation")
		return rawConcat(buffers), nil
	}

	merged, err := m.encodeConcat(ctx, buffers)
	if err != nil {
		m.logger.Warn().Err(err).Int("buffers", len(buffers)).
			Msg("encoder concat failed, using raw concatenation")
		return rawConcat(buffers), nil
	}
	return merged, nil
}

// encodeConcat writes each buffer to a scoped temp location and invokes the
// encoder on the ordered list.
func (m *Merger) encodeConcat(ctx context.Context, buffers [][]byte) ([]byte, error) {
	dir, err := m.tempDir.MkdirTemp("", "go-narrate-merge-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = m.remover.RemoveAll(dir) }() // best-effort cleanup on every exit path

	inputs := make([]string, len(buffers))
	for i, buf := range buffers {
		p := filepath.Join(dir, fmt.Sprintf("chunk_%03d.mp3", i))
		if err := m.files.WriteFile(p, buf, 0600); err != nil {
			return nil, fmt.Errorf("write chunk %d: %w", i, err)
		}
		inputs[i] = p
	}

	outPath := filepath.Join(dir, "merged.mp3")
	if err := m.enc.Concat(ctx, inputs, outPath); err != nil {
		return nil, err
	}

	merged, err := m.files.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read merged output: %w", err)
	}
	return merged, nil
}

// rawConcat joins buffers byte-for-byte in order. Schema-invalid for strict
// decoders of compressed formats, but still playable for simple streams.
func rawConcat(buffers [][]byte) []byte {
	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	out := make([]byte, 0, total)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out
}
