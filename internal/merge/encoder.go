package merge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-narrate/internal/ffmpeg"
)

// defaultConcatTimeout bounds a single encoder invocation.
const defaultConcatTimeout = 60 * time.Second

// Compile-time interface implementation check.
var _ Encoder = (*FFmpegEncoder)(nil)

// Encoder joins multiple encoded audio files into one container-correct
// output file. Implementations must be substitutable in tests so the raw
// concatenation fallback can be exercised deterministically.
type Encoder interface {
	// Concat joins inputs, in order, into outPath.
	Concat(ctx context.Context, inputs []string, outPath string) error
}

// FFmpegEncoder concatenates audio via FFmpeg's concat demuxer with stream
// copy, avoiding the duplicated container headers a byte-level join would
// produce for compressed formats.
type FFmpegEncoder struct {
	path    string
	timeout time.Duration
	files   fileStore
	cmd     commandRunner
}

// FFmpegEncoderOption configures an FFmpegEncoder.
type FFmpegEncoderOption func(*FFmpegEncoder)

// WithConcatTimeout sets the encoder invocation timeout.
func WithConcatTimeout(d time.Duration) FFmpegEncoderOption {
	return func(e *FFmpegEncoder) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithEncoderCommandRunner sets the command runner (for testing).
func WithEncoderCommandRunner(r commandRunner) FFmpegEncoderOption {
	return func(e *FFmpegEncoder) {
		e.cmd = r
	}
}

// WithEncoderFileStore sets the file store (for testing).
func WithEncoderFileStore(fs fileStore) FFmpegEncoderOption {
	return func(e *FFmpegEncoder) {
		e.files = fs
	}
}

// NewFFmpegEncoder creates an FFmpegEncoder for the binary at path.
func NewFFmpegEncoder(path string, opts ...FFmpegEncoderOption) (*FFmpegEncoder, error) {
	if path == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	e := &FFmpegEncoder{
		path:    path,
		timeout: defaultConcatTimeout,
		files:   osFileStore{},
		cmd:     osCommandRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Concat writes an ordered concat manifest next to outPath and invokes
// FFmpeg with the concat demuxer and stream copy.
func (e *FFmpegEncoder) Concat(ctx context.Context, inputs []string, outPath string) error {
	manifest := filepath.Join(filepath.Dir(outPath), "concat.txt")
	if err := e.files.WriteFile(manifest, []byte(concatManifest(inputs)), 0600); err != nil {
		return fmt.Errorf("%w: write manifest: %v", ErrConcatFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c", "copy",
		outPath,
	}
	output, err := e.cmd.CombinedOutput(ctx, e.path, args)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: concat killed after %v", ffmpeg.ErrTimeout, e.timeout)
		}
		return fmt.Errorf("%w: %v\nOutput: %s", ErrConcatFailed, err, string(output))
	}
	return nil
}

// concatManifest renders the concat demuxer file list. Single quotes in
// paths are escaped the way the demuxer expects.
func concatManifest(inputs []string) string {
	var b strings.Builder
	for _, in := range inputs {
		escaped := strings.ReplaceAll(in, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return b.String()
}
