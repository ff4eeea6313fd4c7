package pipeline

import (
	"strings"

	"github.com/alnah/go-narrate/internal/caption"
	"github.com/alnah/go-narrate/internal/timeline"
)

// CaptionRequest describes one narration-to-subtitles job.
type CaptionRequest struct {
	Text     string
	Style    caption.Style // empty selects SRT
	MaxChars int           // per-line character budget; 0 selects the default
	Tag      string        // speaker label; empty means the plain narrator

	// AudioDuration is the length of the synthesized audio in seconds.
	// When positive, caption timing distributes it across units; otherwise
	// timing falls back to a speaking-rate heuristic adjusted by Speed.
	AudioDuration float64
	Speed         float64
}

// BuildCaptions segments narration text, estimates a timeline and renders
// subtitle output in one pass.
func BuildCaptions(req CaptionRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyNarration
	}

	var opts []caption.SegmenterOption
	if req.MaxChars > 0 {
		opts = append(opts, caption.WithMaxChars(req.MaxChars))
	}
	units := caption.NewSegmenter(opts...).Segment(req.Text)

	var mode timeline.Mode
	if req.AudioDuration > 0 {
		mode = timeline.RealDuration{Total: req.AudioDuration}
	} else {
		mode = timeline.RateHeuristic{
			BaseCharsPerSecond: timeline.DefaultCharsPerSecond,
			Speed:              req.Speed,
		}
	}
	spans := timeline.Estimate(units, mode)

	entries := make([]caption.Entry, len(units))
	for i, u := range units {
		entries[i] = caption.Entry{Text: u, Tag: req.Tag}
	}

	style := req.Style
	if style == "" {
		style = caption.StyleSRT
	}
	return caption.Render(entries, spans, style)
}
