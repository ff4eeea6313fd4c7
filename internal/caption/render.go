package caption

import (
	"fmt"
	"strings"

	"github.com/alnah/go-narrate/internal/format"
	"github.com/alnah/go-narrate/internal/timeline"
)

// Style selects the subtitle output format.
type Style string

// Supported styles.
const (
	StyleSRT Style = "srt"
	StyleVTT Style = "vtt"
)

// DefaultTag is the narrator speaker label. Entries carrying it (or no tag)
// are rendered without a speaker prefix.
const DefaultTag = "나레이션"

// Entry is one caption awaiting rendering.
type Entry struct {
	Text string
	Tag  string // speaker label; empty or DefaultTag adds no prefix
}

// Render formats caption entries and their timeline spans as subtitle text.
// Spoken numerals in entry text are converted to digit form here, at the
// display boundary, leaving the synthesis text untouched.
func Render(entries []Entry, spans []timeline.Span, style Style) (string, error) {
	if len(entries) != len(spans) {
		return "", fmt.Errorf("%w: %d entries, %d spans", ErrMismatchedTimeline, len(entries), len(spans))
	}

	switch style {
	case StyleSRT:
		return renderSRT(entries, spans), nil
	case StyleVTT:
		return renderVTT(entries, spans), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
}

func renderSRT(entries []Entry, spans []timeline.Span) string {
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			format.SRTTimestamp(spans[i].Start),
			format.SRTTimestamp(spans[i].End),
			displayText(e))
	}
	return b.String()
}

func renderVTT(entries []Entry, spans []timeline.Span) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			format.VTTTimestamp(spans[i].Start),
			format.VTTTimestamp(spans[i].End),
			displayText(e))
	}
	return b.String()
}

// displayText applies numeral conversion and the speaker prefix.
func displayText(e Entry) string {
	text := ToDigits(e.Text)
	if e.Tag != "" && e.Tag != DefaultTag {
		return e.Tag + ": " + text
	}
	return text
}
