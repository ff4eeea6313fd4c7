// Package caption re-segments narration into display-sized caption units,
// converts spoken numerals to digits for display, and renders SRT/VTT text.
// Caption budgets are character-counted, unlike the byte budgets used for
// synthesis chunking.
package caption

import (
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-narrate/internal/chunk"
)

// Display budgets.
const (
	// DefaultMaxChars is the widest caption line that stays legible on a
	// standard 16:9 frame. Callers with narrower layouts configure smaller
	// values through WithMaxChars.
	DefaultMaxChars = 35

	// DefaultMinChars is the threshold below which a unit is merged with its
	// neighbor rather than flashed on its own.
	DefaultMinChars = 10
)

// Korean clause connectors that make acceptable split points inside an
// oversized sentence. Checked as suffixes of the text accumulated so far,
// longest first so 면서 wins over 면.
var clauseConnectors = []string{"면서", "는데", "지만", "니까", "고", "며", "면"}

// Segmenter splits narration into caption units bounded by a character
// budget.
type Segmenter struct {
	maxChars int
	minChars int
}

// SegmenterOption configures a Segmenter.
type SegmenterOption func(*Segmenter)

// WithMaxChars sets the maximum characters per caption unit.
func WithMaxChars(n int) SegmenterOption {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithMinChars sets the merge threshold for short units.
func WithMinChars(n int) SegmenterOption {
	return func(s *Segmenter) {
		if n > 0 {
			s.minChars = n
		}
	}
}

// NewSegmenter creates a Segmenter with the default budgets.
func NewSegmenter(opts ...SegmenterOption) *Segmenter {
	s := &Segmenter{
		maxChars: DefaultMaxChars,
		minChars: DefaultMinChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxChars returns the configured character budget.
func (s *Segmenter) MaxChars() int {
	return s.maxChars
}

// Segment splits text into ordered caption units. Every unit is non-empty
// after trimming and, except for indivisible single tokens, at most maxChars
// characters per display line. A unit may contain a single newline separating
// two display lines produced by the short-unit merge pass.
//
// Returns nil for empty or whitespace-only input; any input with visible
// content yields at least one unit.
func (s *Segmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var units []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, sentence := range chunk.SplitSentences(line) {
			units = append(units, s.fit(sentence)...)
		}
	}

	units = s.mergeShort(units)

	if len(units) == 0 {
		return []string{truncateToRunes(strings.TrimSpace(text), s.maxChars)}
	}
	return units
}

// fit returns sentence as one unit when it fits, otherwise re-splits it at
// connector boundaries, then whitespace, then a hard character cut.
func (s *Segmenter) fit(sentence string) []string {
	if utf8.RuneCountInString(sentence) <= s.maxChars {
		return []string{sentence}
	}

	var out []string
	for _, piece := range s.packPieces(splitConnectors(sentence)) {
		if utf8.RuneCountInString(piece) <= s.maxChars {
			out = append(out, piece)
			continue
		}
		out = append(out, s.splitWords(piece)...)
	}
	return out
}

// packPieces greedily rejoins connector pieces up to the character budget so
// a split sentence does not shatter into fragments.
func (s *Segmenter) packPieces(pieces []string) []string {
	var packed []string
	var cur strings.Builder
	curLen := 0

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if curLen == 0 {
			cur.WriteString(p)
			curLen = n
			continue
		}
		if curLen+1+n <= s.maxChars {
			cur.WriteString(" ")
			cur.WriteString(p)
			curLen += 1 + n
			continue
		}
		packed = append(packed, cur.String())
		cur.Reset()
		cur.WriteString(p)
		curLen = n
	}
	if curLen > 0 {
		packed = append(packed, cur.String())
	}

	return packed
}

// splitWords packs whitespace-separated words into budget-sized units,
// hard-cutting any single word longer than the budget.
func (s *Segmenter) splitWords(text string) []string {
	var out []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if n > s.maxChars {
			flush()
			out = append(out, hardCutRunes(word, s.maxChars)...)
			continue
		}
		if curLen > 0 && curLen+1+n > s.maxChars {
			flush()
		}
		if curLen > 0 {
			cur.WriteString(" ")
			curLen++
		}
		cur.WriteString(word)
		curLen += n
	}
	flush()

	return out
}

// mergeShort folds units below the minimum threshold into the following unit,
// or into the preceding one for the final unit. When the combined text would
// exceed the budget the two parts become two display lines of one caption.
func (s *Segmenter) mergeShort(units []string) []string {
	var merged []string

	for i := 0; i < len(units); i++ {
		u := units[i]
		if utf8.RuneCountInString(u) >= s.minChars {
			merged = append(merged, u)
			continue
		}

		if i+1 < len(units) {
			units[i+1] = s.join(u, units[i+1])
			continue
		}

		// Short final unit: merge backwards.
		if len(merged) > 0 {
			merged[len(merged)-1] = s.join(merged[len(merged)-1], u)
			continue
		}
		merged = append(merged, u)
	}

	return merged
}

// join combines two unit texts into one line when the result fits the budget,
// otherwise into two display lines.
func (s *Segmenter) join(a, b string) string {
	if utf8.RuneCountInString(a)+1+utf8.RuneCountInString(b) <= s.maxChars {
		return a + " " + b
	}
	return a + "\n" + b
}

// splitConnectors splits a sentence after comma-class separators and Korean
// clause connectors followed by a space.
func splitConnectors(sentence string) []string {
	var pieces []string
	var b strings.Builder

	runes := []rune(sentence)
	for i, r := range runes {
		b.WriteRune(r)
		if !isConnectorBoundary(b.String(), r, runes, i) {
			continue
		}
		if p := strings.TrimSpace(b.String()); p != "" {
			pieces = append(pieces, p)
		}
		b.Reset()
	}
	if p := strings.TrimSpace(b.String()); p != "" {
		pieces = append(pieces, p)
	}

	return pieces
}

// isConnectorBoundary reports whether the text accumulated so far ends at a
// valid split point: a comma-class separator, or a clause connector with a
// space following.
func isConnectorBoundary(acc string, r rune, runes []rune, i int) bool {
	if strings.ContainsRune(",，、", r) {
		return true
	}
	if i+1 >= len(runes) || runes[i+1] != ' ' {
		return false
	}
	for _, c := range clauseConnectors {
		if strings.HasSuffix(acc, c) {
			return true
		}
	}
	return false
}

// hardCutRunes slices s into pieces of at most max runes.
func hardCutRunes(s string, max int) []string {
	var out []string
	runes := []rune(s)
	for len(runes) > max {
		out = append(out, string(runes[:max]))
		runes = runes[max:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// truncateToRunes returns the first max runes of s.
func truncateToRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
