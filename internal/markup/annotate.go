// Package markup annotates narration chunks with SSML pacing markup for
// emotionally heavy sentences. Annotation never grows a chunk past the
// provider's hard byte ceiling: when the marked-up envelope would be rejected
// for size, the plain text is kept instead.
package markup

import (
	"fmt"
	"math"
	"strings"

	"github.com/alnah/go-narrate/internal/chunk"
)

const (
	// MinRate is the slowest speaking rate the provider accepts.
	MinRate = 0.25

	// slowdown applied to the base speaking rate for trigger sentences.
	slowdown = 0.9

	// Pause lengths surrounding a slowed sentence.
	preBreak  = "300ms"
	postBreak = "200ms"
)

// ssmlEscaper escapes characters reserved by SSML before text is embedded in
// markup. Ampersand is listed first; Replacer scans left to right without
// re-examining replacements, so ordering is safe either way, but keeping it
// first mirrors the usual escaping convention.
var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Annotator wraps trigger sentences in pacing markup.
// Stateless across chunks; safe for concurrent use.
type Annotator struct {
	ceiling int
	lexicon []string
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithCeiling overrides the hard byte ceiling used to validate the
// marked-up envelope. Default: chunk.HardCeiling.
func WithCeiling(n int) Option {
	return func(a *Annotator) {
		if n > 0 {
			a.ceiling = n
		}
	}
}

// WithLexicon replaces the trigger lexicon.
func WithLexicon(phrases []string) Option {
	return func(a *Annotator) {
		a.lexicon = phrases
	}
}

// NewAnnotator creates an Annotator with the default lexicon and ceiling.
func NewAnnotator(opts ...Option) *Annotator {
	a := &Annotator{
		ceiling: chunk.HardCeiling,
		lexicon: defaultLexicon(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate scans each sentence of text against the trigger lexicon. Trigger
// sentences are wrapped in break/prosody markup at 90% of baseRate (clamped
// to MinRate); the whole chunk is then wrapped in a speak envelope.
//
// Returns the content to transmit and whether it is markup. If no sentence
// matches, or the envelope's byte length reaches the hard ceiling, the
// original text is returned unchanged with isMarkup=false.
func (a *Annotator) Annotate(text string, baseRate float64) (content string, isMarkup bool) {
	sentences := chunk.SplitSentences(text)

	matched := false
	var b strings.Builder
	for i, s := range sentences {
		if i > 0 {
			b.WriteString(" ")
		}
		escaped := ssmlEscaper.Replace(s)
		if !a.triggered(s) {
			b.WriteString(escaped)
			continue
		}
		matched = true
		rate := baseRate * slowdown
		if rate < MinRate {
			rate = MinRate
		}
		fmt.Fprintf(&b, `<break time="%s"/><prosody rate="%d%%">%s</prosody><break time="%s"/>`,
			preBreak, int(math.Round(rate*100)), escaped, postBreak)
	}

	if !matched {
		return text, false
	}

	wrapped := "<speak>" + b.String() + "</speak>"
	if len(wrapped) >= a.ceiling {
		// Oversized markup must never cause the provider to reject the
		// request; fall back to the plain chunk.
		return text, false
	}
	return wrapped, true
}

// triggered reports whether any lexicon phrase occurs in the sentence.
func (a *Annotator) triggered(sentence string) bool {
	for _, phrase := range a.lexicon {
		if strings.Contains(sentence, phrase) {
			return true
		}
	}
	return false
}
