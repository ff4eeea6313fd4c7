package chunk

import "strings"

// Separator classes used by the split tiers.
const (
	sentenceTerminals = ".!?。！？…"
	commaSeparators   = ",，、"
)

// Compile-time interface implementation checks.
var (
	_ SplitStrategy = sentenceSplit{}
	_ SplitStrategy = commaSplit{}
	_ SplitStrategy = forcedByteSplit{}
)

// SplitStrategy produces candidate pieces from text that did not fit the byte
// budget at the previous tier. Strategies are applied in a fixed order, each
// engaged only for pieces the previous tier left oversized.
type SplitStrategy interface {
	// Name identifies the strategy for logging.
	Name() string

	// Split breaks text into ordered pieces. Pieces are trimmed and non-empty.
	Split(text string) []string
}

// sentenceSplit splits on sentence-terminal punctuation, keeping the terminal
// attached to its sentence.
type sentenceSplit struct{}

func (sentenceSplit) Name() string { return "sentence" }

func (sentenceSplit) Split(text string) []string {
	return splitAfterAny(text, sentenceTerminals)
}

// commaSplit splits an oversized sentence on comma-class separators, keeping
// the separator attached to the left piece.
type commaSplit struct{}

func (commaSplit) Name() string { return "comma" }

func (commaSplit) Split(text string) []string {
	return splitAfterAny(text, commaSeparators)
}

// forcedByteSplit cuts text into pieces of at most budget bytes without regard
// to word boundaries. It still never cuts mid-rune and never separates the
// digits of a protected decimal. Last-resort tier: synthesis correctness, not
// aesthetics, is the priority here.
type forcedByteSplit struct {
	budget int
}

func (forcedByteSplit) Name() string { return "forced-byte" }

func (f forcedByteSplit) Split(text string) []string {
	var pieces []string
	var b strings.Builder

	flush := func() {
		if p := strings.TrimSpace(b.String()); p != "" {
			pieces = append(pieces, p)
		}
		b.Reset()
	}

	for _, atom := range atomize(text) {
		if len(atom) > f.budget {
			// An indivisible token larger than the whole budget: hard-cut it
			// at rune boundaries. Only reachable with degenerate inputs such
			// as digit runs longer than the budget.
			flush()
			for _, cut := range hardCut(atom, f.budget) {
				pieces = append(pieces, cut)
			}
			continue
		}
		if b.Len() > 0 && b.Len()+len(atom) > f.budget {
			flush()
		}
		b.WriteString(atom)
	}
	flush()

	return pieces
}

// atomize breaks text into indivisible units: maximal runs of digits and
// decimal placeholders stay whole, every other rune stands alone.
func atomize(text string) []string {
	var atoms []string
	var b strings.Builder

	isNumeric := func(r rune) bool {
		return (r >= '0' && r <= '9') || r == decimalPlaceholder
	}

	for _, r := range text {
		if isNumeric(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			atoms = append(atoms, b.String())
			b.Reset()
		}
		atoms = append(atoms, string(r))
	}
	if b.Len() > 0 {
		atoms = append(atoms, b.String())
	}

	return atoms
}

// hardCut slices s into rune-aligned pieces of at most budget bytes.
func hardCut(s string, budget int) []string {
	var pieces []string
	var b strings.Builder
	for _, r := range s {
		if b.Len()+len(string(r)) > budget {
			pieces = append(pieces, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}

// splitAfterAny splits text after every rune contained in seps, keeping the
// separator attached to the left piece. Runs of separators ("?!", "...") stay
// together. Pieces are trimmed; empty pieces are dropped.
func splitAfterAny(text, seps string) []string {
	var pieces []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if !strings.ContainsRune(seps, r) {
			continue
		}
		if i+1 < len(runes) && strings.ContainsRune(seps, runes[i+1]) {
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
