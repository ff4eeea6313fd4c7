package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Byte budgets for text submitted to the synthesis provider.
const (
	// HardCeiling is the provider's hard limit on the UTF-8 length of a single
	// synthesis request. Requests at or above it are rejected outright.
	HardCeiling = 5000

	// DefaultBudget is the working budget for plain text. Roughly half the
	// ceiling, leaving headroom for pacing markup added after chunking.
	DefaultBudget = 2500

	// MultiSceneBudget is the working budget when markup is not used and
	// chunks go to the provider nearly as-is.
	MultiSceneBudget = 4800

	// MinBudget is the smallest budget the chunker accepts. Below this even a
	// single multi-byte rune plus a short decimal cannot be placed.
	MinBudget = 8
)

// Chunker splits narration text into ordered chunks whose UTF-8 encoding
// never exceeds the configured byte budget. Splitting degrades through tiers:
// sentence boundaries first, comma-class separators for oversized sentences,
// and a forced byte-level cut as last resort.
type Chunker struct {
	budget     int
	strategies []SplitStrategy
}

// NewChunker creates a Chunker for the given byte budget.
func NewChunker(budget int) (*Chunker, error) {
	if budget < MinBudget {
		return nil, fmt.Errorf("%w: %d bytes (minimum %d)", ErrBudgetTooSmall, budget, MinBudget)
	}
	return &Chunker{
		budget: budget,
		strategies: []SplitStrategy{
			sentenceSplit{},
			commaSplit{},
			forcedByteSplit{budget: budget},
		},
	}, nil
}

// Budget returns the configured byte budget.
func (c *Chunker) Budget() int {
	return c.budget
}

// Chunk splits text into chunks of at most the configured budget.
// Whitespace is normalized: chunks stripped and joined with single spaces
// reproduce the normalized input. Returns nil only for empty input; any
// non-empty input yields at least one chunk.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		// Whitespace-only input still honors the non-empty contract.
		return []string{truncateToBytes(text, c.budget)}
	}

	protected := protectDecimals(normalized)
	pieces := c.fit([]string{protected}, 0)
	chunks := c.pack(pieces)

	for i, chunk := range chunks {
		chunks[i] = restoreDecimals(chunk)
	}

	if len(chunks) == 0 {
		return []string{truncateToBytes(normalized, c.budget)}
	}
	return chunks
}

// SplitSentences splits text on sentence-terminal punctuation, keeping the
// terminal attached to its sentence. Decimal periods are protected from being
// treated as terminals.
func SplitSentences(text string) []string {
	sentences := sentenceSplit{}.Split(protectDecimals(text))
	for i, s := range sentences {
		sentences[i] = restoreDecimals(s)
	}
	return sentences
}

// fit applies the split tier at index tier to every oversized piece, then
// recurses into the next tier for anything still too large. Pieces already
// inside the budget pass through untouched.
func (c *Chunker) fit(pieces []string, tier int) []string {
	if tier >= len(c.strategies) {
		return pieces
	}

	var out []string
	for _, p := range pieces {
		if len(p) <= c.budget {
			out = append(out, p)
			continue
		}
		sub := c.strategies[tier].Split(p)
		out = append(out, c.fit(sub, tier+1)...)
	}
	return out
}

// pack greedily accumulates pieces into chunks, closing a chunk when adding
// the next piece (with its joining space) would overflow the budget.
func (c *Chunker) pack(pieces []string) []string {
	var chunks []string
	var cur strings.Builder

	for _, p := range pieces {
		if p == "" {
			continue
		}
		if cur.Len() == 0 {
			cur.WriteString(p)
			continue
		}
		if cur.Len()+1+len(p) <= c.budget {
			cur.WriteString(" ")
			cur.WriteString(p)
			continue
		}
		chunks = append(chunks, cur.String())
		cur.Reset()
		cur.WriteString(p)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}

	return chunks
}

// truncateToBytes returns the longest prefix of s that fits in budget bytes
// without cutting a rune in half.
func truncateToBytes(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	for budget > 0 && !utf8.RuneStart(s[budget]) {
		budget--
	}
	return s[:budget]
}
