// Package timeline assigns start/end times to caption units, either from the
// real duration of synthesized audio or from a speaking-rate heuristic.
package timeline

import (
	"time"
	"unicode/utf8"
)

// Timing constants.
const (
	// Gap is the fixed pause inserted between consecutive captions.
	Gap = 200 * time.Millisecond

	// MinUnitDuration and MaxUnitDuration clamp each caption's display time,
	// avoiding zero-length flashes and captions that linger too long.
	MinUnitDuration = 1 * time.Second
	MaxUnitDuration = 10 * time.Second

	// DefaultCharsPerSecond is the heuristic Korean narration speaking rate
	// used when no real audio duration is available.
	DefaultCharsPerSecond = 5.0
)

// Span is one caption's place on the timeline.
type Span struct {
	Index int // zero-based unit index
	Start time.Duration
	End   time.Duration
}

// Mode selects how per-character duration is derived.
// Implementations: RealDuration, RateHeuristic.
type Mode interface {
	secondsPerChar(totalChars int) float64
}

// RealDuration distributes a known total audio duration across units in
// proportion to their character counts.
type RealDuration struct {
	Total float64 // seconds
}

func (m RealDuration) secondsPerChar(totalChars int) float64 {
	return m.Total / float64(max(1, totalChars))
}

// RateHeuristic estimates duration from a base speaking rate in characters
// per second, adjusted by a speed parameter: each speed step shortens
// per-character duration by 10%.
type RateHeuristic struct {
	BaseCharsPerSecond float64
	Speed              float64
}

func (m RateHeuristic) secondsPerChar(int) float64 {
	base := m.BaseCharsPerSecond
	if base <= 0 {
		base = DefaultCharsPerSecond
	}
	factor := 1 - m.Speed*0.1
	if factor < 0 {
		factor = 0
	}
	return factor / base
}

// Estimate places units sequentially on a timeline: the first starts at zero,
// each subsequent one starts a fixed Gap after its predecessor ends. Every
// duration is clamped to [MinUnitDuration, MaxUnitDuration], so end > start
// always holds.
func Estimate(units []string, mode Mode) []Span {
	if len(units) == 0 {
		return nil
	}

	totalChars := 0
	for _, u := range units {
		totalChars += utf8.RuneCountInString(u)
	}
	perChar := mode.secondsPerChar(totalChars)

	spans := make([]Span, len(units))
	cursor := time.Duration(0)
	for i, u := range units {
		seconds := float64(utf8.RuneCountInString(u)) * perChar
		d := time.Duration(seconds * float64(time.Second))
		if d < MinUnitDuration {
			d = MinUnitDuration
		}
		if d > MaxUnitDuration {
			d = MaxUnitDuration
		}

		if i > 0 {
			cursor += Gap
		}
		spans[i] = Span{Index: i, Start: cursor, End: cursor + d}
		cursor += d
	}

	return spans
}
