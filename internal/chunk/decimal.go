package chunk

import (
	"regexp"
	"strings"
)

// decimalPlaceholder stands in for the period of a decimal number while text
// is being split, so "2.6" is never mistaken for a sentence boundary.
// A private-use rune is used because it cannot occur in real narration.
const decimalPlaceholder = '\uE000'

var decimalRe = regexp.MustCompile(`(\d)\.(\d)`)

// protectDecimals replaces every digit-period-digit occurrence with the
// placeholder. Runs of decimals like "1.2.3" need repeated passes because a
// match consumes the digit shared with the next match.
func protectDecimals(s string) string {
	for decimalRe.MatchString(s) {
		s = decimalRe.ReplaceAllString(s, "${1}\uE000${2}")
	}
	return s
}

// restoreDecimals reverses protectDecimals.
func restoreDecimals(s string) string {
	return strings.ReplaceAll(s, string(decimalPlaceholder), ".")
}
