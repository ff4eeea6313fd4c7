package caption

import (
	"regexp"
	"strconv"
	"strings"
)

// Spoken-form Korean numerals are converted to digits for caption display
// only; the text sent to synthesis is never touched. Rules run in a fixed
// priority order - native tens+ones compounds before tens-only, before
// ones-only, before Sino-Korean sequences and large-unit compounds - so an
// already-converted substring is never converted again. The ordering is part
// of the contract.

var nativeTens = map[string]int{
	"열": 10, "스물": 20, "스무": 20, "서른": 30, "마흔": 40,
	"쉰": 50, "예순": 60, "일흔": 70, "여든": 80, "아흔": 90,
}

var nativeOnes = map[string]int{
	"하나": 1, "둘": 2, "셋": 3, "넷": 4, "다섯": 5,
	"여섯": 6, "일곱": 7, "여덟": 8, "아홉": 9,
	"한": 1, "두": 2, "세": 3, "네": 4,
}

var sinoDigits = map[rune]int{
	'영': 0, '공': 0, '일': 1, '이': 2, '삼': 3, '사': 4,
	'오': 5, '육': 6, '칠': 7, '팔': 8, '구': 9,
}

// Alternations reused across patterns. Longer forms come first so 넷 wins
// over 네 and 번째 over 번.
const (
	tensAlt    = `열|스물|스무|서른|마흔|쉰|예순|일흔|여든|아흔`
	onesAlt    = `하나|둘|셋|넷|다섯|여섯|일곱|여덟|아홉|한|두|세|네`
	counterAlt = `번째|시간|사람|가지|켤레|송이|그루|살|명|개|번|시|마리|잔|달|해|배|년|원|장`
	sinoAlt    = `[영공일이삼사오육칠팔구]`
)

// numeralRule is one (pattern, replacement) step of the conversion table.
type numeralRule struct {
	name string
	re   *regexp.Regexp
	repl func(re *regexp.Regexp, match string) string
}

var numeralRules = []numeralRule{
	{
		// 일흔여섯 (살) -> 76(살)
		name: "native-tens-ones",
		re:   regexp.MustCompile(`(` + tensAlt + `)(` + onesAlt + `)(?:\s*(` + counterAlt + `))?`),
		repl: func(re *regexp.Regexp, match string) string {
			m := re.FindStringSubmatch(match)
			return strconv.Itoa(nativeTens[m[1]]+nativeOnes[m[2]]) + m[3]
		},
	},
	{
		// 스무 살 -> 20살. Counter required: 열 alone is too ambiguous.
		name: "native-tens",
		re:   regexp.MustCompile(`(` + tensAlt + `)\s*(` + counterAlt + `)`),
		repl: func(re *regexp.Regexp, match string) string {
			m := re.FindStringSubmatch(match)
			return strconv.Itoa(nativeTens[m[1]]) + m[2]
		},
	},
	{
		// 세 마리 -> 3마리. Counter required for the same reason.
		name: "native-ones",
		re:   regexp.MustCompile(`(` + onesAlt + `)\s*(` + counterAlt + `)`),
		repl: func(re *regexp.Regexp, match string) string {
			m := re.FindStringSubmatch(match)
			return strconv.Itoa(nativeOnes[m[1]]) + m[2]
		},
	},
	{
		// Spelled-out digit strings, e.g. phone numbers: 공일공 -> 010.
		// Three or more digits required; shorter runs collide with ordinary
		// words too often.
		name: "sino-sequence",
		re:   regexp.MustCompile(sinoAlt + `{3,}`),
		repl: func(_ *regexp.Regexp, match string) string {
			var b strings.Builder
			for _, r := range match {
				b.WriteString(strconv.Itoa(sinoDigits[r]))
			}
			return b.String()
		},
	},
	{
		// 이십삼 -> 23, 백오 -> 105, 삼백육십오 -> 365.
		name: "sino-tens-hundreds",
		re:   regexp.MustCompile(sinoAlt + `?백(?:` + sinoAlt + `?십)?` + sinoAlt + `?|` + sinoAlt + `?십` + sinoAlt + `?`),
		repl: func(_ *regexp.Regexp, match string) string {
			// A bare unit word (백지, 십자가) is not a numeral.
			if match == "백" || match == "십" {
				return match
			}
			return strconv.Itoa(parseSino(match))
		},
	},
	{
		// Large units with a single leading digit: 오천 -> 5000, 삼만 -> 30000.
		name: "sino-large-unit",
		re:   regexp.MustCompile(sinoAlt + `[천만]`),
		repl: func(_ *regexp.Regexp, match string) string {
			return strconv.Itoa(parseSino(match))
		},
	},
}

// ToDigits applies the numeral conversion table to s in rule order.
func ToDigits(s string) string {
	for _, rule := range numeralRules {
		re := rule.re
		repl := rule.repl
		s = re.ReplaceAllStringFunc(s, func(match string) string {
			return repl(re, match)
		})
	}
	return s
}

// parseSino evaluates a Sino-Korean numeral compound built from digit words
// and the units 십/백/천/만.
func parseSino(s string) int {
	total := 0
	digit := 0
	for _, r := range s {
		if d, ok := sinoDigits[r]; ok {
			digit = d
			continue
		}
		unit := 0
		switch r {
		case '십':
			unit = 10
		case '백':
			unit = 100
		case '천':
			unit = 1000
		case '만':
			unit = 10000
		}
		if digit == 0 {
			digit = 1
		}
		total += digit * unit
		digit = 0
	}
	return total + digit
}
