package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength drops single character tokens ("c", "r", stray initials)
const minTokenLength = 2

// Tokenize lowercases text and splits it into word tokens.
// A token is a run of letters, digits or underscores at least two runes long;
// every other rune is a separator. No stemming is applied.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= minTokenLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// termCounts returns the raw frequency of each token in text
func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, token := range Tokenize(text) {
		counts[token]++
	}
	return counts
}
