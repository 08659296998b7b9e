package utils

import "math/bits"

// Truncate returns s truncated to maxLen characters, with "..." appended if
// truncated. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// SplitWords splits text on whitespace and returns the non-empty words.
func SplitWords(text string) []string {
	var words []string
	word := ""
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			if word != "" {
				words = append(words, word)
				word = ""
			}
		} else {
			word += string(r)
		}
	}
	if word != "" {
		words = append(words, word)
	}
	return words
}

// HashString returns a non-negative deterministic hash of s. The sign bit
// is cleared rather than negated; negation leaves the minimum int negative.
func HashString(s string) int {
	var h uint
	for _, c := range s {
		h = 31*h + uint(c)
	}
	return int(h &^ (1 << (bits.UintSize - 1)))
}
