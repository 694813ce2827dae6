// Package analyzer provides text tokenization for indexing and querying.
package analyzer

import (
	"strings"
	"unicode"
)

// minTokenLen drops single-character fragments so punctuation noise
// ("a", "I", stray digits) never enters the vocabulary.
const minTokenLen = 2

// Tokenize splits text into lowercase terms on non-alphanumeric boundaries.
// The same rule is applied to documents and queries so both project into the
// same term space. Tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	words := splitWords(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(word)
		if len([]rune(word)) < minTokenLen {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// TermCounts returns raw term counts for text.
func TermCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// splitWords splits text into words using unicode letter/digit boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
