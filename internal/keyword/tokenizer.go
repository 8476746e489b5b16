package keyword

import (
	"math"
	"strings"
	"unicode"
)

// minTokenLen is the minimum rune length for a token to survive filtering.
const minTokenLen = 3

// stopwords are discarded during tokenization. Tokens shorter than
// minTokenLen are dropped anyway, so only longer words are listed.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"with": {}, "that": {}, "this": {}, "from": {}, "have": {}, "has": {},
	"had": {}, "not": {}, "but": {}, "you": {}, "your": {}, "our": {},
	"can": {}, "will": {}, "would": {}, "should": {}, "into": {},
	"about": {}, "which": {}, "their": {}, "there": {}, "what": {},
	"when": {}, "where": {}, "who": {}, "how": {}, "all": {}, "any": {},
	"each": {}, "other": {}, "some": {}, "such": {}, "than": {},
	"them": {}, "then": {}, "they": {}, "these": {}, "those": {},
}

// Tokenize normalizes free text into a filtered token sequence. It
// lowercases the input, extracts maximal runs of letters, and discards
// stopwords and tokens shorter than three runes. Empty input yields an
// empty sequence.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		token := run.String()
		run.Reset()
		if len([]rune(token)) < minTokenLen {
			return
		}
		if _, stop := stopwords[token]; stop {
			return
		}
		tokens = append(tokens, token)
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			run.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// TermWeights computes log-dampened term weights for a token sequence. A
// token appearing once has weight 1.0; repeated occurrences grow the weight
// as 1 + ln(count).
func TermWeights(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}

	weights := make(map[string]float64, len(counts))
	for token, count := range counts {
		weights[token] = 1 + math.Log(float64(count))
	}
	return weights
}
