package keyword

import (
	"strings"

	"github.com/talentsift/assessrec/pkg/types"
)

// Field boost multipliers. Matches in the product name count three times as
// much as matches in the description.
const (
	boostName        = 3.0
	boostTestType    = 2.5
	boostJobLevels   = 2.0
	boostDescription = 1.0
)

const (
	// partialCredit scales substring matches relative to exact matches.
	partialCredit = 0.5

	// capabilityBoost is added to both numerator and denominator when a
	// query asks for a capability the item supports.
	capabilityBoost = 2.0
)

// fieldIndex holds the tokenized terms of one item field along with the
// field's boost. Terms keep first-appearance order so substring scanning is
// deterministic.
type fieldIndex struct {
	terms   []string
	weights map[string]float64
	boost   float64
}

func indexField(text string, boost float64) fieldIndex {
	tokens := Tokenize(text)
	weights := TermWeights(tokens)

	terms := make([]string, 0, len(weights))
	seen := make(map[string]struct{}, len(weights))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
	}

	return fieldIndex{terms: terms, weights: weights, boost: boost}
}

// Score computes the field-boosted keyword match score of an item against a
// query token sequence. The result is in [0, 1]: the achieved match weight
// divided by the maximum possible weight, clamped at 1. An empty query (or
// an item with no tokenizable fields) scores 0.
func Score(queryTokens []string, item *types.CatalogItem) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	queryWeights := TermWeights(queryTokens)
	distinct := distinctInOrder(queryTokens)

	fields := []fieldIndex{
		indexField(item.Name, boostName),
		indexField(item.TestTypeCodes, boostTestType),
		indexField(item.JobLevels, boostJobLevels),
		indexField(item.Description, boostDescription),
	}

	var matched, maxPossible float64

	for _, token := range distinct {
		w := queryWeights[token]
		for _, field := range fields {
			maxPossible += w * field.boost

			if fw, ok := field.weights[token]; ok {
				matched += w * fw * field.boost
				continue
			}

			// Fuzzy fallback: first field term related by substring in
			// either direction earns partial credit.
			for _, term := range field.terms {
				if strings.Contains(token, term) || strings.Contains(term, token) {
					matched += w * field.weights[term] * field.boost * partialCredit
					break
				}
			}
		}
	}

	if containsToken(distinct, "remote") && item.SupportsRemote() {
		matched += capabilityBoost
		maxPossible += capabilityBoost
	}
	if (containsToken(distinct, "adaptive") || containsToken(distinct, "irt")) && item.SupportsAdaptive() {
		matched += capabilityBoost
		maxPossible += capabilityBoost
	}

	if maxPossible == 0 {
		return 0
	}

	score := matched / maxPossible
	if score > 1 {
		score = 1
	}
	return score
}

// distinctInOrder returns the distinct tokens preserving first appearance.
func distinctInOrder(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func containsToken(tokens []string, want string) bool {
	for _, token := range tokens {
		if token == want {
			return true
		}
	}
	return false
}
