// Package ranker scores catalog items against a free-text query by blending
// semantic vector similarity with field-boosted keyword matching, and returns
// the top results in descending score order.
package ranker
