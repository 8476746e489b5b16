// Package types provides shared type definitions for the assessrec
// recommendation engine.
//
// CatalogItem is the read-only snapshot of an assessment product as loaded
// from the catalog store, including its pre-computed embedding:
//
//	item := types.CatalogItem{
//	    Name:          "Verify - Numerical Reasoning",
//	    URL:           "https://example.com/products/verify-numerical-reasoning",
//	    TestTypeCodes: "A",
//	    JobLevels:     "Entry Level, Mid-Level",
//	    Embedding:     vector,
//	}
//
// ScoredItem pairs a CatalogItem with the three scores produced by a single
// ranking call: the raw cosine similarity, the field-boosted keyword score,
// and the weighted combination the results are ordered by.
package types
