// Package vectorops provides the vector arithmetic used by the ranking
// pipeline: cosine similarity, L2 normalization, and element-wise averaging
// of chunk embeddings.
//
// CosineSimilarity reports a dimension mismatch as ErrDimensionMismatch so
// callers can skip the offending item and continue scanning; it is never a
// request-level failure. Zero-magnitude and empty vectors yield 0 rather
// than an error.
package vectorops
