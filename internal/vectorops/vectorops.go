package vectorops

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two vectors of different lengths are
// compared. Callers treat this as a per-item skip, not a fatal error.
var ErrDimensionMismatch = errors.New("vector dimensions do not match")

// CosineSimilarity computes the cosine similarity between two equal-length
// vectors, in [-1, 1]. Vectors of different lengths produce
// ErrDimensionMismatch. Zero-magnitude vectors (including two empty
// vectors) yield 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Normalize returns a copy of v scaled to unit length. A zero vector is
// returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Average merges chunk embeddings into a single vector: the element-wise
// mean followed by L2 renormalization. A single vector is returned verbatim
// with no renormalization pass, since no averaging occurred. An empty input
// returns nil.
func Average(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	if len(vectors) == 1 {
		return vectors[0]
	}

	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sums[i] += float64(v[i])
		}
	}

	count := float64(len(vectors))
	averaged := make([]float32, dim)
	for i, s := range sums {
		averaged[i] = float32(s / count)
	}

	return Normalize(averaged)
}
