// Package ingest backfills catalog embeddings: it finds products without a
// stored vector, builds an embedding document from their text fields, and
// writes the resulting vectors back through the storage layer using a bounded
// worker pool.
package ingest
