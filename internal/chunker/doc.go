// Package chunker splits long text into overlapping, sentence-aligned
// chunks so it can be embedded within a provider's input-size limit.
//
// Texts at or below MaxDirectChars are embedded in one call and never pass
// through Split. Longer texts are cut into chunks of at most
// DefaultChunkSize characters with DefaultOverlap characters of shared
// context between consecutive chunks. Cut points prefer the nearest
// sentence terminator scanning backward from the naive boundary, down to at
// most half a chunk back; a chunk with no terminator in that window is cut
// at the naive boundary.
//
// The chunk size and overlap are tuning constants for the embedding model's
// token budget, not algorithmic invariants.
package chunker
