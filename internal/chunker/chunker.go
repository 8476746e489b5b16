package chunker

import "strings"

// Character budgets derived from the embedding model's ~8k token limit,
// using the conservative ~4 chars/token heuristic.
const (
	// MaxDirectChars is the longest text embedded in a single call.
	MaxDirectChars = 25000

	// DefaultChunkSize is the target maximum characters per chunk.
	DefaultChunkSize = 20000

	// DefaultOverlap is how many characters each chunk repeats from the
	// tail of its predecessor to preserve cross-boundary context.
	DefaultOverlap = 2000
)

// NormalizeText collapses internal whitespace runs (including newlines) to
// single spaces and trims the result.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split cuts text into overlapping chunks using the default size and
// overlap. Text at or below the chunk size is returned as a single chunk.
func Split(text string) []string {
	return SplitSize(text, DefaultChunkSize, DefaultOverlap)
}

// SplitSize cuts text into chunks of at most chunkSize characters, each
// chunk after the first starting overlap characters before its
// predecessor's end. Boundaries prefer the nearest sentence terminator
// scanning backward from the naive cut point, down to at most half a chunk
// back. Sizes are measured in runes so multi-byte text is never cut
// mid-character.
func SplitSize(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	start := 0

	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		breakPoint := end
		for i := end; i > start+chunkSize/2; i-- {
			if isSentenceEnd(runes[i]) {
				breakPoint = i + 1
				break
			}
		}

		chunks = append(chunks, string(runes[start:breakPoint]))

		next := breakPoint - overlap
		if next <= start {
			// Degenerate overlap configuration; advance without overlap
			// rather than loop forever.
			next = breakPoint
		}
		start = next
	}

	return chunks
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}
