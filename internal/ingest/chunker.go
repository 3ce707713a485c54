package ingest

import "strings"

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
)

// ChunkText splits text into overlapping chunks of at most size characters.
// Boundaries snap back to the last '.' in the window when it lies past the
// halfway point, so chunks tend to end on sentence boundaries. Offsets are
// measured in runes so multi-byte text never splits mid-character.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := runes[start:end]

		if end < len(runes) {
			if last := lastIndexRune(chunk, '.'); last > size/2 {
				chunk = chunk[:last+1]
				end = start + len(chunk)
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(chunk)))
		if end >= len(runes) {
			break
		}
		start = end - overlap
	}
	return chunks
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
