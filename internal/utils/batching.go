package utils

// Chunk splits items into contiguous slices of at most size elements.
// The last chunk may be shorter; a nil or empty input yields no chunks.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 || len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// EstimateTokens is the rough ~4-chars-per-token heuristic used to log
// prompt sizes before a Gemini call.
func EstimateTokens(text string) int {
	return len(text) / 4
}
