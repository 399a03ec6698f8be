package services

import "strings"

// Chunker splits raw text into overlapping fixed-size windows.
type Chunker struct {
	windowSize int
	overlap    int
}

// NewChunker creates a fixed-window chunker. Invalid arguments fall
// back to the defaults (window 1000, overlap 200).
func NewChunker(windowSize, overlap int) *Chunker {
	if windowSize <= 0 {
		windowSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= windowSize {
		overlap = windowSize / 5
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}
}

// Chunk splits text into rune windows of at most windowSize characters,
// consecutive windows sharing exactly overlap characters. Chunks are
// whitespace-trimmed and empty chunks are dropped.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.windowSize - c.overlap
	var chunks []string

	for i := 0; i < len(runes); i += step {
		end := i + c.windowSize
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}
