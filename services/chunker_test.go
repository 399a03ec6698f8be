package services

import (
	"strings"
	"testing"
)

func TestChunkerWindowAndOverlap(t *testing.T) {
	window, overlap := 100, 20
	chunker := NewChunker(window, overlap)

	// Non-space text so trimming cannot disturb the windows
	text := strings.Repeat("abcdefghij", 35) // 350 chars
	chunks := chunker.Chunk(text)

	if len(chunks) == 0 {
		t.Fatal("expected chunks for non-empty text")
	}

	for i, chunk := range chunks {
		if len(chunk) > window {
			t.Errorf("chunk %d has length %d, exceeds window %d", i, len(chunk), window)
		}
	}

	// Consecutive chunks share exactly the overlap
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-overlap:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's last %d chars", i, overlap)
		}
	}

	// Concatenating chunks with overlaps removed reconstructs the input
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		rebuilt.WriteString(chunks[i][overlap:])
	}
	if rebuilt.String() != text {
		t.Error("reconstructed text does not match input")
	}
}

func TestChunkerSplitBoundaries(t *testing.T) {
	chunker := NewChunker(1000, 200)

	text := strings.Repeat("a", 1500)
	chunks := chunker.Chunk(text)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 1500 chars at window=1000 overlap=200, got %d", len(chunks))
	}
	if len(chunks[0]) != 1000 {
		t.Errorf("first chunk length = %d, want 1000", len(chunks[0]))
	}
	if len(chunks[1]) != 700 {
		t.Errorf("second chunk length = %d, want 700", len(chunks[1]))
	}
}

func TestChunkerShortText(t *testing.T) {
	chunker := NewChunker(1000, 200)

	chunks := chunker.Chunk("Hello World")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "Hello World" {
		t.Errorf("chunk = %q, want %q", chunks[0], "Hello World")
	}
}

func TestChunkerEmptyAndWhitespace(t *testing.T) {
	chunker := NewChunker(1000, 200)

	if chunks := chunker.Chunk(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
	if chunks := chunker.Chunk("   \n\t  "); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace-only text, got %d", len(chunks))
	}
}

func TestChunkerDefaults(t *testing.T) {
	// Invalid arguments fall back to safe values
	chunker := NewChunker(0, -1)
	chunks := chunker.Chunk(strings.Repeat("x", 1500))
	if len(chunks) != 2 {
		t.Fatalf("expected default window/overlap behavior, got %d chunks", len(chunks))
	}

	// Overlap larger than window must not loop forever
	chunker = NewChunker(10, 50)
	chunks = chunker.Chunk(strings.Repeat("y", 100))
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite oversized overlap")
	}
}
