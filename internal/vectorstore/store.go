// Package vectorstore holds embedded texts and answers top-k similarity
// queries. Two interchangeable implementations exist: an in-memory
// cosine-similarity store and a MongoDB-backed hybrid search store.
package vectorstore

import "context"

// Query carries everything either backend may need: the raw question
// text (used by the hybrid store), an optional precomputed embedding
// (used by the memory store) and the hybrid blend weight.
type Query struct {
	Text   string
	Vector []float32
	// Alpha blends keyword and vector scores for hybrid search:
	// 0 = pure keyword, 1 = pure vector. Ignored by the memory store.
	Alpha float64
}

// Result is a single ranked hit.
type Result struct {
	Text     string
	Score    float64
	Metadata map[string]string
}

// Store is the vector store contract shared by both backends.
// Entries are append-only; there is no update or delete.
type Store interface {
	// AddTexts appends parallel slices of texts and embedding vectors,
	// with optional per-text metadata (may be nil).
	AddTexts(ctx context.Context, texts []string, vectors [][]float32, metadatas []map[string]string) error

	// Search returns up to k results ranked by descending score.
	Search(ctx context.Context, q Query, k int) ([]Result, error)
}
