package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Memory is an unbounded, append-only in-memory store. Similarity
// search is a linear scan ranking every entry by cosine similarity.
// A single instance is shared across HTTP handlers, so access is
// guarded by a RWMutex.
type Memory struct {
	mu        sync.RWMutex
	texts     []string
	vectors   [][]float32
	metadatas []map[string]string
}

func NewMemory() *Memory {
	return &Memory{}
}

// AddTexts appends texts with their precomputed embeddings.
// Vector dimensionality is not validated against existing entries.
func (m *Memory) AddTexts(ctx context.Context, texts []string, vectors [][]float32, metadatas []map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.texts = append(m.texts, texts...)
	m.vectors = append(m.vectors, vectors...)
	if metadatas == nil {
		metadatas = make([]map[string]string, len(texts))
	}
	m.metadatas = append(m.metadatas, metadatas...)
	return nil
}

// Search ranks every stored entry by cosine similarity against the
// query vector and returns the top k. Ties keep insertion order.
func (m *Memory) Search(ctx context.Context, q Query, k int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.vectors) == 0 || k <= 0 {
		return []Result{}, nil
	}

	results := make([]Result, 0, len(m.vectors))
	for i, vec := range m.vectors {
		results = append(results, Result{
			Text:     m.texts[i],
			Score:    CosineSimilarity(q.Vector, vec),
			Metadata: m.metadatas[i],
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.texts)
}

// CosineSimilarity is the normalized dot product of two vectors.
// A zero-norm vector on either side yields 0 rather than dividing
// by zero. Mismatched dimensions score only the shared prefix.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
