package vectorstore

import (
	"sync"
	"testing"

	"lecture-rag-backend/models"
)

func hit(id string, score float64) scoredChunk {
	return scoredChunk{chunk: models.ChunkIndex{ChunkID: id, Text: id}, score: score}
}

func TestBlendScoresPureVector(t *testing.T) {
	vector := []scoredChunk{hit("a", 0.9), hit("b", 0.1)}
	keyword := []scoredChunk{hit("c", 5.0)}

	blended := blendScores(vector, keyword, 1.0)

	// alpha=1: keyword hits contribute nothing
	for _, h := range blended {
		if h.chunk.ChunkID == "c" && h.score != 0 {
			t.Errorf("keyword-only hit scored %v with alpha=1, want 0", h.score)
		}
	}
	if blended[0].chunk.ChunkID != "a" {
		t.Errorf("top hit = %q, want a", blended[0].chunk.ChunkID)
	}
}

func TestBlendScoresPureKeyword(t *testing.T) {
	vector := []scoredChunk{hit("a", 0.9)}
	keyword := []scoredChunk{hit("b", 5.0), hit("c", 1.0)}

	blended := blendScores(vector, keyword, 0.0)

	if blended[0].chunk.ChunkID != "b" {
		t.Errorf("top hit = %q, want b", blended[0].chunk.ChunkID)
	}
	for _, h := range blended {
		if h.chunk.ChunkID == "a" && h.score != 0 {
			t.Errorf("vector-only hit scored %v with alpha=0, want 0", h.score)
		}
	}
}

func TestBlendScoresMergesSharedChunk(t *testing.T) {
	vector := []scoredChunk{hit("shared", 1.0), hit("v", 0.0)}
	keyword := []scoredChunk{hit("shared", 3.0), hit("k", 1.0)}

	blended := blendScores(vector, keyword, 0.5)

	var shared *scoredChunk
	for i := range blended {
		if blended[i].chunk.ChunkID == "shared" {
			shared = &blended[i]
		}
	}
	if shared == nil {
		t.Fatal("shared chunk missing from blended results")
	}
	// Both legs normalize "shared" to 1.0, so the blend is 0.5+0.5
	if shared.score != 1.0 {
		t.Errorf("shared score = %v, want 1.0", shared.score)
	}
	if blended[0].chunk.ChunkID != "shared" {
		t.Errorf("top hit = %q, want shared", blended[0].chunk.ChunkID)
	}
}

func TestBlendScoresEmptyInputs(t *testing.T) {
	if got := blendScores(nil, nil, 0.5); len(got) != 0 {
		t.Errorf("expected no hits, got %d", len(got))
	}

	blended := blendScores([]scoredChunk{hit("a", 0.5)}, nil, 0.5)
	if len(blended) != 1 || blended[0].chunk.ChunkID != "a" {
		t.Errorf("unexpected blend of single-sided input: %+v", blended)
	}
}

func TestNormalize(t *testing.T) {
	hits := []scoredChunk{hit("a", 2.0), hit("b", 4.0), hit("c", 3.0)}
	normalize(hits)

	if hits[0].score != 0 || hits[1].score != 1 || hits[2].score != 0.5 {
		t.Errorf("normalized scores = %v %v %v, want 0 1 0.5", hits[0].score, hits[1].score, hits[2].score)
	}

	// Uniform scores all map to 1
	uniform := []scoredChunk{hit("a", 7.0), hit("b", 7.0)}
	normalize(uniform)
	if uniform[0].score != 1 || uniform[1].score != 1 {
		t.Errorf("uniform scores = %v %v, want 1 1", uniform[0].score, uniform[1].score)
	}
}

func TestReserveOrderConcurrent(t *testing.T) {
	store := &MongoStore{}

	const workers = 16
	const batch = 5

	bases := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bases[i] = store.reserveOrder(batch)
		}(i)
	}
	wg.Wait()

	// Every reservation must claim a disjoint range
	seen := make(map[int]bool)
	for _, base := range bases {
		if base%batch != 0 {
			t.Errorf("base %d is not aligned to batch size %d", base, batch)
		}
		if seen[base] {
			t.Errorf("base %d claimed twice", base)
		}
		seen[base] = true
	}
	if next := store.reserveOrder(1); next != workers*batch {
		t.Errorf("next order = %d, want %d", next, workers*batch)
	}
}

func TestExtractKeywords(t *testing.T) {
	keywords := extractKeywords("The Fourier transform decomposes a function. The transform is linear!")

	seen := make(map[string]bool)
	for _, k := range keywords {
		if seen[k] {
			t.Errorf("duplicate keyword %q", k)
		}
		seen[k] = true
		if len(k) < 4 {
			t.Errorf("keyword %q shorter than 4 chars", k)
		}
	}
	if !seen["fourier"] || !seen["transform"] {
		t.Errorf("expected fourier and transform in keywords, got %v", keywords)
	}
	if seen["the"] {
		t.Error("stopword-length token should be excluded")
	}
}
