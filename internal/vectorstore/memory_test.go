package vectorstore

import (
	"context"
	"math"
	"testing"
)

func TestMemorySearchEmptyStore(t *testing.T) {
	store := NewMemory()

	results, err := store.Search(context.Background(), Query{Vector: []float32{1, 0}}, 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results from empty store, got %d", len(results))
	}
}

func TestMemorySearchRanking(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	err := store.AddTexts(ctx,
		[]string{"north", "east", "northeast"},
		[][]float32{
			{0, 1},
			{1, 0},
			{1, 1},
		}, nil)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	results, err := store.Search(ctx, Query{Vector: []float32{0, 1}}, 3)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Text != "north" {
		t.Errorf("top result = %q, want north", results[0].Text)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestMemorySearchCountClamp(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.AddTexts(ctx, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}, nil)

	results, _ := store.Search(ctx, Query{Vector: []float32{1, 0}}, 10)
	if len(results) != 2 {
		t.Fatalf("expected min(k, size) = 2 results, got %d", len(results))
	}

	results, _ = store.Search(ctx, Query{Vector: []float32{1, 0}}, 1)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestMemoryZeroVectorScoresZero(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.AddTexts(ctx, []string{"zero", "unit"}, [][]float32{{0, 0}, {1, 0}}, nil)

	// Zero stored entry
	results, _ := store.Search(ctx, Query{Vector: []float32{1, 0}}, 2)
	for _, r := range results {
		if r.Text == "zero" && r.Score != 0 {
			t.Errorf("zero-norm entry scored %v, want 0", r.Score)
		}
	}

	// Zero query vector
	results, _ = store.Search(ctx, Query{Vector: []float32{0, 0}}, 2)
	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("zero query produced score %v for %q, want 0", r.Score, r.Text)
		}
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	vec := []float32{0.3, 0.5, 0.2}
	store.AddTexts(ctx, []string{"the only chunk"}, [][]float32{vec}, nil)

	results, err := store.Search(ctx, Query{Vector: vec}, 1)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Text != "the only chunk" {
		t.Errorf("result text = %q", results[0].Text)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("self-similarity = %v, want ~1.0", results[0].Score)
	}
}

func TestMemoryTieBreakKeepsInsertionOrder(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	// Identical vectors, identical scores
	store.AddTexts(ctx,
		[]string{"first", "second", "third"},
		[][]float32{{1, 1}, {1, 1}, {1, 1}}, nil)

	results, _ := store.Search(ctx, Query{Vector: []float32{1, 1}}, 3)
	want := []string{"first", "second", "third"}
	for i, r := range results {
		if r.Text != want[i] {
			t.Errorf("position %d = %q, want %q", i, r.Text, want[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero left", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"zero right", []float32{1, 1}, []float32{0, 0}, 0.0},
	}

	for _, tc := range cases {
		got := CosineSimilarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: CosineSimilarity = %v, want %v", tc.name, got, tc.want)
		}
	}
}
