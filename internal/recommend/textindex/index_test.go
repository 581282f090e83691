// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package textindex

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/curatus/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Item{
		{ID: "s1", Title: "Kota Factory", Genres: []string{"Drama"}, Description: "engineering students in kota prepare for exams"},
		{ID: "s2", Title: "Campus Diaries", Genres: []string{"Drama"}, Description: "students navigate campus life and exams"},
		{ID: "s3", Title: "Ocean Wild", Genres: []string{"Documentary"}, Description: "marine wildlife across the deep ocean"},
		{ID: "s4", Title: "Deep Blue", Genres: []string{"Documentary"}, Description: "ocean wildlife filmed in the deep"},
	})
}

func TestBuildEmptyCatalog(t *testing.T) {
	idx, err := Build(catalog.NewSnapshot(nil))
	if err != nil {
		t.Fatalf("Build(empty) error = %v, want nil", err)
	}
	if idx.Len() != 0 || idx.VocabularySize() != 0 {
		t.Errorf("Build(empty) = %d docs, %d terms, want 0, 0", idx.Len(), idx.VocabularySize())
	}
	if _, err := idx.Similar(0, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Similar on empty index error = %v, want ErrNotFound", err)
	}
}

func TestSimilarityNormalizesPunctuation(t *testing.T) {
	idx, err := Build(catalog.NewSnapshot([]catalog.Item{
		{ID: "a", Description: "dragons."},
		{ID: "b", Description: "dragons"},
	}))
	if err != nil {
		t.Fatal(err)
	}

	sim, err := idx.Similarity(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sim < 0.999 {
		t.Errorf("Similarity(0, 1) = %f, want 1.0 once trailing punctuation is stripped", sim)
	}
}

func TestSimilarExcludesSelfAndOrders(t *testing.T) {
	idx, err := Build(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	for q := 0; q < idx.Len(); q++ {
		matches, err := idx.Similar(q, 10)
		if err != nil {
			t.Fatalf("Similar(%d): %v", q, err)
		}
		if len(matches) != idx.Len()-1 {
			t.Errorf("Similar(%d) returned %d matches, want %d", q, len(matches), idx.Len()-1)
		}
		for i, m := range matches {
			if m.Index == q {
				t.Errorf("Similar(%d) included the query item", q)
			}
			if m.Score < -1 || m.Score > 1 {
				t.Errorf("Similar(%d) score %f outside [-1,1]", q, m.Score)
			}
			if i > 0 && matches[i-1].Score < m.Score {
				t.Errorf("Similar(%d) not sorted descending at %d", q, i)
			}
		}
	}
}

func TestSimilarTopicalNeighbors(t *testing.T) {
	idx, err := Build(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	// The two student dramas should be each other's nearest neighbor,
	// likewise the two ocean documentaries.
	tests := []struct {
		name  string
		query int
		want  int
	}{
		{name: "kota factory -> campus diaries", query: 0, want: 1},
		{name: "campus diaries -> kota factory", query: 1, want: 0},
		{name: "ocean wild -> deep blue", query: 2, want: 3},
		{name: "deep blue -> ocean wild", query: 3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := idx.Similar(tt.query, 1)
			if err != nil {
				t.Fatal(err)
			}
			if len(matches) != 1 {
				t.Fatalf("got %d matches, want 1", len(matches))
			}
			if matches[0].Index != tt.want {
				t.Errorf("nearest neighbor = %d, want %d", matches[0].Index, tt.want)
			}
			if matches[0].Score <= 0 {
				t.Errorf("nearest neighbor score = %f, want > 0", matches[0].Score)
			}
		})
	}
}

func TestSimilarBounds(t *testing.T) {
	idx, err := Build(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := idx.Similar(-1, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("Similar(-1) error = %v, want ErrNotFound", err)
	}
	if _, err := idx.Similar(idx.Len(), 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("Similar(out of range) error = %v, want ErrNotFound", err)
	}

	matches, err := idx.Similar(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("Similar(0, 0) returned %d matches, want 0", len(matches))
	}
}

func TestSimilaritySymmetricAndSelfUnit(t *testing.T) {
	idx, err := Build(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	ab, err := idx.Similarity(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := idx.Similarity(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("similarity not symmetric: %f vs %f", ab, ba)
	}

	self, err := idx.Similarity(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(self-1) > 1e-9 {
		t.Errorf("self similarity = %f, want 1.0", self)
	}
}

func TestTokenizeDropsStopwords(t *testing.T) {
	tokens := tokenize("The Cat AND the hat")
	want := []string{"cat", "hat"}
	if len(tokens) != len(want) {
		t.Fatalf("tokenize = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}
