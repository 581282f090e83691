// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"errors"
	"testing"

	"github.com/tomtom215/curatus/internal/catalog"
	"github.com/tomtom215/curatus/internal/recommend/textindex"
)

func testCatalog(t *testing.T) (*catalog.Snapshot, *textindex.Index) {
	t.Helper()
	snap := catalog.NewSnapshot([]catalog.Item{
		{ID: "s1", Title: "Kota Factory", Type: catalog.TypeShow, Genres: []string{"Drama"}, Description: "engineering students in kota prepare for exams"},
		{ID: "s2", Title: "Campus Diaries", Type: catalog.TypeShow, Genres: []string{"Drama"}, Description: "students navigate campus life and exams"},
		{ID: "s3", Title: "Ocean Wild", Type: catalog.TypeShow, Genres: []string{"Documentary"}, Description: "marine wildlife across the deep ocean"},
		{ID: "s4", Title: "Deep Blue", Type: catalog.TypeMovie, Genres: []string{"Documentary"}, Description: "ocean wildlife filmed in the deep"},
	})
	idx, err := textindex.Build(snap)
	if err != nil {
		t.Fatal(err)
	}
	return snap, idx
}

func TestContentRecommend(t *testing.T) {
	snap, idx := testCatalog(t)
	rec := NewContentRecommender(snap, idx)

	got, err := rec.Recommend("kota factory", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("Recommend = %d items, want 1", len(got))
	}
	if got[0].ID == "s1" {
		t.Error("seed item appeared in its own results")
	}
	if got[0].ID != "s2" {
		t.Errorf("nearest to Kota Factory = %s, want s2", got[0].ID)
	}
	if got[0].Source != SourceContent {
		t.Errorf("Source = %q, want content", got[0].Source)
	}
	if len(got[0].Genres) == 0 {
		t.Error("projection lost genres")
	}
}

func TestContentRecommendTitleNotFound(t *testing.T) {
	snap, idx := testCatalog(t)
	rec := NewContentRecommender(snap, idx)

	_, err := rec.Recommend("does not exist", 3)
	if !errors.Is(err, ErrTitleNotFound) {
		t.Errorf("error = %v, want ErrTitleNotFound", err)
	}
}

func TestContentRecommendZeroN(t *testing.T) {
	snap, idx := testCatalog(t)
	rec := NewContentRecommender(snap, idx)

	got, err := rec.Recommend("Deep Blue", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Recommend(n=0) = %v, want empty", got)
	}
}

func TestContentRecommendCaseInsensitive(t *testing.T) {
	snap, idx := testCatalog(t)
	rec := NewContentRecommender(snap, idx)

	lower, err := rec.Recommend("ocean wild", 2)
	if err != nil {
		t.Fatal(err)
	}
	upper, err := rec.Recommend("OCEAN WILD", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lower) != len(upper) {
		t.Fatalf("case-sensitive result count mismatch: %d vs %d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i].ID != upper[i].ID {
			t.Errorf("result %d differs by title case: %s vs %s", i, lower[i].ID, upper[i].ID)
		}
	}
}
