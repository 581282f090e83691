// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"testing"
)

func testHybrid(t *testing.T, rows []RatingRow) *HybridRecommender {
	t.Helper()
	snap, idx := testCatalog(t)
	content := NewContentRecommender(snap, idx)

	var collab *CollaborativeRecommender
	if len(rows) > 0 {
		var err error
		collab, err = FitCollaborative(rows)
		if err != nil {
			t.Fatal(err)
		}
	}
	return NewHybridRecommender(snap, content, collab)
}

func TestHybridSplitAndOrder(t *testing.T) {
	// bob's unrated items are ranked from alice's ratings.
	rows := []RatingRow{
		{UserID: "alice", ItemID: "s3", Score: 5},
		{UserID: "alice", ItemID: "s4", Score: 4},
		{UserID: "bob", ItemID: "s1", Score: 5},
	}
	h := testHybrid(t, rows)

	got, err := h.Recommend("bob", "kota factory", 4)
	if err != nil {
		t.Fatal(err)
	}

	// content first: ceil(4/2)=2 items similar to the seed, then the
	// collaborative remainder.
	if len(got) < 3 {
		t.Fatalf("Recommend = %d items, want at least 3", len(got))
	}
	if got[0].Source != SourceContent || got[1].Source != SourceContent {
		t.Errorf("first two sources = %q, %q, want content first", got[0].Source, got[1].Source)
	}
	for _, rec := range got {
		if rec.ID == "s1" && rec.Source == SourceContent {
			t.Error("seed item leaked into content share")
		}
	}

	// collaborative share ranks s3 (mean 5.0) above s4 (mean 4.0)
	var collabIDs []string
	for _, rec := range got {
		if rec.Source == SourceCollaborative {
			collabIDs = append(collabIDs, rec.ID)
		}
	}
	if len(collabIDs) == 0 {
		t.Fatal("no collaborative results in merge")
	}
	if collabIDs[0] != "s3" && collabIDs[0] != "s4" {
		t.Errorf("unexpected collaborative item %s", collabIDs[0])
	}
}

func TestHybridDeduplicatesKeepingFirst(t *testing.T) {
	// carol's top collaborative pick overlaps the content results.
	rows := []RatingRow{
		{UserID: "alice", ItemID: "s2", Score: 5},
		{UserID: "carol", ItemID: "s1", Score: 5},
	}
	h := testHybrid(t, rows)

	got, err := h.Recommend("carol", "kota factory", 4)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]int)
	for _, rec := range got {
		seen[rec.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			t.Errorf("item %s appeared %d times after dedup", id, count)
		}
	}
	// overlap keeps the content occurrence
	for _, rec := range got {
		if rec.ID == "s2" && rec.Source != SourceContent {
			t.Errorf("duplicate s2 kept %q occurrence, want content", rec.Source)
		}
	}
}

func TestHybridNoCompensation(t *testing.T) {
	// No ratings model at all: the collaborative share stays empty and
	// the merge returns only the content half.
	h := testHybrid(t, nil)

	got, err := h.Recommend("user_42", "kota factory", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Recommend with empty collab = %d items, want exactly the content share of 2", len(got))
	}
	for _, rec := range got {
		if rec.Source != SourceContent {
			t.Errorf("unexpected source %q with nil collaborative model", rec.Source)
		}
	}
}

func TestHybridUnknownSeedFallsThrough(t *testing.T) {
	rows := []RatingRow{
		{UserID: "alice", ItemID: "s3", Score: 5},
		{UserID: "alice", ItemID: "s4", Score: 4},
		{UserID: "bob", ItemID: "s1", Score: 5},
	}
	h := testHybrid(t, rows)

	// unknown seed drops the content half but still serves the
	// collaborative share for the user
	got, err := h.Recommend("bob", "missing title", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("unknown seed returned nothing, want collaborative share")
	}
	for _, rec := range got {
		if rec.Source != SourceCollaborative {
			t.Errorf("unexpected source %q for unknown seed", rec.Source)
		}
	}

	// unknown seed AND no model degrades to empty, not an error
	empty := testHybrid(t, nil)
	got, err = empty.Recommend("user", "missing title", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Recommend = %v, want empty", got)
	}
}

func TestHybridZeroN(t *testing.T) {
	h := testHybrid(t, nil)
	got, err := h.Recommend("user", "kota factory", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Recommend(n=0) = %v, want empty", got)
	}
}
