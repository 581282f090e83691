// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"errors"

	"github.com/tomtom215/curatus/internal/catalog"
)

// HybridRecommender merges content and collaborative rankings with a
// fixed split: the content half is keyed on a seed title, the
// collaborative half on the user. The merge is concatenation with
// deduplication, not a learned blend, so the cold-start branches of
// both sources stay independently testable.
type HybridRecommender struct {
	snap    *catalog.Snapshot
	content *ContentRecommender
	collab  *CollaborativeRecommender
}

// NewHybridRecommender combines the two recommenders over the snapshot
// they were built from. collab may be nil (no ratings fit yet); its
// share then contributes nothing.
func NewHybridRecommender(snap *catalog.Snapshot, content *ContentRecommender, collab *CollaborativeRecommender) *HybridRecommender {
	return &HybridRecommender{snap: snap, content: content, collab: collab}
}

// Recommend asks the content recommender for ceil(n/2) items similar to
// seedTitle and the collaborative recommender for the remainder, then
// concatenates content first, deduplicates by item ID keeping the first
// occurrence, and truncates to n. A short source does not enlarge the
// other's share, so fewer than n results is a legitimate outcome. An
// unknown seed title drops the content half instead of failing the
// call; the collaborative share is still served.
func (h *HybridRecommender) Recommend(userID, seedTitle string, n int) ([]Recommendation, error) {
	if n <= 0 {
		return []Recommendation{}, nil
	}

	contentShare := (n + 1) / 2
	collabShare := n - contentShare

	fromContent, err := h.content.Recommend(seedTitle, contentShare)
	switch {
	case errors.Is(err, ErrTitleNotFound):
		fromContent = nil
	case err != nil:
		return nil, err
	}
	fromCollab := h.collab.Recommend(userID, collabShare)

	merged := make([]Recommendation, 0, len(fromContent)+len(fromCollab))
	seen := make(map[string]struct{}, cap(merged))

	for _, rec := range fromContent {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		merged = append(merged, rec)
	}
	for _, s := range fromCollab {
		if _, dup := seen[s.ItemID]; dup {
			continue
		}
		// Rated items can reference titles that have left the catalog;
		// those cannot be projected and are skipped.
		i, ok := h.snap.IndexOfID(s.ItemID)
		if !ok {
			continue
		}
		seen[s.ItemID] = struct{}{}
		merged = append(merged, newRecommendation(h.snap.Item(i), s.Score, SourceCollaborative))
	}

	if n > len(merged) {
		n = len(merged)
	}
	return merged[:n], nil
}
