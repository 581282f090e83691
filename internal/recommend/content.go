// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"github.com/tomtom215/curatus/internal/catalog"
	"github.com/tomtom215/curatus/internal/recommend/textindex"
)

// ContentRecommender ranks catalog items by text similarity to a seed
// title. It is a thin projection layer over the TF-IDF index: the index
// answers "which rows", this type answers "which items".
type ContentRecommender struct {
	snap  *catalog.Snapshot
	index *textindex.Index
}

// NewContentRecommender pairs a built index with the snapshot it was
// built from. The index's row order must match the snapshot.
func NewContentRecommender(snap *catalog.Snapshot, index *textindex.Index) *ContentRecommender {
	return &ContentRecommender{snap: snap, index: index}
}

// Recommend returns up to n items most similar to the seed title,
// excluding the seed itself. Title lookup is case-insensitive and binds
// duplicate titles to their first occurrence in snapshot order.
// Returns ErrTitleNotFound when the seed is absent; n <= 0 returns an
// empty list, not an error.
func (c *ContentRecommender) Recommend(title string, n int) ([]Recommendation, error) {
	seed, ok := c.snap.IndexOfTitle(title)
	if !ok {
		return nil, ErrTitleNotFound
	}
	if n <= 0 {
		return []Recommendation{}, nil
	}

	matches, err := c.index.Similar(seed, n)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(matches))
	for _, m := range matches {
		out = append(out, newRecommendation(c.snap.Item(m.Index), m.Score, SourceContent))
	}
	return out, nil
}
