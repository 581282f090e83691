// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package recommend implements the recommendation engine: content-based
// ranking over a TF-IDF text index, user-user collaborative filtering
// over a ratings matrix, and a hybrid merge of the two.
package recommend

import (
	"github.com/tomtom215/curatus/internal/catalog"
)

// Source identifies which recommender produced a result.
type Source string

const (
	SourceContent       Source = "content"
	SourceCollaborative Source = "collaborative"
	SourceHybrid        Source = "hybrid"
	SourcePersonalized  Source = "personalized"
)

// Recommendation is a ranked catalog item projected to its external
// fields plus the score that ranked it.
type Recommendation struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Type        catalog.MediaType `json:"type"`
	Genres      []string          `json:"genres,omitempty"`
	Description string            `json:"description,omitempty"`
	ReleaseYear int               `json:"release_year,omitempty"`
	Duration    catalog.Duration  `json:"duration"`
	Rating      string            `json:"rating,omitempty"`
	Score       float64           `json:"score"`
	Source      Source            `json:"source"`
}

// RatingRow is one row of the flat ratings table the collaborative
// model is fit from. Score is in [1,5]; absent pairs mean unrated.
type RatingRow struct {
	UserID string  `json:"user_id"`
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// newRecommendation projects a catalog item into a Recommendation.
func newRecommendation(it catalog.Item, score float64, source Source) Recommendation {
	return Recommendation{
		ID:          it.ID,
		Title:       it.Title,
		Type:        it.Type,
		Genres:      it.Genres,
		Description: it.Description,
		ReleaseYear: it.ReleaseYear,
		Duration:    it.Duration,
		Rating:      it.Rating,
		Score:       score,
		Source:      source,
	}
}
