// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package profile persists per-user taste profiles: liked titles,
// ratings, watch history, and the genre preference weights derived from
// them. Profiles are created on first access and never deleted by the
// engine itself.
package profile

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrInvalidRating indicates a rating outside the integer 1-5 scale.
// It is returned before any state mutation.
var ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")

// WatchEvent is one watch-history entry. A title appears at most once
// in a profile's history; re-watching does not refresh the timestamp.
type WatchEvent struct {
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// Profile is the full per-user record. All derived state
// (GenrePreferences) is recomputed from scratch on every mutation, so
// the stored fields are always mutually consistent.
type Profile struct {
	UserID           string             `json:"user_id"`
	LikedTitles      []string           `json:"liked_titles"` // sorted, set semantics
	Ratings          map[string]int     `json:"ratings"`
	WatchHistory     []WatchEvent       `json:"watch_history"` // append order
	GenrePreferences map[string]float64 `json:"genre_preferences"`
	LastUpdated      time.Time          `json:"last_updated"`
}

// NewProfile returns the default empty profile for a user.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:           userID,
		LikedTitles:      []string{},
		Ratings:          map[string]int{},
		WatchHistory:     []WatchEvent{},
		GenrePreferences: map[string]float64{},
	}
}

// addLiked unions titles into the liked set. Returns true if anything
// was added.
func (p *Profile) addLiked(titles []string) bool {
	existing := make(map[string]struct{}, len(p.LikedTitles))
	for _, t := range p.LikedTitles {
		existing[t] = struct{}{}
	}

	changed := false
	for _, t := range titles {
		if _, ok := existing[t]; ok {
			continue
		}
		existing[t] = struct{}{}
		p.LikedTitles = append(p.LikedTitles, t)
		changed = true
	}
	if changed {
		sort.Strings(p.LikedTitles)
	}
	return changed
}

// setRating upserts a rating and appends a watch event if the title has
// not been seen before. Validation happens in the store before any
// mutation.
func (p *Profile) setRating(title string, rating int, now time.Time) {
	if p.Ratings == nil {
		p.Ratings = map[string]int{}
	}
	p.Ratings[title] = rating
	p.addWatch(title, now)
}

// addWatch appends a watch event unless the title is already present.
// Duplicate events across time must not create duplicate entries.
func (p *Profile) addWatch(title string, now time.Time) bool {
	for _, ev := range p.WatchHistory {
		if ev.Title == title {
			return false
		}
	}
	p.WatchHistory = append(p.WatchHistory, WatchEvent{Title: title, Timestamp: now})
	return true
}

// RecomputeGenrePreferences rebuilds the genre weight mapping from the
// profile's liked titles (weight 1 each) and ratings (weight rating/5
// each), normalized so all weights sum to 1. Titles absent from
// titleGenres contribute nothing. Empty signal yields an empty mapping,
// never a division by zero.
//
// titleGenres maps lowercase titles to genre lists and is passed in
// explicitly; the profile layer never reaches into a live catalog.
func (p *Profile) RecomputeGenrePreferences(titleGenres map[string][]string) {
	weights := make(map[string]float64)
	var total float64

	for _, title := range p.LikedTitles {
		for _, g := range titleGenres[strings.ToLower(title)] {
			weights[g]++
			total++
		}
	}
	for title, rating := range p.Ratings {
		w := float64(rating) / 5
		for _, g := range titleGenres[strings.ToLower(title)] {
			weights[g] += w
			total += w
		}
	}

	if total == 0 {
		p.GenrePreferences = map[string]float64{}
		return
	}
	for g := range weights {
		weights[g] /= total
	}
	p.GenrePreferences = weights
}

// validRating reports whether a rating is on the integer 1-5 scale.
func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
