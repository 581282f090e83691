// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package catalog defines the immutable media catalog snapshot that the
// recommendation engine is built from. A snapshot is constructed once per
// ingest; a fresh ingest produces a new snapshot, never an in-place change.
package catalog

import (
	"strconv"
	"strings"
	"unicode"
)

// MediaType distinguishes movies from episodic shows.
type MediaType string

const (
	TypeMovie MediaType = "Movie"
	TypeShow  MediaType = "Show"
)

// Duration is a length with its source unit, e.g. {90, "min"} for a movie
// or {3, "Seasons"} for a show. Zero value means the duration was absent.
type Duration struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// String renders the duration in its source form, e.g. "90 min".
func (d Duration) String() string {
	if d.Value == 0 && d.Unit == "" {
		return ""
	}
	if d.Unit == "" {
		return strconv.Itoa(d.Value)
	}
	return strconv.Itoa(d.Value) + " " + d.Unit
}

// Item is a single catalog entry. Items are immutable once loaded into a
// Snapshot. ID is stable across ingests; Title is not guaranteed unique.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        MediaType `json:"type"`
	Director    string    `json:"director,omitempty"`
	Cast        []string  `json:"cast,omitempty"`
	Countries   []string  `json:"countries,omitempty"`
	Description string    `json:"description,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	ReleaseYear int       `json:"release_year,omitempty"`
	Duration    Duration  `json:"duration"`
	Rating      string    `json:"rating,omitempty"` // content rating label, e.g. TV-MA
}

// Soup builds the normalized text profile used for term weighting: title,
// director, cast, genres, and description concatenated, lowercased, with
// punctuation treated as whitespace so "dragons." and "dragons" weigh as
// the same term.
func (it Item) Soup() string {
	parts := make([]string, 0, 4+len(it.Cast)+len(it.Genres))
	parts = append(parts, it.Title, it.Director)
	parts = append(parts, it.Cast...)
	parts = append(parts, it.Genres...)
	parts = append(parts, it.Description)

	joined := strings.ToLower(strings.Join(parts, " "))
	joined = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, joined)
	return strings.Join(strings.Fields(joined), " ")
}
