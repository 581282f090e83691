// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"errors"

	"github.com/tomtom215/curatus/internal/recommend/textindex"
)

// Sentinel errors returned by the recommenders. Cold-start conditions
// (unknown user, empty profile) are NOT errors and return empty results.
var (
	// ErrTitleNotFound indicates a seed title absent from the catalog.
	// Callers should fall back to cold-start content.
	ErrTitleNotFound = errors.New("title not found in catalog")

	// ErrEmptyRatings indicates a model fit from zero rating rows.
	ErrEmptyRatings = errors.New("ratings table is empty")

	// ErrNotFound and ErrEmptyCatalog are re-exported from the text
	// index so callers can match them without importing textindex.
	ErrNotFound     = textindex.ErrNotFound
	ErrEmptyCatalog = textindex.ErrEmptyCatalog
)
