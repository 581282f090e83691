// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package ingest

import (
	"strconv"
	"strings"

	"github.com/tomtom215/curatus/internal/catalog"
)

// splitList splits a comma-separated CSV cell ("Drama, Comedy") into
// trimmed entries, dropping empties. Source order is preserved.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDuration parses cells like "90 min", "1 Season" or "3 Seasons"
// into a value/unit pair. Unparseable cells yield the zero Duration.
func parseDuration(s string) catalog.Duration {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return catalog.Duration{}
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil || value < 0 {
		return catalog.Duration{}
	}
	return catalog.Duration{Value: value, Unit: strings.Join(fields[1:], " ")}
}

// parseMediaType maps the CSV "type" column onto the catalog enum.
// Netflix-style exports use "Movie" and "TV Show"; anything mentioning
// a show is a Show, everything else defaults to Movie.
func parseMediaType(s string) catalog.MediaType {
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(lower, "show") || strings.Contains(lower, "series") {
		return catalog.TypeShow
	}
	return catalog.TypeMovie
}

// parseRating accepts ratings in [1,5]; anything else is a malformed
// row for the caller to count and drop.
func parseRating(s string) (float64, bool) {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || r < 1 || r > 5 {
		return 0, false
	}
	return r, true
}

// parseReleaseYear returns 0 for absent or malformed years.
func parseReleaseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year < 0 {
		return 0
	}
	return year
}
