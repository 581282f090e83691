// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package catalog

import (
	"strings"
)

// Snapshot is an immutable, indexed view of the catalog. Item order is
// fixed for the lifetime of the snapshot and all derived indexes (text
// vectors, title lookup) are aligned to it.
//
// Snapshots are safe for concurrent reads without coordination.
type Snapshot struct {
	items      []Item
	soups      []string
	titleIndex map[string]int // lowercase title -> first occurrence
	idIndex    map[string]int
}

// NewSnapshot builds a snapshot from items in their given order. When the
// same title appears more than once the lowercase title lookup binds to
// the first occurrence; later duplicates remain reachable by index or ID.
func NewSnapshot(items []Item) *Snapshot {
	s := &Snapshot{
		items:      make([]Item, len(items)),
		soups:      make([]string, len(items)),
		titleIndex: make(map[string]int, len(items)),
		idIndex:    make(map[string]int, len(items)),
	}
	copy(s.items, items)

	for i, it := range s.items {
		s.soups[i] = it.Soup()

		key := strings.ToLower(strings.TrimSpace(it.Title))
		if _, seen := s.titleIndex[key]; !seen {
			s.titleIndex[key] = i
		}
		if _, seen := s.idIndex[it.ID]; !seen {
			s.idIndex[it.ID] = i
		}
	}
	return s
}

// Len returns the number of items in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Item returns the item at index i. The index must be in range.
func (s *Snapshot) Item(i int) Item {
	return s.items[i]
}

// Items returns the snapshot's items in order. The returned slice must
// not be modified.
func (s *Snapshot) Items() []Item {
	return s.items
}

// Soup returns the precomputed text profile for the item at index i.
func (s *Snapshot) Soup(i int) string {
	return s.soups[i]
}

// IndexOfTitle resolves a title, case-insensitively, to its item index.
func (s *Snapshot) IndexOfTitle(title string) (int, bool) {
	i, ok := s.titleIndex[strings.ToLower(strings.TrimSpace(title))]
	return i, ok
}

// IndexOfID resolves a stable item ID to its index.
func (s *Snapshot) IndexOfID(id string) (int, bool) {
	i, ok := s.idIndex[id]
	return i, ok
}

// TitleGenres returns a lowercase title to genres mapping for the whole
// snapshot. Duplicate titles keep the first occurrence's genres. The
// profile store consumes this when recomputing genre preferences, so it
// never has to reach back into a live snapshot.
func (s *Snapshot) TitleGenres() map[string][]string {
	out := make(map[string][]string, len(s.titleIndex))
	for key, i := range s.titleIndex {
		out[key] = s.items[i].Genres
	}
	return out
}
