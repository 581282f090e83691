// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package profile

import (
	"math"
	"testing"
	"time"
)

func TestRecomputeGenrePreferences(t *testing.T) {
	titleGenres := map[string][]string{
		"a":     {"Drama"},
		"b":     {"Drama"},
		"mixed": {"Drama", "Comedy"},
	}

	tests := []struct {
		name  string
		build func() *Profile
		want  map[string]float64
	}{
		{
			name: "ratings only, single genre",
			build: func() *Profile {
				p := NewProfile("u")
				p.Ratings = map[string]int{"A": 5, "B": 1}
				return p
			},
			want: map[string]float64{"Drama": 1.0},
		},
		{
			name: "liked and rated mix",
			build: func() *Profile {
				p := NewProfile("u")
				p.LikedTitles = []string{"A"}              // Drama + 1
				p.Ratings = map[string]int{"Mixed": 5}     // Drama + 1, Comedy + 1
				return p                                   // Drama 2/3, Comedy 1/3
			},
			want: map[string]float64{"Drama": 2.0 / 3, "Comedy": 1.0 / 3},
		},
		{
			name: "unknown titles contribute nothing",
			build: func() *Profile {
				p := NewProfile("u")
				p.LikedTitles = []string{"Not In Catalog"}
				return p
			},
			want: map[string]float64{},
		},
		{
			name:  "empty profile",
			build: func() *Profile { return NewProfile("u") },
			want:  map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build()
			p.RecomputeGenrePreferences(titleGenres)

			if len(p.GenrePreferences) != len(tt.want) {
				t.Fatalf("GenrePreferences = %v, want %v", p.GenrePreferences, tt.want)
			}
			var sum float64
			for g, w := range tt.want {
				got := p.GenrePreferences[g]
				if math.Abs(got-w) > 1e-9 {
					t.Errorf("preference[%s] = %f, want %f", g, got, w)
				}
			}
			for _, w := range p.GenrePreferences {
				sum += w
			}
			if len(p.GenrePreferences) > 0 && math.Abs(sum-1) > 1e-9 {
				t.Errorf("weights sum to %f, want 1.0", sum)
			}
		})
	}
}

func TestAddWatchIdempotent(t *testing.T) {
	p := NewProfile("u")
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if !p.addWatch("Title A", now) {
		t.Error("first watch event should be added")
	}
	if p.addWatch("Title A", now.Add(time.Hour)) {
		t.Error("second watch event for same title should be a no-op")
	}

	count := 0
	for _, ev := range p.WatchHistory {
		if ev.Title == "Title A" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("watch history has %d entries for Title A, want 1", count)
	}
	// first timestamp is kept, not refreshed
	if !p.WatchHistory[0].Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want original %v", p.WatchHistory[0].Timestamp, now)
	}
}

func TestSetRatingAppendsWatchOnce(t *testing.T) {
	p := NewProfile("u")
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	p.setRating("Title A", 3, now)
	p.setRating("Title A", 5, now.Add(time.Hour)) // re-rate

	if p.Ratings["Title A"] != 5 {
		t.Errorf("rating = %d, want upserted 5", p.Ratings["Title A"])
	}
	if len(p.WatchHistory) != 1 {
		t.Errorf("watch history has %d entries, want 1", len(p.WatchHistory))
	}
}

func TestAddLikedSetSemantics(t *testing.T) {
	p := NewProfile("u")

	if !p.addLiked([]string{"B", "A"}) {
		t.Error("first like should change the set")
	}
	if p.addLiked([]string{"A"}) {
		t.Error("re-like should be a no-op")
	}
	if len(p.LikedTitles) != 2 || p.LikedTitles[0] != "A" || p.LikedTitles[1] != "B" {
		t.Errorf("LikedTitles = %v, want sorted [A B]", p.LikedTitles)
	}
}
