// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatus/internal/catalog"
	"github.com/tomtom215/curatus/internal/logging"
	"github.com/tomtom215/curatus/internal/metrics"
	"github.com/tomtom215/curatus/internal/recommend/textindex"
)

// perLikedTitle is the content share requested per liked seed title
// when building personalized recommendations.
const perLikedTitle = 3

// surveyDescriptionLimit truncates survey descriptions for the initial
// taste survey payload.
const surveyDescriptionLimit = 100

// SurveyTitle is one entry of the initial taste survey: a compact
// projection with the item's primary genre and a truncated description.
type SurveyTitle struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Type        catalog.MediaType `json:"type"`
	Genre       string            `json:"genre"`
	Description string            `json:"description"`
}

// Engine owns the built recommenders for one catalog snapshot and
// orchestrates queries across them. Rebuilding (a new snapshot or a
// refit ratings model) swaps state under a write lock; queries take
// read locks, so concurrent reads never block each other.
type Engine struct {
	mu          sync.RWMutex
	snap        *catalog.Snapshot
	index       *textindex.Index
	content     *ContentRecommender
	collab      *CollaborativeRecommender
	hybrid      *HybridRecommender
	titleGenres map[string][]string

	log zerolog.Logger
}

// NewEngine builds the text index for the snapshot and wires the
// content and hybrid recommenders. The collaborative model starts
// empty; call FitRatings once ratings are available.
func NewEngine(snap *catalog.Snapshot) (*Engine, error) {
	e := &Engine{log: logging.With().Str("component", "engine").Logger()}
	if err := e.Rebuild(snap); err != nil {
		return nil, err
	}
	return e, nil
}

// Rebuild replaces the snapshot and rebuilds the text index and the
// recommenders bound to it. The collaborative model is kept: its item
// IDs are stable across snapshots.
func (e *Engine) Rebuild(snap *catalog.Snapshot) error {
	start := time.Now()
	index, err := textindex.Build(snap)
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		e.log.Warn().Err(ErrEmptyCatalog).Msg("catalog snapshot is empty, serving empty recommendations")
	}
	metrics.RecordIndexBuild(index.VocabularySize(), time.Since(start))
	metrics.CatalogSize.Set(float64(snap.Len()))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = snap
	e.index = index
	e.content = NewContentRecommender(snap, index)
	e.hybrid = NewHybridRecommender(snap, e.content, e.collab)
	e.titleGenres = snap.TitleGenres()

	e.log.Info().
		Int("items", snap.Len()).
		Int("vocabulary", index.VocabularySize()).
		Dur("took", time.Since(start)).
		Msg("catalog index rebuilt")
	return nil
}

// FitRatings fits the collaborative model from flat rating rows. Zero
// rows fail with ErrEmptyRatings and leave the previous model, if any,
// in place.
func (e *Engine) FitRatings(rows []RatingRow) error {
	start := time.Now()
	model, err := FitCollaborative(rows)
	metrics.RecordModelFit(time.Since(start), err)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.collab = model
	e.hybrid = NewHybridRecommender(e.snap, e.content, model)

	e.log.Info().
		Int("ratings", len(rows)).
		Dur("took", time.Since(start)).
		Msg("collaborative model fit")
	return nil
}

// SetCollaborative installs a previously persisted model.
func (e *Engine) SetCollaborative(model *CollaborativeRecommender) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.collab = model
	e.hybrid = NewHybridRecommender(e.snap, e.content, model)
}

// Collaborative returns the current collaborative model, which may be
// nil before the first fit.
func (e *Engine) Collaborative() *CollaborativeRecommender {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collab
}

// Snapshot returns the active catalog snapshot.
func (e *Engine) Snapshot() *catalog.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// TitleGenres returns the lowercase title to genres mapping of the
// active snapshot, for injection into profile recomputation.
func (e *Engine) TitleGenres() map[string][]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.titleGenres
}

// ContentRecommend returns items similar to the seed title.
func (e *Engine) ContentRecommend(title string, n int) ([]Recommendation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	recs, err := e.content.Recommend(title, n)
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendation(string(SourceContent), len(recs), time.Since(start))
	return recs, nil
}

// CollaborativeRecommend returns item IDs ranked by similar users'
// ratings. Cold-start users get an empty list.
func (e *Engine) CollaborativeRecommend(userID string, n int) []ScoredItem {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	recs := e.collab.Recommend(userID, n)
	metrics.RecordRecommendation(string(SourceCollaborative), len(recs), time.Since(start))
	return recs
}

// HybridRecommend merges the content and collaborative rankings.
func (e *Engine) HybridRecommend(userID, seedTitle string, n int) ([]Recommendation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	recs, err := e.hybrid.Recommend(userID, seedTitle, n)
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendation(string(SourceHybrid), len(recs), time.Since(start))
	return recs, nil
}

// SurveyTitles returns a deterministic, genre-diverse sample for the
// initial taste survey: a movie/show mix per primary genre in catalog
// order, padded with remaining items when the stratified pass comes up
// short.
func (e *Engine) SurveyTitles(n int) []SurveyTitle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	picked := e.diverseSample(n)
	out := make([]SurveyTitle, 0, len(picked))
	for _, i := range picked {
		it := e.snap.Item(i)
		out = append(out, SurveyTitle{
			ID:          it.ID,
			Title:       it.Title,
			Type:        it.Type,
			Genre:       primaryGenre(it),
			Description: truncateDescription(it.Description),
		})
	}
	return out
}

// RecommendForUser builds personalized recommendations from the user's
// liked titles: a content share per liked seed, merged, deduplicated,
// minus the liked titles themselves, then re-ranked by the profile's
// genre preferences when present. Users with no usable signal get the
// diverse cold-start sample instead.
//
// genrePreferences is passed in from the profile store; the engine
// never reads profile state itself.
func (e *Engine) RecommendForUser(likedTitles []string, genrePreferences map[string]float64, n int) []Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	recs := e.personalized(likedTitles, genrePreferences, n)
	metrics.RecordRecommendation(string(SourcePersonalized), len(recs), time.Since(start))
	return recs
}

func (e *Engine) personalized(likedTitles []string, prefs map[string]float64, n int) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	if len(likedTitles) == 0 {
		return e.coldStart(n)
	}

	liked := make(map[string]struct{}, len(likedTitles))
	for _, t := range likedTitles {
		liked[normalizeTitle(t)] = struct{}{}
	}

	var combined []Recommendation
	seen := make(map[string]struct{})
	for _, title := range likedTitles {
		recs, err := e.content.Recommend(title, perLikedTitle)
		if err != nil {
			// unknown liked title, skip
			continue
		}
		for _, rec := range recs {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			if _, isLiked := liked[normalizeTitle(rec.Title)]; isLiked {
				continue
			}
			seen[rec.ID] = struct{}{}
			rec.Source = SourcePersonalized
			combined = append(combined, rec)
		}
	}
	if len(combined) == 0 {
		return e.coldStart(n)
	}

	if len(prefs) > 0 {
		for i := range combined {
			combined[i].Score = genreScore(combined[i].Genres, prefs)
		}
		sort.SliceStable(combined, func(a, b int) bool {
			return combined[a].Score > combined[b].Score
		})
	}

	if n > len(combined) {
		n = len(combined)
	}
	return combined[:n]
}

// coldStart projects the diverse sample for users with no signal.
func (e *Engine) coldStart(n int) []Recommendation {
	picked := e.diverseSample(n)
	out := make([]Recommendation, 0, len(picked))
	for _, i := range picked {
		out = append(out, newRecommendation(e.snap.Item(i), 0, SourcePersonalized))
	}
	return out
}

// diverseSample picks up to n item indexes, stratified by primary genre
// with a movie/show mix inside each genre, then padded in catalog
// order. Fully deterministic for a given snapshot.
func (e *Engine) diverseSample(n int) []int {
	if n <= 0 || e.snap.Len() == 0 {
		return nil
	}

	// Primary genres in order of first appearance.
	var genres []string
	byGenre := make(map[string][]int)
	for i := 0; i < e.snap.Len(); i++ {
		g := primaryGenre(e.snap.Item(i))
		if _, ok := byGenre[g]; !ok {
			genres = append(genres, g)
		}
		byGenre[g] = append(byGenre[g], i)
	}

	perGenre := n / len(genres)
	if perGenre < 2 {
		perGenre = 2
	}
	perType := perGenre / 2
	if perType < 1 {
		perType = 1
	}

	picked := make([]int, 0, n)
	seen := make(map[int]struct{})
	for _, g := range genres {
		if len(picked) >= n {
			break
		}
		for _, mediaType := range []catalog.MediaType{catalog.TypeMovie, catalog.TypeShow} {
			taken := 0
			for _, i := range byGenre[g] {
				if taken >= perType || len(picked) >= n {
					break
				}
				if e.snap.Item(i).Type != mediaType {
					continue
				}
				if _, dup := seen[i]; dup {
					continue
				}
				seen[i] = struct{}{}
				picked = append(picked, i)
				taken++
			}
		}
	}

	// Pad with remaining items in catalog order.
	for i := 0; i < e.snap.Len() && len(picked) < n; i++ {
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		picked = append(picked, i)
	}
	return picked
}

// genreScore is the mean preference weight over the candidate's genres,
// 0 when the candidate has none.
func genreScore(genres []string, prefs map[string]float64) float64 {
	if len(genres) == 0 {
		return 0
	}
	var sum float64
	for _, g := range genres {
		sum += prefs[g]
	}
	return sum / float64(len(genres))
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func primaryGenre(it catalog.Item) string {
	if len(it.Genres) == 0 {
		return "Unknown"
	}
	return it.Genres[0]
}

func truncateDescription(desc string) string {
	if len(desc) <= surveyDescriptionLimit {
		return desc
	}
	return desc[:surveyDescriptionLimit] + "..."
}
