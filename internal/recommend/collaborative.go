// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package recommend

import (
	"math"
	"sort"
)

// ScoredItem is one collaborative ranking result. Score is the mean
// rating the item received across the other users in the matrix, so it
// lives on the rating scale, not the cosine scale.
type ScoredItem struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// CollaborativeRecommender ranks items by rating patterns of similar
// users. Fit builds a dense user-by-item matrix (unrated pairs
// zero-filled) and a user-user cosine similarity matrix; queries are
// pure reads over both.
//
// A nil receiver behaves as a model fit from zero rows: every query
// returns empty results.
type CollaborativeRecommender struct {
	users   []string // sorted, row order
	items   []string // sorted, column order
	userIdx map[string]int
	matrix  [][]float64 // users x items, zero = unrated
	sims    [][]float64 // users x users cosine
}

// FitCollaborative builds the model from flat rating rows. Duplicate
// (user, item) pairs keep the last row. Zero rows fail with
// ErrEmptyRatings; callers should keep serving with a nil model, which
// degrades to empty results.
func FitCollaborative(rows []RatingRow) (*CollaborativeRecommender, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRatings
	}

	userSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	for _, r := range rows {
		userSet[r.UserID] = struct{}{}
		itemSet[r.ItemID] = struct{}{}
	}

	users := sortedKeys(userSet)
	items := sortedKeys(itemSet)

	userIdx := make(map[string]int, len(users))
	for i, u := range users {
		userIdx[u] = i
	}
	itemIdx := make(map[string]int, len(items))
	for j, it := range items {
		itemIdx[it] = j
	}

	matrix := make([][]float64, len(users))
	for i := range matrix {
		matrix[i] = make([]float64, len(items))
	}
	for _, r := range rows {
		matrix[userIdx[r.UserID]][itemIdx[r.ItemID]] = r.Score
	}

	c := &CollaborativeRecommender{
		users:   users,
		items:   items,
		userIdx: userIdx,
		matrix:  matrix,
	}
	c.sims = userCosineMatrix(matrix)
	return c, nil
}

// userCosineMatrix computes the symmetric user-user cosine similarity
// matrix. All-zero rows have similarity 0 to everything.
func userCosineMatrix(matrix [][]float64) [][]float64 {
	n := len(matrix)
	norms := make([]float64, n)
	for i, row := range matrix {
		var sum float64
		for _, v := range row {
			sum += v * v
		}
		norms[i] = math.Sqrt(sum)
	}

	sims := make([][]float64, n)
	for i := range sims {
		sims[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var dot float64
			for k, v := range matrix[i] {
				dot += v * matrix[j][k]
			}
			var sim float64
			if norms[i] > 0 && norms[j] > 0 {
				sim = dot / (norms[i] * norms[j])
			}
			sims[i][j] = sim
			sims[j][i] = sim
		}
	}
	return sims
}

// HasUser reports whether the user has a row in the rating matrix.
func (c *CollaborativeRecommender) HasUser(userID string) bool {
	if c == nil {
		return false
	}
	_, ok := c.userIdx[userID]
	return ok
}

// UserSimilarity returns the cosine similarity between two users' rating
// vectors, or 0 when either user is unknown.
func (c *CollaborativeRecommender) UserSimilarity(a, b string) float64 {
	if c == nil {
		return 0
	}
	i, okA := c.userIdx[a]
	j, okB := c.userIdx[b]
	if !okA || !okB {
		return 0
	}
	return c.sims[i][j]
}

// Recommend returns up to n items the user has not rated, ranked by the
// mean rating across all other users (unrated pairs count as zero, so
// widely rated items outrank niche ones). Unknown users are a cold
// start and return an empty list, never an error. Ties break by item ID
// ascending for determinism.
func (c *CollaborativeRecommender) Recommend(userID string, n int) []ScoredItem {
	if c == nil || n <= 0 {
		return []ScoredItem{}
	}
	u, ok := c.userIdx[userID]
	if !ok {
		return []ScoredItem{}
	}
	others := len(c.users) - 1
	if others == 0 {
		return []ScoredItem{}
	}

	scored := make([]ScoredItem, 0, len(c.items))
	for j, itemID := range c.items {
		if c.matrix[u][j] != 0 {
			continue // already rated
		}
		var sum float64
		for i := range c.users {
			if i == u {
				continue
			}
			sum += c.matrix[i][j]
		}
		scored = append(scored, ScoredItem{ItemID: itemID, Score: sum / float64(others)})
	}

	// items is sorted ascending, so a stable sort by score yields the
	// item-ID tie-break for free.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}

// State is the serializable form of the model. The similarity matrix
// is derived and recomputed on restore.
type State struct {
	Users  []string
	Items  []string
	Matrix [][]float64
}

// State exports the model for persistence. Nil models export an empty
// state.
func (c *CollaborativeRecommender) State() State {
	if c == nil {
		return State{}
	}
	return State{Users: c.users, Items: c.items, Matrix: c.matrix}
}

// CollaborativeFromState restores a model from persisted state,
// recomputing the similarity matrix. Empty state yields a nil model.
func CollaborativeFromState(st State) *CollaborativeRecommender {
	if len(st.Users) == 0 {
		return nil
	}
	userIdx := make(map[string]int, len(st.Users))
	for i, u := range st.Users {
		userIdx[u] = i
	}
	c := &CollaborativeRecommender{
		users:   st.Users,
		items:   st.Items,
		userIdx: userIdx,
		matrix:  st.Matrix,
	}
	c.sims = userCosineMatrix(st.Matrix)
	return c
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
