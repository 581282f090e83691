// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package textindex builds a TF-IDF term-vector index over a catalog
// snapshot and answers nearest-neighbor queries by cosine similarity.
//
// Row order is fixed and matches the snapshot's item order for the
// lifetime of the index. Queries are pure reads and safe for concurrent
// use once Build returns.
package textindex

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/curatus/internal/catalog"
)

var (
	// ErrNotFound indicates an item index outside the snapshot range.
	ErrNotFound = errors.New("item index out of range")

	// ErrEmptyCatalog marks a catalog with zero rows. Build still
	// succeeds and the empty index answers every query with no
	// matches; callers log this sentinel instead of failing.
	ErrEmptyCatalog = errors.New("catalog snapshot is empty")
)

// Match is one similarity query result: a snapshot item index and its
// cosine score against the query item.
type Match struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// vector is a sparse L2-normalized term vector. Terms are vocabulary
// column ids in ascending order, aligned with weights.
type vector struct {
	terms   []int32
	weights []float64
}

// Index holds one sparse vector per catalog item plus the vocabulary
// that maps terms to columns. Similarities are computed on demand per
// query rather than materialized as a full pairwise matrix, keeping
// memory linear in catalog size.
type Index struct {
	vocab map[string]int32
	docs  []vector
}

// Build tokenizes every item's text profile, discards stopwords, and
// weights the remaining terms by TF-IDF with the smoothed IDF
// log((1+N)/(1+df)) + 1. Each item vector is L2-normalized so cosine
// similarity reduces to a sparse dot product. An empty snapshot builds
// an empty index whose queries all return ErrNotFound.
func Build(snap *catalog.Snapshot) (*Index, error) {
	n := snap.Len()

	// First pass: per-document term counts and document frequencies.
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	for i := 0; i < n; i++ {
		tokens := tokenize(snap.Soup(i))
		tc := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tc[tok]++
		}
		counts[i] = tc
		for term := range tc {
			df[term]++
		}
	}

	// Vocabulary columns in sorted term order for determinism.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int32, len(terms))
	idf := make([]float64, len(terms))
	for col, term := range terms {
		vocab[term] = int32(col)
		idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	// Second pass: weighted, normalized vectors.
	docs := make([]vector, n)
	for i := 0; i < n; i++ {
		docs[i] = buildVector(counts[i], vocab, idf)
	}

	return &Index{vocab: vocab, docs: docs}, nil
}

// buildVector converts raw term counts into a sorted, L2-normalized
// sparse vector.
func buildVector(counts map[string]int, vocab map[string]int32, idf []float64) vector {
	cols := make([]int32, 0, len(counts))
	for term := range counts {
		cols = append(cols, vocab[term])
	}
	sort.Slice(cols, func(a, b int) bool { return cols[a] < cols[b] })

	// Column -> term reverse lookup is avoided by re-walking counts.
	weightOf := make(map[int32]float64, len(counts))
	var norm float64
	for term, count := range counts {
		col := vocab[term]
		w := float64(count) * idf[col]
		weightOf[col] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	weights := make([]float64, len(cols))
	for i, col := range cols {
		if norm > 0 {
			weights[i] = weightOf[col] / norm
		}
	}
	return vector{terms: cols, weights: weights}
}

// tokenize lowercases, splits on whitespace, and drops stopwords.
// Snapshot soups are already lowercased but queries may not be.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := fields[:0]
	for _, f := range fields {
		if !isStopword(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// VocabularySize returns the number of distinct terms in the index.
func (idx *Index) VocabularySize() int {
	return len(idx.vocab)
}

// Similarity returns the cosine similarity between two indexed items.
// Both vectors are L2-normalized so this is a sparse dot product and
// the result is in [-1, 1]; with non-negative TF-IDF weights it is in
// [0, 1]. Similarity is symmetric.
func (idx *Index) Similarity(a, b int) (float64, error) {
	if a < 0 || a >= len(idx.docs) || b < 0 || b >= len(idx.docs) {
		return 0, ErrNotFound
	}
	return dot(idx.docs[a], idx.docs[b]), nil
}

// Similar returns the k items most similar to the item at itemIndex,
// sorted by score descending. The query item itself is always excluded.
// Ties keep original catalog order. Fewer than k results are returned
// when the catalog is smaller than k+1.
func (idx *Index) Similar(itemIndex, k int) ([]Match, error) {
	if itemIndex < 0 || itemIndex >= len(idx.docs) {
		return nil, ErrNotFound
	}
	if k <= 0 {
		return []Match{}, nil
	}

	query := idx.docs[itemIndex]
	matches := make([]Match, 0, len(idx.docs)-1)
	for i := range idx.docs {
		if i == itemIndex {
			continue
		}
		matches = append(matches, Match{Index: i, Score: dot(query, idx.docs[i])})
	}

	// Stable sort keeps catalog order among equal scores.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// dot computes the dot product of two sorted sparse vectors.
func dot(a, b vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			sum += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
