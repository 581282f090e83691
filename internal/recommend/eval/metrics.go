// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package eval provides offline ranking-quality metrics. All functions
// are pure: they operate on item-ID sequences only and never touch the
// live catalog or any model state.
package eval

import (
	"math"
)

// Result bundles the four metrics for one (recommended, relevant) pair.
type Result struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	NDCG      float64 `json:"ndcg"`
	AP        float64 `json:"ap"`
}

// Evaluate computes all four metrics at k for one query.
func Evaluate(recommended, relevant []string, k int) Result {
	return Result{
		Precision: PrecisionAtK(recommended, relevant, k),
		Recall:    RecallAtK(recommended, relevant, k),
		NDCG:      NDCGAtK(recommended, relevant, k),
		AP:        AveragePrecisionAtK(recommended, relevant, k),
	}
}

// PrecisionAtK is hits in the top k divided by min(k, len(recommended)).
// Empty recommended yields 0.
func PrecisionAtK(recommended, relevant []string, k int) float64 {
	if len(recommended) == 0 || k <= 0 {
		return 0
	}
	topK := truncate(recommended, k)
	hits := countHits(topK, relevant)
	denom := k
	if len(topK) < denom {
		denom = len(topK)
	}
	return float64(hits) / float64(denom)
}

// RecallAtK is hits in the top k divided by the total number of
// relevant items. Empty relevant yields 0.
func RecallAtK(recommended, relevant []string, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}
	hits := countHits(truncate(recommended, k), relevant)
	return float64(hits) / float64(len(relevant))
}

// NDCGAtK is binary-relevance DCG over the top k divided by the ideal
// DCG from min(k, len(relevant)) best-case positions. Gain at 0-indexed
// rank i is 1/log2(i+2). Either input empty yields 0.
func NDCGAtK(recommended, relevant []string, k int) float64 {
	if len(recommended) == 0 || len(relevant) == 0 || k <= 0 {
		return 0
	}

	relevantSet := toSet(relevant)
	var dcg float64
	for i, id := range truncate(recommended, k) {
		if _, ok := relevantSet[id]; ok {
			dcg += 1 / math.Log2(float64(i+2))
		}
	}

	ideal := k
	if len(relevant) < ideal {
		ideal = len(relevant)
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i+2))
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

// AveragePrecisionAtK is the sum of precision-at-hit-positions in the
// top k divided by min(len(relevant), k). No hits yields 0.
func AveragePrecisionAtK(recommended, relevant []string, k int) float64 {
	if len(recommended) == 0 || len(relevant) == 0 || k <= 0 {
		return 0
	}

	relevantSet := toSet(relevant)
	hits := 0
	var sumPrecs float64
	for i, id := range truncate(recommended, k) {
		if _, ok := relevantSet[id]; ok {
			hits++
			sumPrecs += float64(hits) / float64(i+1)
		}
	}
	if hits == 0 {
		return 0
	}

	denom := len(relevant)
	if k < denom {
		denom = k
	}
	return sumPrecs / float64(denom)
}

// MeanAveragePrecision averages AveragePrecisionAtK across aligned
// query pairs. Mismatched lengths zip to the shorter side; an empty
// query list yields 0.
func MeanAveragePrecision(recommendedLists, relevantLists [][]string, k int) float64 {
	if len(recommendedLists) == 0 {
		return 0
	}

	n := len(recommendedLists)
	if len(relevantLists) < n {
		n = len(relevantLists)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += AveragePrecisionAtK(recommendedLists[i], relevantLists[i], k)
	}
	return sum / float64(len(recommendedLists))
}

func truncate(ids []string, k int) []string {
	if k < len(ids) {
		return ids[:k]
	}
	return ids
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// countHits counts distinct top-k items that appear in relevant, set
// semantics on both sides.
func countHits(topK, relevant []string) int {
	relevantSet := toSet(relevant)
	seen := make(map[string]struct{}, len(topK))
	hits := 0
	for _, id := range topK {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := relevantSet[id]; ok {
			hits++
		}
	}
	return hits
}
