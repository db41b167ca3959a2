package evaluation

import (
	"math"
	"sort"
)

// DCG returns the discounted cumulative gain of relevances in ranked order.
func DCG(relevances []float64) float64 {
	sum := 0.0
	for i, rel := range relevances {
		sum += rel / math.Log2(float64(i+2))
	}
	return sum
}

// NDCG scores a predicted ranking against ground-truth relevance, cut at k.
// Partners missing from relevance count as 0. When the ideal ranking has no
// positive relevance the score is 0.
func NDCG(predicted []string, relevance map[string]float64, k int) float64 {
	if k <= 0 {
		return 0
	}

	if len(predicted) > k {
		predicted = predicted[:k]
	}
	rels := make([]float64, len(predicted))
	for i, p := range predicted {
		rels[i] = relevance[p]
	}

	ideal := make([]float64, 0, len(relevance))
	for _, rel := range relevance {
		ideal = append(ideal, rel)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
	if len(ideal) > k {
		ideal = ideal[:k]
	}

	anyPositive := false
	for _, rel := range ideal {
		if rel != 0 {
			anyPositive = true
			break
		}
	}
	if !anyPositive {
		return 0
	}

	return DCG(rels) / math.Max(DCG(ideal), 1e-9)
}
