package catalog

import (
	"math"
	"sort"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
)

// MaxSimilarityScore is the highest score SimilarityScore can produce
// (price 3 + duration 3 + resort 5).
const MaxSimilarityScore = 11

// SimilarityScore computes the heuristic similarity between a reference trip
// and a candidate. It is pure and deterministic: three independent sub-scores,
// summed.
func SimilarityScore(ref, cand domain.Trip) int {
	score := 0

	switch priceDiff := math.Abs(cand.PerPerson - ref.PerPerson); {
	case priceDiff < 500:
		score += 3
	case priceDiff < 1000:
		score += 2
	case priceDiff < 2000:
		score += 1
	}

	lengthDiff := cand.Length - ref.Length
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	switch {
	case lengthDiff <= 2:
		score += 3
	case lengthDiff <= 5:
		score += 2
	case lengthDiff <= 7:
		score += 1
	}

	if cand.Resort == ref.Resort {
		score += 5
	}
	return score
}

// RankSimilar scores every candidate against ref and returns the top n as
// recommendations, zero scores included. Ties keep the order in which
// candidates were supplied. Candidates sharing ref's code are skipped.
func RankSimilar(ref domain.Trip, candidates []domain.Trip, n int) []Recommendation {
	scored := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if c.Code == ref.Code {
			continue
		}
		scored = append(scored, Recommendation{
			TripCard: c.Card(),
			Score:    SimilarityScore(ref, c),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}
