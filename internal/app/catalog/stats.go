package catalog

import (
	"sort"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
)

// ComputeStats aggregates catalog-wide statistics over trips. An empty input
// yields the zero-valued record rather than an error.
func ComputeStats(trips []domain.Trip) CatalogStats {
	if len(trips) == 0 {
		return CatalogStats{}
	}

	stats := CatalogStats{
		TotalTrips: len(trips),
		MinPrice:   trips[0].PerPerson,
		MaxPrice:   trips[0].PerPerson,
	}

	var priceSum, lengthSum, ratingSum float64
	for _, t := range trips {
		priceSum += t.PerPerson
		lengthSum += float64(t.Length)
		ratingSum += t.AverageRating
		stats.TotalReviews += t.TotalReviews

		if t.PerPerson < stats.MinPrice {
			stats.MinPrice = t.PerPerson
		}
		if t.PerPerson > stats.MaxPrice {
			stats.MaxPrice = t.PerPerson
		}
	}

	n := float64(len(trips))
	stats.AveragePrice = priceSum / n
	stats.AverageLength = domain.Round1(lengthSum / n)
	stats.AverageRating = domain.Round1(ratingSum / n)
	return stats
}

// DefaultTopRatedLimit is used when the caller supplies no limit or a
// non-positive one.
const DefaultTopRatedLimit = 5

// TopRated ranks reviewed trips (totalReviews > 0) by average rating
// descending, breaking ties by descending review count, and returns the first
// limit as reduced projections.
func TopRated(trips []domain.Trip, limit int) []domain.TripCard {
	if limit <= 0 {
		limit = DefaultTopRatedLimit
	}

	reviewed := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if t.TotalReviews > 0 {
			reviewed = append(reviewed, t)
		}
	}

	sort.SliceStable(reviewed, func(i, j int) bool {
		if reviewed[i].AverageRating != reviewed[j].AverageRating {
			return reviewed[i].AverageRating > reviewed[j].AverageRating
		}
		return reviewed[i].TotalReviews > reviewed[j].TotalReviews
	})

	if limit > len(reviewed) {
		limit = len(reviewed)
	}
	out := make([]domain.TripCard, 0, limit)
	for _, t := range reviewed[:limit] {
		out = append(out, t.Card())
	}
	return out
}
