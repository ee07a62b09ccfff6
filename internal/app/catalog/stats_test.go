package catalog_test

import (
	"testing"

	"github.com/travlr-labs/travel-catalog-api/internal/app/catalog"
	"github.com/travlr-labs/travel-catalog-api/internal/domain"
)

func TestComputeStats_EmptyCatalogIsAllZeros(t *testing.T) {
	t.Parallel()

	got := catalog.ComputeStats(nil)
	if got != (catalog.CatalogStats{}) {
		t.Fatalf("stats=%+v, want zero record", got)
	}
}

func TestComputeStats_Aggregates(t *testing.T) {
	t.Parallel()

	trips := []domain.Trip{
		{Code: "A1", PerPerson: 500, Length: 7, AverageRating: 4.0, TotalReviews: 2},
		{Code: "B1", PerPerson: 1500, Length: 10, AverageRating: 3.5, TotalReviews: 1},
		{Code: "C1", PerPerson: 1000, Length: 5, AverageRating: 0, TotalReviews: 0},
	}
	got := catalog.ComputeStats(trips)

	if got.TotalTrips != 3 {
		t.Fatalf("totalTrips=%d", got.TotalTrips)
	}
	if got.AveragePrice != 1000 || got.MinPrice != 500 || got.MaxPrice != 1500 {
		t.Fatalf("price stats=%v/%v/%v", got.AveragePrice, got.MinPrice, got.MaxPrice)
	}
	// (7+10+5)/3 = 7.333... -> 7.3
	if got.AverageLength != 7.3 {
		t.Fatalf("averageLength=%v", got.AverageLength)
	}
	if got.TotalReviews != 3 {
		t.Fatalf("totalReviews=%d", got.TotalReviews)
	}
	// (4.0+3.5+0)/3 = 2.5
	if got.AverageRating != 2.5 {
		t.Fatalf("averageRating=%v", got.AverageRating)
	}
}

func TestTopRated_FiltersSortsAndTieBreaks(t *testing.T) {
	t.Parallel()

	trips := []domain.Trip{
		{Code: "NONE", Name: "Unreviewed", AverageRating: 0, TotalReviews: 0},
		{Code: "LOW1", Name: "Low", AverageRating: 3.0, TotalReviews: 9},
		{Code: "TIEA", Name: "Tie A", AverageRating: 4.5, TotalReviews: 3},
		{Code: "TIEB", Name: "Tie B", AverageRating: 4.5, TotalReviews: 8},
		{Code: "TOPP", Name: "Top", AverageRating: 5.0, TotalReviews: 1},
	}

	got := catalog.TopRated(trips, 10)
	if len(got) != 4 {
		t.Fatalf("len=%d (unreviewed trip leaked in?)", len(got))
	}
	if got[0].Code != "TOPP" {
		t.Fatalf("first=%s", got[0].Code)
	}
	// Equal ratings order by descending review count.
	if got[1].Code != "TIEB" || got[2].Code != "TIEA" {
		t.Fatalf("tie-break order: %s, %s", got[1].Code, got[2].Code)
	}
	if got[3].Code != "LOW1" {
		t.Fatalf("last=%s", got[3].Code)
	}
}

func TestTopRated_LimitDefaultsAndTruncates(t *testing.T) {
	t.Parallel()

	trips := make([]domain.Trip, 0, 8)
	for i := 0; i < 8; i++ {
		trips = append(trips, domain.Trip{
			Code:          string(rune('A'+i)) + "123",
			AverageRating: float64(i%5) + 0.5,
			TotalReviews:  i + 1,
		})
	}

	if got := catalog.TopRated(trips, 0); len(got) != catalog.DefaultTopRatedLimit {
		t.Fatalf("limit 0 -> len=%d, want default %d", len(got), catalog.DefaultTopRatedLimit)
	}
	if got := catalog.TopRated(trips, -3); len(got) != catalog.DefaultTopRatedLimit {
		t.Fatalf("negative limit -> len=%d", len(got))
	}
	if got := catalog.TopRated(trips, 2); len(got) != 2 {
		t.Fatalf("limit 2 -> len=%d", len(got))
	}
}
