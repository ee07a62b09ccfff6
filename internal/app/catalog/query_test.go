package catalog_test

import (
	"testing"

	"github.com/travlr-labs/travel-catalog-api/internal/app/catalog"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

func TestBuildQuery_CopiesFiltersVerbatim(t *testing.T) {
	t.Parallel()

	minPrice, maxPrice := 500.0, 1500.0
	minLen, maxLen := 3, 14
	q, s := catalog.BuildQuery(catalog.SearchFilter{
		Query:     "  coral reef  ",
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		MinLength: &minLen,
		MaxLength: &maxLen,
		Resort:    " Bay ",
	})

	if q.Text != "coral reef" {
		t.Fatalf("text=%q", q.Text)
	}
	if *q.MinPrice != 500 || *q.MaxPrice != 1500 || *q.MinLength != 3 || *q.MaxLength != 14 {
		t.Fatalf("bounds=%+v", q)
	}
	if q.Resort != "Bay" {
		t.Fatalf("resort=%q", q.Resort)
	}
	// Text present and no explicit sort: relevance descending.
	if s.Field != tripstore.SortByRelevance || !s.Descending {
		t.Fatalf("sort=%+v", s)
	}
}

func TestBuildQuery_SortResolutionPriority(t *testing.T) {
	t.Parallel()

	// Explicit sort beats text relevance.
	_, s := catalog.BuildQuery(catalog.SearchFilter{Query: "reef", SortBy: "price", SortOrder: "desc"})
	if s.Field != tripstore.SortByPrice || !s.Descending {
		t.Fatalf("sort=%+v", s)
	}

	// Direction defaults to ascending.
	_, s = catalog.BuildQuery(catalog.SearchFilter{SortBy: "rating"})
	if s.Field != tripstore.SortByRating || s.Descending {
		t.Fatalf("sort=%+v", s)
	}

	// No sort, no text: name ascending.
	_, s = catalog.BuildQuery(catalog.SearchFilter{})
	if s.Field != tripstore.SortByName || s.Descending {
		t.Fatalf("sort=%+v", s)
	}

	// Unknown sort field is treated as absent.
	_, s = catalog.BuildQuery(catalog.SearchFilter{SortBy: "bogus"})
	if s.Field != tripstore.SortByName {
		t.Fatalf("sort=%+v", s)
	}
	_, s = catalog.BuildQuery(catalog.SearchFilter{Query: "reef", SortBy: "bogus"})
	if s.Field != tripstore.SortByRelevance {
		t.Fatalf("sort=%+v", s)
	}
}

func TestBuildQuery_BlankTextIsAbsent(t *testing.T) {
	t.Parallel()

	q, s := catalog.BuildQuery(catalog.SearchFilter{Query: "   "})
	if q.Text != "" {
		t.Fatalf("text=%q", q.Text)
	}
	if s.Field != tripstore.SortByName {
		t.Fatalf("sort=%+v", s)
	}
}
