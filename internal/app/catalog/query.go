package catalog

import (
	"strings"

	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

// sortFields whitelists caller-facing sort names. Unknown names are treated as
// absent rather than rejected.
var sortFields = map[string]tripstore.SortField{
	"name":   tripstore.SortByName,
	"price":  tripstore.SortByPrice,
	"length": tripstore.SortByLength,
	"start":  tripstore.SortByStart,
	"rating": tripstore.SortByRating,
}

// BuildQuery translates a search filter into the normalized query and sort
// specifications consumed by the trip store.
//
// Sort resolution, in priority order: an explicit whitelisted sort field wins
// (ascending unless the order is "desc"); otherwise a non-empty text query
// sorts by descending relevance; otherwise name ascending. Exactly one sort
// rule is active.
func BuildQuery(f SearchFilter) (tripstore.Query, tripstore.Sort) {
	q := tripstore.Query{
		Text:      strings.TrimSpace(f.Query),
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		MinLength: f.MinLength,
		MaxLength: f.MaxLength,
		Resort:    strings.TrimSpace(f.Resort),
	}

	if field, ok := sortFields[strings.ToLower(strings.TrimSpace(f.SortBy))]; ok {
		return q, tripstore.Sort{
			Field:      field,
			Descending: strings.EqualFold(strings.TrimSpace(f.SortOrder), "desc"),
		}
	}
	if q.Text != "" {
		return q, tripstore.Sort{Field: tripstore.SortByRelevance, Descending: true}
	}
	return q, tripstore.Sort{Field: tripstore.SortByName}
}
