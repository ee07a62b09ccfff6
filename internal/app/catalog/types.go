package catalog

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
)

// AddTripInput carries the caller-supplied fields for a new trip. Derived
// rating fields are not accepted; they always start at zero.
type AddTripInput struct {
	Code        string
	Name        string
	Length      int
	Start       time.Time
	Resort      string
	PerPerson   float64
	Image       string
	Description string
}

// UpdateTripInput is a tri-state patch: unspecified fields are left unchanged.
// Every trip field is required, so an explicit null is a validation error.
type UpdateTripInput struct {
	Name        nullable.Nullable[string]
	Length      nullable.Nullable[int]
	Start       nullable.Nullable[time.Time]
	Resort      nullable.Nullable[string]
	PerPerson   nullable.Nullable[float64]
	Image       nullable.Nullable[string]
	Description nullable.Nullable[string]
}

// ReviewInput carries the caller-supplied fields for a review appended to a
// trip.
type ReviewInput struct {
	Author  string
	Rating  int
	Comment string
}

// SearchFilter is the unordered set of optional search parameters. Nil/empty
// fields are absent. The HTTP layer maps unparsable numeric parameters to nil
// rather than failing the request.
type SearchFilter struct {
	Query     string   `json:"query,omitempty"`
	MinPrice  *float64 `json:"minPrice,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Resort    string   `json:"resort,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`
	SortOrder string   `json:"sortOrder,omitempty"`
}

// SearchResult echoes the filter alongside the matching trips.
type SearchResult struct {
	Results []domain.Trip `json:"results"`
	Count   int           `json:"count"`
	Filter  SearchFilter  `json:"filter"`
}

// Recommendation is one similarity result with its heuristic score.
type Recommendation struct {
	domain.TripCard
	Score int `json:"score"`
}

// SimilarTrips is the similarity response for one reference trip.
type SimilarTrips struct {
	BasedOn         domain.TripCard  `json:"basedOn"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ReviewAdded reports the trip state after a review append.
type ReviewAdded struct {
	Trip          domain.Trip `json:"trip"`
	AverageRating float64     `json:"averageRating"`
	TotalReviews  int         `json:"totalReviews"`
}

// TripReviews is the review listing for one trip.
type TripReviews struct {
	TripName      string          `json:"tripName"`
	AverageRating float64         `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
	Reviews       []domain.Review `json:"reviews"`
}

// CatalogStats is the catalog-wide aggregate record. Every field is zero for
// an empty catalog.
type CatalogStats struct {
	TotalTrips    int     `json:"totalTrips"`
	AveragePrice  float64 `json:"averagePrice"`
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
	AverageLength float64 `json:"averageLength"`
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
}
