package tripstore

import (
	"context"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
)

// SortField names a sortable trip attribute.
type SortField string

const (
	SortByName   SortField = "name"
	SortByPrice  SortField = "price"
	SortByLength SortField = "length"
	SortByStart  SortField = "start"
	SortByRating SortField = "rating"

	// SortByRelevance orders by full-text match score. It is only meaningful
	// when Query.Text is non-empty; stores fall back to name ascending
	// otherwise.
	SortByRelevance SortField = "relevance"
)

// Sort is the normalized sort specification. Exactly one sort rule is active
// per query; stores may apply a deterministic tie-break of their own but never
// a caller-visible secondary key.
type Sort struct {
	Field      SortField
	Descending bool
}

// Query is the normalized filter specification consumed by Find. The zero
// value matches every trip. Criteria that are present combine with logical
// AND; all numeric bounds are inclusive.
type Query struct {
	// Text matches against the store's full-text index over name and
	// description.
	Text string

	MinPrice *float64
	MaxPrice *float64

	MinLength *int
	MaxLength *int

	// Resort is a case-insensitive substring match.
	Resort string
}

// Store is the queryable trip collection the catalog core reads and writes
// through. Implementations own indexing and query execution; failures other
// than the sentinel errors below are propagated to the caller unmodified.
type Store interface {
	// Find returns trips matching q ordered by s. An empty result is a valid
	// outcome, not an error.
	Find(ctx context.Context, q Query, s Sort) ([]domain.Trip, error)

	// FindByCode returns the trip with the given (normalized) code, or
	// ErrNotFound.
	FindByCode(ctx context.Context, code string) (domain.Trip, error)

	// Create persists a new trip. Returns ErrAlreadyExists when the code is
	// taken.
	Create(ctx context.Context, t domain.Trip) error

	// Save replaces the trip identified by t.Code. The stored revision must
	// equal t.Revision or Save fails with ErrConflict; on success the stored
	// revision is incremented. Returns ErrNotFound when no trip has t.Code.
	Save(ctx context.Context, t domain.Trip) error
}
