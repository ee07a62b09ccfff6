// Package catalog implements the travel-package catalog: cache-fronted reads,
// filtered search, similarity recommendations, aggregate statistics, and
// review accumulation over the trip store abstraction.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	clockport "github.com/travlr-labs/travel-catalog-api/internal/ports/out/clock"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
	"github.com/travlr-labs/travel-catalog-api/internal/platform/cache"
)

// AllTripsCacheKey is the cache key for the full-catalog listing. Every write
// invalidates it.
const AllTripsCacheKey = "all_trips"

// maxSaveAttempts bounds the read-modify-write retry loop used when a
// concurrent writer bumps the trip revision between our read and save.
const maxSaveAttempts = 3

type Service struct {
	store tripstore.Store
	cache *cache.Cache[[]domain.Trip]
	clk   clockport.Clock
	log   *slog.Logger

	newReviewID func() string
}

func NewService(store tripstore.Store, c *cache.Cache[[]domain.Trip], clk clockport.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:       store,
		cache:       c,
		clk:         clk,
		log:         log,
		newReviewID: uuid.NewString,
	}
}

// SetNewReviewIDForTest overrides review ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewReviewIDForTest(fn func() string) {
	if fn != nil {
		s.newReviewID = fn
	}
}

// GetAllTrips returns the full catalog, serving from the cache when a live
// entry exists. An empty catalog is a valid result.
func (s *Service) GetAllTrips(ctx context.Context) ([]domain.Trip, error) {
	if trips, ok := s.cache.Get(AllTripsCacheKey); ok {
		s.log.DebugContext(ctx, "cache hit", "key", AllTripsCacheKey)
		return trips, nil
	}
	s.log.DebugContext(ctx, "cache miss", "key", AllTripsCacheKey)

	trips, err := s.store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByName})
	if err != nil {
		return nil, err
	}
	s.cache.Set(AllTripsCacheKey, trips)
	return trips, nil
}

// GetTripByCode returns the trips matching code as a sequence (zero or one
// element today; the slice shape mirrors the list endpoints).
func (s *Service) GetTripByCode(ctx context.Context, code string) ([]domain.Trip, error) {
	t, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return []domain.Trip{t}, nil
}

// AddTrip persists a new trip and invalidates the catalog cache. The cache is
// only cleared after the store accepted the write, so a failed write never
// masks itself behind a fresh cache miss.
func (s *Service) AddTrip(ctx context.Context, in AddTripInput) (domain.Trip, error) {
	code := domain.NormalizeCode(in.Code)
	if !domain.IsValidCode(code) {
		return domain.Trip{}, errValidation("code", "must contain only uppercase letters and numbers")
	}
	if in.Length < 1 || in.Length > 365 {
		return domain.Trip{}, errValidation("length", "must be between 1 and 365 days")
	}
	if in.PerPerson < 0 {
		return domain.Trip{}, errValidation("perPerson", "cannot be negative")
	}

	now := s.clk.Now()
	t := domain.Trip{
		Code:        code,
		Name:        domain.NormalizeHumanName(in.Name),
		Length:      in.Length,
		Start:       in.Start,
		Resort:      strings.TrimSpace(in.Resort),
		PerPerson:   in.PerPerson,
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, t); err != nil {
		if errors.Is(err, tripstore.ErrAlreadyExists) {
			return domain.Trip{}, &Error{Status: 409, Code: "TRIP_CODE_CONFLICT", Message: "trip code already exists"}
		}
		return domain.Trip{}, err
	}

	s.cache.Clear(AllTripsCacheKey)
	return t, nil
}

// UpdateTrip applies a tri-state patch to the trip identified by code and
// invalidates the catalog cache on success. Concurrent revisions are retried a
// bounded number of times.
func (s *Service) UpdateTrip(ctx context.Context, code string, in UpdateTripInput) (domain.Trip, error) {
	var updated domain.Trip

	err := s.saveWithRetry(ctx, code, func(t *domain.Trip) error {
		if err := applyPatch(t, in); err != nil {
			return err
		}
		t.UpdatedAt = s.clk.Now()
		updated = *t
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}

	s.cache.Clear(AllTripsCacheKey)
	return updated, nil
}

// SearchTrips runs a filtered/sorted/text search against the store, bypassing
// the cache, and echoes the filter back with the results.
func (s *Service) SearchTrips(ctx context.Context, f SearchFilter) (SearchResult, error) {
	q, sortSpec := BuildQuery(f)
	trips, err := s.store.Find(ctx, q, sortSpec)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Results: trips, Count: len(trips), Filter: f}, nil
}

// GetSimilarTrips ranks all other trips by heuristic similarity to the
// reference trip and returns the top three, zero scores included.
func (s *Service) GetSimilarTrips(ctx context.Context, code string) (SimilarTrips, error) {
	ref, err := s.findByCode(ctx, code)
	if err != nil {
		return SimilarTrips{}, err
	}

	candidates, err := s.store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByName})
	if err != nil {
		return SimilarTrips{}, err
	}

	return SimilarTrips{
		BasedOn:         ref.Card(),
		Recommendations: RankSimilar(ref, candidates, 3),
	}, nil
}

// AddReview appends a review to the trip's embedded review list, recomputes
// the derived rating fields in the same write, and invalidates the catalog
// cache. Lost updates from concurrent appends are prevented by the store's
// revision check plus a bounded retry.
func (s *Service) AddReview(ctx context.Context, code string, in ReviewInput) (ReviewAdded, error) {
	author := domain.NormalizeHumanName(in.Author)
	if author == "" {
		return ReviewAdded{}, errValidation("author", "must be non-empty")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewAdded{}, errValidation("rating", "must be a whole number between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) < 10 || len(comment) > 1000 {
		return ReviewAdded{}, errValidation("comment", "must be between 10 and 1000 characters")
	}

	var saved domain.Trip
	err := s.saveWithRetry(ctx, code, func(t *domain.Trip) error {
		t.Reviews = append(t.Reviews, domain.Review{
			ID:        s.newReviewID(),
			Author:    author,
			Rating:    in.Rating,
			Comment:   comment,
			CreatedAt: s.clk.Now(),
		})
		// Derived fields are recomputed here, immediately before the save, so
		// the persisted trip always agrees with its review list.
		t.UpdateRatingStats()
		t.UpdatedAt = s.clk.Now()
		saved = *t
		return nil
	})
	if err != nil {
		return ReviewAdded{}, err
	}

	s.cache.Clear(AllTripsCacheKey)
	return ReviewAdded{
		Trip:          saved,
		AverageRating: saved.AverageRating,
		TotalReviews:  saved.TotalReviews,
	}, nil
}

// GetReviews returns the review listing for one trip.
func (s *Service) GetReviews(ctx context.Context, code string) (TripReviews, error) {
	t, err := s.findByCode(ctx, code)
	if err != nil {
		return TripReviews{}, err
	}
	reviews := t.Reviews
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return TripReviews{
		TripName:      t.Name,
		AverageRating: t.AverageRating,
		TotalReviews:  t.TotalReviews,
		Reviews:       reviews,
	}, nil
}

// GetStatistics computes catalog-wide aggregates directly from the store,
// bypassing the cache.
func (s *Service) GetStatistics(ctx context.Context) (CatalogStats, error) {
	trips, err := s.store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByName})
	if err != nil {
		return CatalogStats{}, err
	}
	return ComputeStats(trips), nil
}

// GetTopRated returns the highest-rated reviewed trips as reduced projections.
// A non-positive limit falls back to the default.
func (s *Service) GetTopRated(ctx context.Context, limit int) ([]domain.TripCard, error) {
	trips, err := s.store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByName})
	if err != nil {
		return nil, err
	}
	return TopRated(trips, limit), nil
}

func (s *Service) findByCode(ctx context.Context, code string) (domain.Trip, error) {
	code = domain.NormalizeCode(code)
	if !domain.IsValidCode(code) {
		return domain.Trip{}, errTripNotFound()
	}
	t, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, tripstore.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}
	return t, nil
}

// saveWithRetry runs a read-modify-write against the trip identified by code,
// retrying on revision conflicts. mutate sees a fresh copy each attempt.
func (s *Service) saveWithRetry(ctx context.Context, code string, mutate func(*domain.Trip) error) error {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		t, err := s.findByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := mutate(&t); err != nil {
			return err
		}
		err = s.store.Save(ctx, t)
		if err == nil {
			return nil
		}
		if errors.Is(err, tripstore.ErrConflict) {
			s.log.DebugContext(ctx, "revision conflict, retrying", "code", t.Code, "attempt", attempt+1)
			continue
		}
		if errors.Is(err, tripstore.ErrNotFound) {
			return errTripNotFound()
		}
		return err
	}
	return &Error{Status: 409, Code: "TRIP_REVISION_CONFLICT", Message: "trip was modified concurrently; retry the request"}
}

// applyPatch copies every specified field from the patch onto t. Explicit
// nulls are rejected: all trip fields are required.
func applyPatch(t *domain.Trip, in UpdateTripInput) error {
	if in.Name.IsSpecified() {
		v, err := in.Name.Get()
		if err != nil {
			return errValidation("name", "cannot be null")
		}
		name := domain.NormalizeHumanName(v)
		if name == "" {
			return errValidation("name", "must be non-empty")
		}
		t.Name = name
	}
	if in.Length.IsSpecified() {
		v, err := in.Length.Get()
		if err != nil {
			return errValidation("length", "cannot be null")
		}
		if v < 1 || v > 365 {
			return errValidation("length", "must be between 1 and 365 days")
		}
		t.Length = v
	}
	if in.Start.IsSpecified() {
		v, err := in.Start.Get()
		if err != nil {
			return errValidation("start", "cannot be null")
		}
		t.Start = v
	}
	if in.Resort.IsSpecified() {
		v, err := in.Resort.Get()
		if err != nil {
			return errValidation("resort", "cannot be null")
		}
		resort := strings.TrimSpace(v)
		if resort == "" {
			return errValidation("resort", "must be non-empty")
		}
		t.Resort = resort
	}
	if in.PerPerson.IsSpecified() {
		v, err := in.PerPerson.Get()
		if err != nil {
			return errValidation("perPerson", "cannot be null")
		}
		if v < 0 {
			return errValidation("perPerson", "cannot be negative")
		}
		t.PerPerson = v
	}
	if in.Image.IsSpecified() {
		v, err := in.Image.Get()
		if err != nil {
			return errValidation("image", "cannot be null")
		}
		image := strings.TrimSpace(v)
		if image == "" {
			return errValidation("image", "must be non-empty")
		}
		t.Image = image
	}
	if in.Description.IsSpecified() {
		v, err := in.Description.Get()
		if err != nil {
			return errValidation("description", "cannot be null")
		}
		desc := strings.TrimSpace(v)
		if len(desc) < 10 {
			return errValidation("description", "must be at least 10 characters")
		}
		t.Description = desc
	}
	return nil
}
