package tripstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

// Store is an in-memory implementation of tripstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	byCode map[string]domain.Trip
}

func NewStore() *Store {
	return &Store{
		byCode: make(map[string]domain.Trip),
	}
}

func (s *Store) Create(ctx context.Context, t domain.Trip) error {
	_ = ctx
	if t.Code == "" {
		return tripstore.ErrAlreadyExists // treat empty code as invalid for now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[t.Code]; ok {
		return tripstore.ErrAlreadyExists
	}
	t.Revision = 1
	s.byCode[t.Code] = cloneTrip(t)
	return nil
}

func (s *Store) Save(ctx context.Context, t domain.Trip) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byCode[t.Code]
	if !ok {
		return tripstore.ErrNotFound
	}
	if cur.Revision != t.Revision {
		return tripstore.ErrConflict
	}
	t.Revision++
	s.byCode[t.Code] = cloneTrip(t)
	return nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (domain.Trip, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byCode[code]
	if !ok {
		return domain.Trip{}, tripstore.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (s *Store) Find(ctx context.Context, q tripstore.Query, sortSpec tripstore.Sort) ([]domain.Trip, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := textTerms(q.Text)

	type match struct {
		trip      domain.Trip
		relevance int
	}
	out := make([]match, 0, len(s.byCode))
	for _, t := range s.byCode {
		if !matchesScalars(t, q) {
			continue
		}
		rel := 0
		if len(terms) > 0 {
			rel = relevanceScore(t, terms)
			if rel == 0 {
				continue
			}
		}
		out = append(out, match{trip: cloneTrip(t), relevance: rel})
	}

	// Map iteration order is random; pin a deterministic base order by code so
	// the stable sort below yields reproducible results for tied keys.
	sort.Slice(out, func(i, j int) bool { return out[i].trip.Code < out[j].trip.Code })

	less := lessFunc(sortSpec, len(terms) > 0)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i].trip, out[j].trip, out[i].relevance, out[j].relevance) })

	trips := make([]domain.Trip, 0, len(out))
	for _, m := range out {
		trips = append(trips, m.trip)
	}
	return trips, nil
}

func matchesScalars(t domain.Trip, q tripstore.Query) bool {
	if q.MinPrice != nil && t.PerPerson < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && t.PerPerson > *q.MaxPrice {
		return false
	}
	if q.MinLength != nil && t.Length < *q.MinLength {
		return false
	}
	if q.MaxLength != nil && t.Length > *q.MaxLength {
		return false
	}
	if q.Resort != "" && !strings.Contains(strings.ToLower(t.Resort), strings.ToLower(q.Resort)) {
		return false
	}
	return true
}

func textTerms(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// relevanceScore counts term occurrences over name+description, the in-memory
// stand-in for the postgres ts_rank ordering. Any matching term qualifies the
// trip; more occurrences rank higher.
func relevanceScore(t domain.Trip, terms []string) int {
	haystack := strings.ToLower(t.Name + " " + t.Description)
	score := 0
	for _, term := range terms {
		score += strings.Count(haystack, term)
	}
	return score
}

func lessFunc(s tripstore.Sort, hasText bool) func(a, b domain.Trip, relA, relB int) bool {
	field := s.Field
	if field == tripstore.SortByRelevance && !hasText {
		field = tripstore.SortByName
	}

	var less func(a, b domain.Trip, relA, relB int) bool
	switch field {
	case tripstore.SortByPrice:
		less = func(a, b domain.Trip, _, _ int) bool { return a.PerPerson < b.PerPerson }
	case tripstore.SortByLength:
		less = func(a, b domain.Trip, _, _ int) bool { return a.Length < b.Length }
	case tripstore.SortByStart:
		less = func(a, b domain.Trip, _, _ int) bool { return a.Start.Before(b.Start) }
	case tripstore.SortByRating:
		less = func(a, b domain.Trip, _, _ int) bool { return a.AverageRating < b.AverageRating }
	case tripstore.SortByRelevance:
		less = func(_, _ domain.Trip, relA, relB int) bool { return relA < relB }
	default:
		less = func(a, b domain.Trip, _, _ int) bool { return a.Name < b.Name }
	}

	if !s.Descending {
		return less
	}
	return func(a, b domain.Trip, relA, relB int) bool { return less(b, a, relB, relA) }
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	if t.Reviews != nil {
		cp.Reviews = append([]domain.Review(nil), t.Reviews...)
	}
	return cp
}
