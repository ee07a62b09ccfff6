// Package contracttest defines behavioral contracts every tripstore.Store and
// idempotency.Store implementation must satisfy. The memory and postgres
// adapters run the same suites, so store semantics cannot drift between
// backends.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	idempotencyport "github.com/travlr-labs/travel-catalog-api/internal/ports/out/idempotency"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

type CleanupFunc = func()

type TripStoreFactory func(t *testing.T) (tripstore.Store, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func seedTrip(code, name, resort string, length int, perPerson float64) domain.Trip {
	now := time.Unix(1000, 0).UTC()
	return domain.Trip{
		Code:        code,
		Name:        name,
		Length:      length,
		Start:       time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		Resort:      resort,
		PerPerson:   perPerson,
		Image:       "trip.jpg",
		Description: "A seasonal catalog trip for contract coverage",
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RunTripStore exercises the full Store contract against a fresh store.
func RunTripStore(t *testing.T, newStore TripStoreFactory) {
	t.Helper()

	t.Run("CreateAndFindByCode", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		if err := store.Create(ctx, seedTrip("GALR210214", "Gale Reef", "Emerald Bay", 7, 799)); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := store.FindByCode(ctx, "GALR210214")
		if err != nil {
			t.Fatalf("FindByCode: %v", err)
		}
		if got.Name != "Gale Reef" || got.Resort != "Emerald Bay" || got.PerPerson != 799 {
			t.Fatalf("got=%+v", got)
		}
		if got.Revision == 0 {
			t.Fatalf("expected non-zero revision after create")
		}

		if _, err := store.FindByCode(ctx, "MISSING1"); !errors.Is(err, tripstore.ErrNotFound) {
			t.Fatalf("FindByCode missing: %v", err)
		}
	})

	t.Run("CreateDuplicateCode", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		if err := store.Create(ctx, seedTrip("DAWN210315", "Dawn Ridge", "Aspen", 5, 1200)); err != nil {
			t.Fatalf("Create: %v", err)
		}
		err := store.Create(ctx, seedTrip("DAWN210315", "Dawn Ridge Again", "Aspen", 5, 1200))
		if !errors.Is(err, tripstore.ErrAlreadyExists) {
			t.Fatalf("duplicate create: %v", err)
		}
	})

	t.Run("SaveRevisionSemantics", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		if err := store.Create(ctx, seedTrip("REEF210401", "Reef Explorer", "Key West", 4, 650)); err != nil {
			t.Fatalf("Create: %v", err)
		}

		cur, err := store.FindByCode(ctx, "REEF210401")
		if err != nil {
			t.Fatalf("FindByCode: %v", err)
		}

		cur.Name = "Reef Explorer Deluxe"
		if err := store.Save(ctx, cur); err != nil {
			t.Fatalf("Save: %v", err)
		}

		// Saving the stale copy again must conflict: its revision is behind.
		cur.Name = "Stale Writer"
		if err := store.Save(ctx, cur); !errors.Is(err, tripstore.ErrConflict) {
			t.Fatalf("stale save: %v", err)
		}

		fresh, err := store.FindByCode(ctx, "REEF210401")
		if err != nil {
			t.Fatalf("FindByCode: %v", err)
		}
		if fresh.Name != "Reef Explorer Deluxe" {
			t.Fatalf("lost update: name=%q", fresh.Name)
		}

		missing := seedTrip("GONE99999", "Ghost", "Nowhere", 3, 100)
		if err := store.Save(ctx, missing); !errors.Is(err, tripstore.ErrNotFound) {
			t.Fatalf("save missing: %v", err)
		}
	})

	t.Run("SavePersistsReviewsAndDerivedFields", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		if err := store.Create(ctx, seedTrip("WIND210501", "Wind Valley", "Chamonix", 6, 980)); err != nil {
			t.Fatalf("Create: %v", err)
		}
		cur, err := store.FindByCode(ctx, "WIND210501")
		if err != nil {
			t.Fatalf("FindByCode: %v", err)
		}

		cur.Reviews = append(cur.Reviews, domain.Review{
			ID:        "11111111-1111-1111-1111-111111111111",
			Author:    "Dana",
			Rating:    5,
			Comment:   "Unforgettable week in the valley",
			CreatedAt: time.Unix(2000, 0).UTC(),
		})
		cur.UpdateRatingStats()
		if err := store.Save(ctx, cur); err != nil {
			t.Fatalf("Save: %v", err)
		}

		fresh, err := store.FindByCode(ctx, "WIND210501")
		if err != nil {
			t.Fatalf("FindByCode: %v", err)
		}
		if len(fresh.Reviews) != 1 || fresh.Reviews[0].Author != "Dana" {
			t.Fatalf("reviews=%+v", fresh.Reviews)
		}
		if fresh.AverageRating != 5.0 || fresh.TotalReviews != 1 {
			t.Fatalf("derived=%v/%d", fresh.AverageRating, fresh.TotalReviews)
		}
	})

	t.Run("FindInclusiveBoundsAndFilters", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		mustCreate(t, store, seedTrip("EXACT50000", "Exact Fare", "Aspen", 7, 500))
		mustCreate(t, store, seedTrip("UNDER49999", "Under Fare", "Aspen", 7, 499.99))
		mustCreate(t, store, seedTrip("LONG302000", "Long Haul", "Banff Uplands", 30, 2000))

		f := func(v float64) *float64 { return &v }
		n := func(v int) *int { return &v }

		trips, err := store.Find(ctx, tripstore.Query{MinPrice: f(500), MaxPrice: f(500)}, tripstore.Sort{Field: tripstore.SortByName})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(trips) != 1 || trips[0].Code != "EXACT50000" {
			t.Fatalf("price bounds matched %v", codes(trips))
		}

		trips, err = store.Find(ctx, tripstore.Query{MinLength: n(8), MaxLength: n(30)}, tripstore.Sort{Field: tripstore.SortByName})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(trips) != 1 || trips[0].Code != "LONG302000" {
			t.Fatalf("length bounds matched %v", codes(trips))
		}

		// Case-insensitive substring over resort, combined with a price bound.
		trips, err = store.Find(ctx, tripstore.Query{Resort: "aspen", MaxPrice: f(499.99)}, tripstore.Sort{Field: tripstore.SortByName})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(trips) != 1 || trips[0].Code != "UNDER49999" {
			t.Fatalf("resort+price matched %v", codes(trips))
		}
	})

	t.Run("FindSortOrders", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		mustCreate(t, store, seedTrip("BBB1", "Beta", "North", 10, 300))
		mustCreate(t, store, seedTrip("AAA1", "Alpha", "South", 5, 900))
		mustCreate(t, store, seedTrip("CCC1", "Gamma", "East", 20, 600))

		trips, err := store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByName})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got := codes(trips); got[0] != "AAA1" || got[1] != "BBB1" || got[2] != "CCC1" {
			t.Fatalf("name asc: %v", got)
		}

		trips, err = store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByPrice, Descending: true})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got := codes(trips); got[0] != "AAA1" || got[1] != "CCC1" || got[2] != "BBB1" {
			t.Fatalf("price desc: %v", got)
		}

		trips, err = store.Find(ctx, tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByLength})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got := codes(trips); got[0] != "AAA1" || got[1] != "BBB1" || got[2] != "CCC1" {
			t.Fatalf("length asc: %v", got)
		}
	})

	t.Run("FindTextSearch", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)
		ctx := context.Background()

		reef := seedTrip("REEF1", "Gale Reef", "Emerald Bay", 7, 799)
		reef.Description = "Snorkeling over the reef with reef sharks"
		mustCreate(t, store, reef)

		ridge := seedTrip("RIDGE1", "Dawn Ridge", "Aspen", 5, 1200)
		ridge.Description = "Alpine hiking along the ridge"
		mustCreate(t, store, ridge)

		plains := seedTrip("PLAIN1", "Open Plains", "Serengeti", 9, 1500)
		plains.Description = "Savanna safari drives"
		mustCreate(t, store, plains)

		trips, err := store.Find(ctx, tripstore.Query{Text: "reef"}, tripstore.Sort{Field: tripstore.SortByRelevance, Descending: true})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(trips) != 1 || trips[0].Code != "REEF1" {
			t.Fatalf("text search matched %v", codes(trips))
		}

		trips, err = store.Find(ctx, tripstore.Query{Text: "zzzunmatched"}, tripstore.Sort{Field: tripstore.SortByRelevance, Descending: true})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(trips) != 0 {
			t.Fatalf("unmatched text returned %v", codes(trips))
		}
	})

	t.Run("FindEmptyStore", func(t *testing.T) {
		store, cleanup := open(t, newStore)
		defer done(cleanup)

		trips, err := store.Find(context.Background(), tripstore.Query{}, tripstore.Sort{Field: tripstore.SortByName})
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(trips) != 0 {
			t.Fatalf("expected empty result, got %v", codes(trips))
		}
	})
}

// RunIdempotencyStore exercises the idempotency.Store contract.
func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/trips/{tripCode}/reviews",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// A different body hash is a distinct fingerprint.
	fp2 := fp
	fp2.BodyHash = "other"
	if _, ok, err := store.Get(ctx, fp2); err != nil || ok {
		t.Fatalf("distinct fingerprint collided: ok=%v err=%v", ok, err)
	}
}

func open(t *testing.T, newStore TripStoreFactory) (tripstore.Store, CleanupFunc) {
	t.Helper()
	return newStore(t)
}

func done(cleanup CleanupFunc) {
	if cleanup != nil {
		cleanup()
	}
}

func mustCreate(t *testing.T, store tripstore.Store, trip domain.Trip) {
	t.Helper()
	if err := store.Create(context.Background(), trip); err != nil {
		t.Fatalf("create %s: %v", trip.Code, err)
	}
}

func codes(trips []domain.Trip) []string {
	out := make([]string, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.Code)
	}
	return out
}
