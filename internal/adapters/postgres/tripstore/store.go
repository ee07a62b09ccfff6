// Package tripstore provides the Postgres-backed tripstore.Store. Reviews are
// embedded in the trip row as jsonb, matching the domain model where reviews
// have no identity outside their trip. Full-text search runs over a generated
// tsvector column; revision checks make Save safe against concurrent writers.
package tripstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/travlr-labs/travel-catalog-api/internal/adapters/postgres"
	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

const tripColumns = `
	code,
	name,
	length,
	start_date,
	resort,
	per_person,
	image,
	description,
	reviews,
	average_rating,
	total_reviews,
	revision,
	created_at,
	updated_at
`

// Store is a Postgres implementation of tripstore.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Create(ctx context.Context, t domain.Trip) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	reviews, err := marshalReviews(t.Reviews)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO trips (
			code,
			name,
			length,
			start_date,
			resort,
			per_person,
			image,
			description,
			reviews,
			average_rating,
			total_reviews,
			revision,
			created_at,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,1,$12,$13)
	`,
		t.Code,
		t.Name,
		t.Length,
		dateOf(t.Start),
		t.Resort,
		t.PerPerson,
		t.Image,
		t.Description,
		reviews,
		t.AverageRating,
		t.TotalReviews,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return tripstore.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save replaces the trip row iff the caller's revision is still current. A
// zero-row update means either the trip vanished or a concurrent writer
// advanced the revision; the two are distinguished with a follow-up lookup.
func (s *Store) Save(ctx context.Context, t domain.Trip) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	reviews, err := marshalReviews(t.Reviews)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE trips
		SET name = $3,
		    length = $4,
		    start_date = $5,
		    resort = $6,
		    per_person = $7,
		    image = $8,
		    description = $9,
		    reviews = $10,
		    average_rating = $11,
		    total_reviews = $12,
		    revision = revision + 1,
		    updated_at = $13
		WHERE code = $1 AND revision = $2
	`,
		t.Code,
		t.Revision,
		t.Name,
		t.Length,
		dateOf(t.Start),
		t.Resort,
		t.PerPerson,
		t.Image,
		t.Description,
		reviews,
		t.AverageRating,
		t.TotalReviews,
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE code = $1)`, t.Code).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return tripstore.ErrNotFound
		}
		return tripstore.ErrConflict
	}
	return nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (domain.Trip, error) {
	if s.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	row := s.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE code = $1`, code)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, tripstore.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (s *Store) Find(ctx context.Context, q tripstore.Query, sortSpec tripstore.Sort) ([]domain.Trip, error) {
	if s.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.MinPrice != nil {
		where = append(where, "per_person >= "+arg(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		where = append(where, "per_person <= "+arg(*q.MaxPrice))
	}
	if q.MinLength != nil {
		where = append(where, "length >= "+arg(*q.MinLength))
	}
	if q.MaxLength != nil {
		where = append(where, "length <= "+arg(*q.MaxLength))
	}
	if q.Resort != "" {
		where = append(where, "resort ILIKE "+arg("%"+q.Resort+"%"))
	}

	text := strings.TrimSpace(q.Text)
	rankExpr := "0"
	if text != "" {
		ph := arg(text)
		where = append(where, "search @@ plainto_tsquery('simple', "+ph+")")
		rankExpr = "ts_rank(search, plainto_tsquery('simple', " + ph + "))"
	}

	sql := `SELECT ` + tripColumns + `, ` + rankExpr + ` AS rank FROM trips`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY " + orderClause(sortSpec)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Trip, 0)
	for rows.Next() {
		t, err := scanTripWithRank(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func orderClause(s tripstore.Sort) string {
	col := "name"
	switch s.Field {
	case tripstore.SortByName:
		col = "name"
	case tripstore.SortByPrice:
		col = "per_person"
	case tripstore.SortByLength:
		col = "length"
	case tripstore.SortByStart:
		col = "start_date"
	case tripstore.SortByRating:
		col = "average_rating"
	case tripstore.SortByRelevance:
		col = "rank"
	}
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	// Code is unique, so it pins a total order.
	return col + " " + dir + ", code ASC"
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		t       domain.Trip
		start   pgtype.Date
		reviews []byte
	)
	err := row.Scan(
		&t.Code,
		&t.Name,
		&t.Length,
		&start,
		&t.Resort,
		&t.PerPerson,
		&t.Image,
		&t.Description,
		&reviews,
		&t.AverageRating,
		&t.TotalReviews,
		&t.Revision,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return domain.Trip{}, err
	}
	return finishTrip(t, start, reviews)
}

func scanTripWithRank(row pgx.Row) (domain.Trip, error) {
	var (
		t       domain.Trip
		start   pgtype.Date
		reviews []byte
		rank    float64
	)
	err := row.Scan(
		&t.Code,
		&t.Name,
		&t.Length,
		&start,
		&t.Resort,
		&t.PerPerson,
		&t.Image,
		&t.Description,
		&reviews,
		&t.AverageRating,
		&t.TotalReviews,
		&t.Revision,
		&t.CreatedAt,
		&t.UpdatedAt,
		&rank,
	)
	if err != nil {
		return domain.Trip{}, err
	}
	return finishTrip(t, start, reviews)
}

func finishTrip(t domain.Trip, start pgtype.Date, reviews []byte) (domain.Trip, error) {
	if start.Valid {
		d := start.Time
		t.Start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	t.Reviews = []domain.Review{}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &t.Reviews); err != nil {
			return domain.Trip{}, fmt.Errorf("decode reviews for %s: %w", t.Code, err)
		}
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func marshalReviews(reviews []domain.Review) ([]byte, error) {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	b, err := json.Marshal(reviews)
	if err != nil {
		return nil, fmt.Errorf("encode reviews: %w", err)
	}
	return b, nil
}

func dateOf(t time.Time) pgtype.Date {
	var d pgtype.Date
	if t.IsZero() {
		d.Valid = false
		return d
	}
	tt := t.UTC()
	d.Time = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	d.Valid = true
	return d
}
