package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/travlr-labs/travel-catalog-api/internal/adapters/memory/clock"
	memidem "github.com/travlr-labs/travel-catalog-api/internal/adapters/memory/idempotency"
	memtripstore "github.com/travlr-labs/travel-catalog-api/internal/adapters/memory/tripstore"
	"github.com/travlr-labs/travel-catalog-api/internal/app/catalog"
	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	"github.com/travlr-labs/travel-catalog-api/internal/platform/cache"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	svc := catalog.NewService(
		memtripstore.NewStore(),
		cache.New[[]domain.Trip](cache.DefaultTTL, clk),
		clk,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	srv := NewServer(svc, memidem.NewStore())
	return NewRouter(srv, slog.New(slog.NewTextHandler(io.Discard, nil)), NewDevAuthMiddleware("dev-subject"))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const tripBody = `{
	"code": "ABC123",
	"name": "Aspen Alpine Week",
	"length": 7,
	"start": "2026-02-14",
	"resort": "Aspen",
	"perPerson": 1000,
	"image": "aspen.jpg",
	"description": "Seven days of alpine skiing in Aspen"
}`

func TestPostTrip_ThenGetByCode(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", tripBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ABC123", created.Code)
	assert.Equal(t, "Aspen Alpine Week", created.Name)
	assert.Equal(t, "2026-02-14", created.Start.Format("2006-01-02"))

	rec = doJSON(t, h, http.MethodGet, "/api/trips/ABC123", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trips []domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, "ABC123", trips[0].Code)
}

func TestGetTrips_EmptyCatalog(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/trips", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetTripByCode_NotFoundEnvelope(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/trips/NOPE99", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "TRIP_NOT_FOUND", er.Error.Code)
	assert.NotEmpty(t, er.Error.RequestID)
}

func TestPostTrip_ValidationError(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", `{"code":"ABC123"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "VALIDATION_ERROR", er.Error.Code)
	assert.Contains(t, er.Error.Details, "Name")
}

func TestPostTrip_MalformedJSON(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", `{`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMutatingRoutes_RequireSubject(t *testing.T) {
	t.Parallel()
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	svc := catalog.NewService(
		memtripstore.NewStore(),
		cache.New[[]domain.Trip](cache.DefaultTTL, clk),
		clk,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	// No default subject: the shim demands an explicit X-Debug-Subject.
	h := NewRouter(NewServer(svc, memidem.NewStore()), slog.New(slog.NewTextHandler(io.Discard, nil)), NewDevAuthMiddleware(""))

	rec := doJSON(t, h, http.MethodPost, "/api/trips", tripBody, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Reads stay public.
	rec = doJSON(t, h, http.MethodGet, "/api/trips", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/trips", tripBody, map[string]string{"X-Debug-Subject": "tester"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestPutTrip_PatchAndNullRejection(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", tripBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/trips/ABC123", `{"perPerson": 1250}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 1250.0, updated.PerPerson)
	assert.Equal(t, "Aspen", updated.Resort)

	rec = doJSON(t, h, http.MethodPut, "/api/trips/ABC123", `{"name": null}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSearch_QueryParamHandling(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", tripBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/trips/search?minPrice=500&maxPrice=1500&resort=aspen", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res catalog.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Count)
	require.NotNil(t, res.Filter.MinPrice)
	assert.Equal(t, 500.0, *res.Filter.MinPrice)

	// Unparsable numerics are treated as absent.
	rec = doJSON(t, h, http.MethodGet, "/api/trips/search?minPrice=abc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Count)
	assert.Nil(t, res.Filter.MinPrice)
}

func TestStatsAndTopRatedRoutes(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", tripBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/trips/ABC123/reviews",
		`{"author":"Jamie","rating":5,"comment":"best week of the whole year"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/trips/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats catalog.CatalogStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalTrips)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.Equal(t, 5.0, stats.AverageRating)

	rec = doJSON(t, h, http.MethodGet, "/api/trips/top-rated?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cards []domain.TripCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "ABC123", cards[0].Code)
}

func TestAddReview_IdempotentReplay(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/trips", tripBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	reviewBody := `{"author":"Jamie","rating":5,"comment":"best week of the whole year"}`
	headers := map[string]string{"Idempotency-Key": "key-1"}

	rec = doJSON(t, h, http.MethodPost, "/api/trips/ABC123/reviews", reviewBody, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := rec.Body.String()

	// Retry with the same key and body replays; no second review is appended.
	rec = doJSON(t, h, http.MethodPost, "/api/trips/ABC123/reviews", reviewBody, headers)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, first, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/trips/ABC123/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews catalog.TripReviews
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	assert.Equal(t, 1, reviews.TotalReviews)

	// Same key with a different body is a conflict.
	rec = doJSON(t, h, http.MethodPost, "/api/trips/ABC123/reviews",
		`{"author":"Dana","rating":4,"comment":"a different payload entirely"}`, headers)
	require.Equal(t, http.StatusConflict, rec.Code)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "IDEMPOTENCY_KEY_REUSE", er.Error.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
