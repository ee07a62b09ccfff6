// Package httpapi is the HTTP adapter: it decodes requests, delegates to the
// catalog service, and encodes responses. All persistence and business rules
// live behind the service; handlers stay thin.
package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/travlr-labs/travel-catalog-api/internal/app/catalog"
	"github.com/travlr-labs/travel-catalog-api/internal/domain"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/idempotency"
)

type Server struct {
	Catalog *catalog.Service
	Idem    idempotency.Store

	validate *validator.Validate
}

func NewServer(catalogSvc *catalog.Service, idem idempotency.Store) *Server {
	return &Server{
		Catalog:  catalogSvc,
		Idem:     idem,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Server) handleGetAllTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.Catalog.GetAllTrips(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleGetTripByCode(w http.ResponseWriter, r *http.Request) {
	trips, err := s.Catalog.GetTripByCode(r.Context(), chi.URLParam(r, "tripCode"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleAddTrip(w http.ResponseWriter, r *http.Request) {
	var req AddTripRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	trip, err := s.Catalog.AddTrip(r.Context(), req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	var req UpdateTripRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	trip, err := s.Catalog.UpdateTrip(r.Context(), chi.URLParam(r, "tripCode"), req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleSearchTrips(w http.ResponseWriter, r *http.Request) {
	res, err := s.Catalog.SearchTrips(r.Context(), filterFromQuery(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetSimilarTrips(w http.ResponseWriter, r *http.Request) {
	res, err := s.Catalog.GetSimilarTrips(r.Context(), chi.URLParam(r, "tripCode"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Catalog.GetStatistics(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetTopRated(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	cards, err := s.Catalog.GetTopRated(r.Context(), limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	res, err := s.Catalog.GetReviews(r.Context(), chi.URLParam(r, "tripCode"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleAddReview appends a review. When the client supplies an
// Idempotency-Key, a retried request with the same key and body replays the
// stored response instead of appending a second review; the same key with a
// different body is rejected.
func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "unreadable request body", nil)
		return
	}

	var req ReviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}
	if !s.checkValid(w, r, req) {
		return
	}

	tripCode := chi.URLParam(r, "tripCode")
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	var metaFP, respFP idempotency.Fingerprint
	if idemKey != "" && s.Idem != nil {
		sub, _ := SubjectFromContext(r.Context())
		sum := sha256.Sum256(body)
		bodyHash := hex.EncodeToString(sum[:])

		metaFP = idempotency.Fingerprint{
			Key:     idempotency.Key(idemKey),
			Subject: domain.SubjectID(sub),
			Method:  http.MethodPost,
			Route:   "/trips/{tripCode}/reviews",
		}
		if meta, ok, err := s.Idem.Get(r.Context(), metaFP); err == nil && ok {
			if string(meta.Body) != bodyHash {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
				return
			}
		} else if err == nil {
			_ = s.Idem.Put(r.Context(), metaFP, idempotency.Record{
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			})
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(r.Context(), respFP); err == nil && ok && rec.StatusCode == http.StatusCreated {
			w.Header().Set("Content-Type", rec.ContentType)
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	res, err := s.Catalog.AddReview(r.Context(), tripCode, req.toInput())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	if respFP.BodyHash != "" && s.Idem != nil {
		if b, err := json.Marshal(res); err == nil {
			_ = s.Idem.Put(r.Context(), respFP, idempotency.Record{
				StatusCode:  http.StatusCreated,
				ContentType: "application/json",
				Body:        b,
				CreatedAt:   time.Now().UTC(),
			})
		}
	}

	writeJSON(w, http.StatusCreated, res)
}

func filterFromQuery(r *http.Request) catalog.SearchFilter {
	q := r.URL.Query()
	f := catalog.SearchFilter{
		Query:     q.Get("query"),
		Resort:    q.Get("resort"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	// Unparsable numeric parameters are treated as absent, not as errors.
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.Atoi(q.Get("minLength")); err == nil {
		f.MinLength = &v
	}
	if v, err := strconv.Atoi(q.Get("maxLength")); err == nil {
		f.MaxLength = &v
	}
	return f
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return false
	}
	return s.checkValid(w, r, dst)
}

func (s *Server) checkValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := s.validate.Struct(v); err != nil {
		details := map[string]any{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = "failed " + fe.Tag() + " validation"
			}
		}
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body", details)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
