package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires routes and middleware around the server. Catalog reads are
// public; mutating routes pass through authMW.
func NewRouter(s *Server, log *slog.Logger, authMW func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewSlogLogger(log))
	r.Use(middleware.Recoverer)

	// Health endpoint for infra checks; unauthenticated and unlogged payload.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/trips", func(r chi.Router) {
		r.Get("/", s.handleGetAllTrips)
		r.Get("/search", s.handleSearchTrips)
		r.Get("/stats", s.handleGetStatistics)
		r.Get("/top-rated", s.handleGetTopRated)
		r.Get("/{tripCode}", s.handleGetTripByCode)
		r.Get("/{tripCode}/similar", s.handleGetSimilarTrips)
		r.Get("/{tripCode}/reviews", s.handleGetReviews)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", s.handleAddTrip)
			r.Put("/{tripCode}", s.handleUpdateTrip)
			r.Post("/{tripCode}/reviews", s.handleAddReview)
		})
	})

	return r
}
