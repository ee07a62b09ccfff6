package domain

import (
	"math"
	"time"
)

// Trip is the catalog aggregate. Reviews are embedded documents owned by their
// parent trip: they are created by appending to Reviews and have no independent
// lifecycle.
type Trip struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Length      int       `json:"length"`
	Start       time.Time `json:"start"`
	Resort      string    `json:"resort"`
	PerPerson   float64   `json:"perPerson"`
	Image       string    `json:"image"`
	Description string    `json:"description"`

	Reviews []Review `json:"reviews"`

	// AverageRating and TotalReviews are derived from Reviews and are only
	// written by UpdateRatingStats, never by callers.
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`

	// Revision is the optimistic-concurrency counter checked by Store.Save.
	Revision int64 `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Review is an embedded trip review. ID is a storage identity only; reviews are
// never addressed, updated, or deleted independently of their trip.
type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// TripCard is the reduced projection returned by top-rated and similarity
// rankings.
type TripCard struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Resort        string  `json:"resort"`
	PerPerson     float64 `json:"perPerson"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	Image         string  `json:"image"`
}

// Card projects the trip onto its reduced listing shape.
func (t Trip) Card() TripCard {
	return TripCard{
		Code:          t.Code,
		Name:          t.Name,
		Resort:        t.Resort,
		PerPerson:     t.PerPerson,
		AverageRating: t.AverageRating,
		TotalReviews:  t.TotalReviews,
		Image:         t.Image,
	}
}

// UpdateRatingStats recomputes the derived rating fields from Reviews.
// Write paths call it immediately before persisting a trip whose review list
// changed, so a persisted trip never disagrees with its reviews.
// It is idempotent.
func (t *Trip) UpdateRatingStats() {
	if len(t.Reviews) == 0 {
		t.AverageRating = 0
		t.TotalReviews = 0
		return
	}
	sum := 0
	for _, r := range t.Reviews {
		sum += r.Rating
	}
	t.AverageRating = Round1(float64(sum) / float64(len(t.Reviews)))
	t.TotalReviews = len(t.Reviews)
}

// Round1 rounds to one decimal place, the precision stored for averageRating
// and reported by the statistics averages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
