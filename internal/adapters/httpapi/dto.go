package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travlr-labs/travel-catalog-api/internal/app/catalog"
)

// AddTripRequest is the POST /api/trips body.
type AddTripRequest struct {
	Code        string             `json:"code" validate:"required"`
	Name        string             `json:"name" validate:"required"`
	Length      int                `json:"length" validate:"required,min=1,max=365"`
	Start       openapi_types.Date `json:"start" validate:"required"`
	Resort      string             `json:"resort" validate:"required"`
	PerPerson   float64            `json:"perPerson" validate:"gte=0"`
	Image       string             `json:"image" validate:"required"`
	Description string             `json:"description" validate:"required,min=10"`
}

func (r AddTripRequest) toInput() catalog.AddTripInput {
	return catalog.AddTripInput{
		Code:        r.Code,
		Name:        r.Name,
		Length:      r.Length,
		Start:       r.Start.Time,
		Resort:      r.Resort,
		PerPerson:   r.PerPerson,
		Image:       r.Image,
		Description: r.Description,
	}
}

// UpdateTripRequest is the PUT /api/trips/{tripCode} body. Fields left out of
// the JSON are left unchanged; explicit nulls are rejected downstream.
type UpdateTripRequest struct {
	Name        nullable.Nullable[string]             `json:"name"`
	Length      nullable.Nullable[int]                `json:"length"`
	Start       nullable.Nullable[openapi_types.Date] `json:"start"`
	Resort      nullable.Nullable[string]             `json:"resort"`
	PerPerson   nullable.Nullable[float64]            `json:"perPerson"`
	Image       nullable.Nullable[string]             `json:"image"`
	Description nullable.Nullable[string]             `json:"description"`
}

func (r UpdateTripRequest) toInput() catalog.UpdateTripInput {
	in := catalog.UpdateTripInput{
		Name:        r.Name,
		Length:      r.Length,
		Resort:      r.Resort,
		PerPerson:   r.PerPerson,
		Image:       r.Image,
		Description: r.Description,
	}
	// Dates cross the wire as YYYY-MM-DD; the tri-state wrapper carries over.
	if r.Start.IsSpecified() {
		if d, err := r.Start.Get(); err == nil {
			in.Start = nullable.NewNullableWithValue(d.Time)
		} else {
			in.Start = nullable.NewNullNullable[time.Time]()
		}
	}
	return in
}

// ReviewRequest is the POST /api/trips/{tripCode}/reviews body.
type ReviewRequest struct {
	Author  string `json:"author" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=10,max=1000"`
}

func (r ReviewRequest) toInput() catalog.ReviewInput {
	return catalog.ReviewInput{Author: r.Author, Rating: r.Rating, Comment: r.Comment}
}
