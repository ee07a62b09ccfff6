package idempotency

import (
	"context"
	"time"

	"github.com/travlr-labs/travel-catalog-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
//
// Review submission is the motivating case: a client that retries
// POST /trips/{tripCode}/reviews after a timeout must not append the review a
// second time.
type Key string

// Fingerprint identifies a request for replay purposes:
// key + subject + route + request body hash. Route is the HTTP method plus the
// normalized path template (e.g. "POST /trips/{tripCode}/reviews").
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response replayed for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying responses on retried
// writes.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
