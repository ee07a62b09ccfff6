package tripstore

import "errors"

var (
	ErrNotFound      = errors.New("trip not found")
	ErrAlreadyExists = errors.New("trip already exists")

	// ErrConflict signals a revision mismatch on Save: the trip changed
	// between the caller's read and write.
	ErrConflict = errors.New("trip revision conflict")
)
