package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DuplicateError reports a uniqueness collision on a user field.
// Field is one of "username", "email", "national_id".
//
// It is returned both by the pre-insert existence checks and by the
// storage layer when the unique constraint fires on a concurrent
// registration race.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// IsDuplicate extracts a DuplicateError from err, if present.
func IsDuplicate(err error) (*DuplicateError, bool) {
	var de *DuplicateError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
