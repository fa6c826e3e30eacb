package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the dynamic link service

// ErrLinkNotFound is returned when no record exists for a token
var ErrLinkNotFound = errors.New("link not found")

// ErrLinkExpired is returned by a Link Store asked to count a click on a
// record whose expiry has passed
var ErrLinkExpired = errors.New("link expired")

// ErrDuplicateToken is returned by a Link Store when the token is already taken
var ErrDuplicateToken = errors.New("token already exists")

// ErrTokenSpaceExhausted is returned when no free token was found within the retry budget
var ErrTokenSpaceExhausted = errors.New("failed to generate unique token")

// ErrStoreUnavailable wraps any Link Store failure that is not a domain outcome
var ErrStoreUnavailable = errors.New("link store unavailable")

// ValidationError is returned when a creation payload misses a required field
// or carries an invalid value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreUnavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
