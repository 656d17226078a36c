package usecase

import "errors"

var (
	// ErrValidation marks bad input that is non-retryable without change.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is returned for operations that are not legal in the
	// booking's current lifecycle state, e.g. cancelling a completed booking.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrForbidden is returned when a caller touches a booking they do not own.
	ErrForbidden = errors.New("not allowed")
)
