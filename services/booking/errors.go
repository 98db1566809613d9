package booking

import (
	"errors"
	"fmt"
)

var (
	ErrServiceRequired   = errors.New("service is required")
	ErrProviderRequired  = errors.New("maid is required")
	ErrNegativeDuration  = errors.New("duration must not be negative")
	ErrNegativeRate      = errors.New("hourly rate must not be negative")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrDateTimeRequired  = errors.New("date and time are required")
	ErrInvalidDateTime   = errors.New("date must be YYYY-MM-DD and time HH:MM")
	ErrDateOutOfRange    = errors.New("date is outside the booking window")
	ErrUnknownTimeSlot   = errors.New("time is not an offered slot")
	ErrAddressTooShort   = errors.New("address is too short")
	ErrIncompleteBooking = errors.New("booking is incomplete")
	ErrInvalidMethod     = errors.New("unsupported payment method")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrSessionNotFound   = errors.New("booking session not found or expired")
	ErrSessionForbidden  = errors.New("booking session belongs to another user")

	ErrSubmissionInProgress = errors.New("booking is already being submitted")
)

// ValidationError ties a rejected input to the field it came from.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
