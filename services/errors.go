package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange    = errors.New("invalid_date_range")
	ErrMissingSelection    = errors.New("missing_selection")
	ErrOccupancyOutOfRange = errors.New("occupancy_out_of_range")
	ErrInvalidStatus       = errors.New("invalid_status")

	ErrUnknownCabin = errors.New("cabin_not_found")
	ErrUnknownGuest = errors.New("guest_not_found")

	ErrDraftNotFound  = errors.New("draft_not_found")
	ErrDraftNotReady  = errors.New("draft_not_ready")
	ErrDraftFinished  = errors.New("draft_finished")
	ErrSubmitInFlight = errors.New("submit_in_flight")

	ErrBookingNotFound = errors.New("booking_not_found")
)

// LoadError marks one reference-data source as unavailable. The form keeps
// running with the corresponding control disabled; it is not a fatal failure.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SubmitError is a rejection from the persistence gateway. Reason is shown to
// the user verbatim; the draft is kept so they can retry without re-entering data.
type SubmitError struct {
	Reason string
	Err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit rejected: %s", e.Reason)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// FieldError ties a validation failure to the form field it belongs to.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error { return e.Err }
