package reservation

import (
	"errors"
	"fmt"
)

// Validation failures. They are detected before the store is contacted
// and never change the session.
var (
	ErrEmptyName      = &ValidationError{msg: "name is empty"}
	ErrNoSeatSelected = &ValidationError{msg: "no seat selected"}
)

// Seat selection rejections. The selection is left as it was.
var (
	ErrSeatOutOfRange   = errors.New("seat is not at this table")
	ErrSeatOccupied     = errors.New("seat is already occupied")
	ErrOccupancyUnknown = errors.New("occupancy has not been loaded")
)

// ValidationError is returned by Submit when the input is rejected locally.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps a failed insert. Its Message method returns the store's
// own text so it can be shown to the guest unchanged.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store insert: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Message is the raw store message.
func (e *StoreError) Message() string { return e.Err.Error() }

// FetchError wraps a failed occupancy load.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("load occupancy: %v", e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }
