package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error leaving the ledger boundary wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorised = errors.New("unauthorised")
	ErrTransient    = errors.New("temporarily unavailable")
)

var (
	// Validation errors
	ErrInvalidAccreditationID = fmt.Errorf("%w: accreditation id is required", ErrValidation)
	ErrInvalidOrganisationID  = fmt.Errorf("%w: organisation id is required", ErrValidation)
	ErrInvalidRegistrationID  = fmt.Errorf("%w: registration id is required", ErrValidation)
	ErrInvalidTonnage         = fmt.Errorf("%w: tonnage must be positive", ErrValidation)
	ErrInvalidNoteID          = fmt.Errorf("%w: note id is required", ErrValidation)
	ErrInvalidRecordKey       = fmt.Errorf("%w: record type and row id are required", ErrValidation)
	ErrInvalidSourceID        = fmt.Errorf("%w: version source id is required", ErrValidation)
	ErrUnknownStatus          = fmt.Errorf("%w: unknown note status", ErrValidation)

	// Not found errors
	ErrAccreditationNotFound = fmt.Errorf("%w: accreditation", ErrNotFound)
	ErrBalanceNotFound       = fmt.Errorf("%w: waste balance", ErrNotFound)
	ErrNoteNotFound          = fmt.Errorf("%w: note", ErrNotFound)
	ErrSummaryLogNotFound    = fmt.Errorf("%w: summary log", ErrNotFound)

	// Conflict errors
	ErrStatusConflict               = fmt.Errorf("%w: invalid status transition", ErrConflict)
	ErrInsufficientAvailableBalance = fmt.Errorf("%w: insufficient available balance", ErrConflict)
	ErrInsufficientTotalBalance     = fmt.Errorf("%w: insufficient total balance", ErrConflict)
	ErrVersionConflict              = fmt.Errorf("%w: concurrent modification", ErrConflict)
	ErrPrnNumberTaken               = fmt.Errorf("%w: prn number already in use", ErrConflict)
	ErrSummaryLogStatus             = fmt.Errorf("%w: summary log is not in a processable status", ErrConflict)

	// Authorisation errors
	ErrUnauthorisedTransition = fmt.Errorf("%w: actor may not perform this transition", ErrUnauthorised)
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrValidation, "validation"},
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrUnauthorised, "unauthorised"},
	{ErrTransient, "transient"},
}

// KindOf returns the kind label of err, or "internal" for unclassified errors.
func KindOf(err error) string {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}

	return "internal"
}

// SafeMessage returns a message that may be shown outside the service.
// Unclassified and transient errors never expose their detail.
func SafeMessage(err error) string {
	switch KindOf(err) {
	case "":
		return ""
	case "internal":
		return "internal error"
	case "transient":
		return ErrTransient.Error()
	default:
		return err.Error()
	}
}

// Transient wraps an infrastructure failure so callers may retry it.
func Transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// PermanentError marks a command failure that must not be redelivered.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err as a PermanentError.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
