package services

import (
	"errors"
	"fmt"
)

var (
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrJournalNotFound   = errors.New("journal entry not found")
	ErrDiscoveryNotFound = errors.New("discovery not found")

	// ErrItineraryCompleted rejects mutations of a completed itinerary:
	// completion is terminal, and the journal entries fanned out from it
	// keep referencing its items.
	ErrItineraryCompleted = errors.New("itinerary is completed and cannot be deleted")

	// ErrRateLimited is returned by the annotation client once its retry
	// budget for HTTP 429 responses is exhausted.
	ErrRateLimited = errors.New("annotation service rate limited, try again later")
)

// ValidationError rejects bad input before any store write happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PartialWriteError reports a failed write whose compensating rollback also
// failed, so both sides need surfacing: the store may hold an orphaned row.
type PartialWriteError struct {
	Err         error // the original write failure
	RollbackErr error // the failed compensating delete
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%v (compensating delete also failed: %v)", e.Err, e.RollbackErr)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
