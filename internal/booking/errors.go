package booking

import "errors"

// Caller-facing error kinds.  All of them are recoverable: the service
// returns a typed failure instead of crashing on bad input.  Handlers
// translate each kind into an HTTP status and a wire string via Kind; the
// core never formats user-facing text.
var (
	// ErrInvalidSlot means the requested date, time or table type does not
	// exist in the catalog, or the date is in the past.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrCapacityExceeded means the (date, time, table type) bucket had no
	// remaining capacity at commit time.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrNotFound means the operation references an unknown reservation.
	ErrNotFound = errors.New("reservation not found")

	// ErrInvalidTransition means the reservation's current state does not
	// permit the attempted operation.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrValidationFailed means the request payload is structurally bad:
	// missing contact fields or a party size out of range.
	ErrValidationFailed = errors.New("validation failed")

	// ErrStorageUnavailable wraps persistence failures.  It is the only
	// kind for which retrying the whole operation is appropriate.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Kind maps an error to its wire identifier, or "internal_error" when the
// error is none of the published kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSlot):
		return "invalid_slot"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	}
	return "internal_error"
}
