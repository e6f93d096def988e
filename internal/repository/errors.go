// Package repository implements durable storage for reservations on top of
// MySQL.  The sentinel values below let the service layer distinguish
// failure scenarios without inspecting driver errors: ErrNoCapacity means a
// bucket's conditional counter update claimed no row, ErrNoChange means a
// status-guarded update matched nothing (the row moved state concurrently),
// and ErrDuplicateCode surfaces a confirmation-code collision so the caller
// can regenerate and retry.
package repository

import "errors"

// ErrReservationNotFound is returned when a lookup references an id or
// confirmation code that does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNoCapacity is returned by CreateWithCapacity when the bucket counter
// is already at its total; the insert is rolled back.
var ErrNoCapacity = errors.New("no remaining capacity")

// ErrNoChange is returned when a guarded status update affects no rows,
// i.e. the reservation was not in the expected state at commit time.
var ErrNoChange = errors.New("no change")

// ErrDuplicateCode is returned when an insert trips the unique constraint
// on the confirmation code.
var ErrDuplicateCode = errors.New("duplicate confirmation code")
