// Package repository defines sentinel errors shared by the data-access
// layer and the reservation service. Handlers match on these values
// with errors.Is to pick a response status, so every failure mode a
// caller can act on has its own sentinel. Anything else that bubbles
// up is a store or driver failure and maps to an internal error.
package repository

import "errors"

// ErrShiftNotFound is returned when a referenced shift does not
// exist. Handlers translate this into an HTTP 404 response.
var ErrShiftNotFound = errors.New("shift not found")

// ErrShiftUnavailable is returned when a reserve or check-in targets
// a shift that is already occupied. Handlers translate this into an
// HTTP 409 response.
var ErrShiftUnavailable = errors.New("shift unavailable")

// ErrReservationNotFound is returned when a referenced reservation
// does not exist. Handlers translate this into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNotOpen is returned when a check-out or cancellation targets a
// reservation that is no longer open. The caller sent a valid id but
// the state transition is not allowed, so handlers translate this
// into an HTTP 400 response.
var ErrNotOpen = errors.New("reservation not open")

// ErrRaceLost is returned when a guarded conditional update affects
// zero rows even though the preceding state check passed: a
// concurrent request changed the row between our read and our write.
// This is not a caller mistake, so handlers translate it into an
// HTTP 500 response and the whole transaction is rolled back.
var ErrRaceLost = errors.New("lost update race")
