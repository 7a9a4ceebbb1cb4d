// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the availability resolver to distinguish between
// different failure scenarios without string matching. For example,
// ErrConflict signals that a booking lost the race for a time range,
// while ErrInvalidTransition signals an illegal status change.
package repository

import "errors"

// ErrConflict is returned by the booking ledger when the requested
// time range overlaps an existing PENDING or CONFIRMED booking on the
// same court. It is the race-losing outcome of the atomic
// check-then-insert and should surface as HTTP 409 so clients refresh
// availability rather than treat it as user error.
var ErrConflict = errors.New("booking conflict")

// ErrCourtNotFound is returned when the referenced court does not exist.
var ErrCourtNotFound = errors.New("court not found")

// ErrBookingNotFound is returned when the referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotNotFound is returned when the referenced template slot does not exist.
var ErrSlotNotFound = errors.New("time slot not found")

// ErrInvalidTransition is returned by UpdateStatus when the requested
// status change is not allowed by the booking state machine
// (e.g. CANCELLED -> CONFIRMED). The stored row is left untouched.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrSlotOverlap is returned when creating a template slot whose
// wall-clock range overlaps an existing slot on the same court. The
// catalog must remain a partition of the operating day.
var ErrSlotOverlap = errors.New("slot overlaps existing slot")
