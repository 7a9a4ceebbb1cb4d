package availability

import "errors"

// ErrCourtInactive is returned when a booking targets a globally
// deactivated court.  Deactivation is absolute and precedes all other
// checks.
var ErrCourtInactive = errors.New("court is deactivated")

// ErrUnderMaintenance is returned when a booking targets a date inside
// one of the court's maintenance windows.
var ErrUnderMaintenance = errors.New("court is under maintenance")

// ErrUnavailable wraps collaborator failures (storage outage, broken
// slot data).  It is deliberately distinct from "no slots free": a
// storage outage must never be reported as a fully booked court, since
// the two have different remediation.
var ErrUnavailable = errors.New("availability service unavailable")

// ErrInvalidRange is returned when a booking request carries a
// zero-length or inverted time range.  Such ranges are rejected before
// any overlap predicate runs.
var ErrInvalidRange = errors.New("invalid booking range")
