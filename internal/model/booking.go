package model

import (
	"time"

	"github.com/matchpoint/court-reservation/internal/timerange"
)

// Booking statuses persisted in the `status` enum column.  COMPLETED is
// never written: it is a read-time label derived from a confirmed
// booking whose end time has passed.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// transitions is the allowed status state machine.  PENDING may be
// confirmed or cancelled, CONFIRMED may only be cancelled, CANCELLED is
// terminal.  COMPLETED has no row representation and therefore no
// transitions.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether a stored booking status may move from
// `from` to `to`.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses are the statuses that occupy a court's time range for
// conflict detection.  PENDING blocks exactly like CONFIRMED does.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// Booking is a concrete, dated reservation of one court by one user.
// The raw (StartTime, EndTime) timestamp pair is authoritative for
// conflict detection; there is no slot-id indirection.  All timestamps
// are UTC.
//
// Fields:
//  ID        – primary key identifier.
//  Reference – opaque UUID handed to clients.
//  UserID    – user who placed the booking.
//  CourtID   – court being reserved.
//  StartTime – inclusive start instant.
//  EndTime   – exclusive end instant.
//  Status    – stored status (PENDING, CONFIRMED, CANCELLED).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	Reference string    `json:"reference"`  // bookings.reference
	UserID    uint64    `json:"user_id"`    // bookings.user_id
	CourtID   uint64    `json:"court_id"`   // bookings.court_id
	StartTime time.Time `json:"start_time"` // bookings.start_time
	EndTime   time.Time `json:"end_time"`   // bookings.end_time
	Status    string    `json:"status"`     // bookings.status
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
	UpdatedAt time.Time `json:"updated_at"` // bookings.updated_at
}

// Range returns the half-open interval the booking occupies.
func (b Booking) Range() timerange.Range {
	return timerange.New(b.StartTime, b.EndTime)
}

// IsActive reports whether the booking blocks its time range.
func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// DisplayStatus returns the status to present to clients at the given
// instant.  A confirmed booking whose end time has passed reads as
// COMPLETED; the stored row is not touched.
func (b Booking) DisplayStatus(now time.Time) string {
	if b.Status == StatusConfirmed && !now.Before(b.EndTime) {
		return StatusCompleted
	}
	return b.Status
}
