// Package queue defines message payloads exchanged over the message broker.
// All notification traffic travels over a single durable queue; the
// Envelope.Type field tells the consumer which payload to decode.
package queue

// NotificationQueueName is the durable queue carrying all notification events.
const NotificationQueueName = "notification.events"

// Event types carried in Envelope.Type.
const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeCourtDeactivated = "court.deactivated"
)

// Envelope wraps every message on the notification queue.
type Envelope struct {
	Type    string `json:"type"`
	Payload []byte `json:"payload"`
}

// BookingEvent is published when a booking is confirmed or cancelled.
// It carries enough information for downstream consumers to notify the
// member without querying the primary database.
type BookingEvent struct {
	Reference string `json:"reference"`
	BookingID uint64 `json:"booking_id"`
	UserID    uint64 `json:"user_id"`
	UserEmail string `json:"user_email"`
	CourtID   uint64 `json:"court_id"`
	CourtName string `json:"court_name"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Status    string `json:"status"`
	At        string `json:"at"`
}

// AffectedBooking is one future reservation voided by a deactivation.
type AffectedBooking struct {
	Reference string `json:"reference"`
	UserID    uint64 `json:"user_id"`
	UserEmail string `json:"user_email"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
}

// CourtDeactivatedEvent is published when an administrator deactivates
// a court that still has future PENDING or CONFIRMED bookings.  Every
// affected member is listed so the notification worker can reach them.
type CourtDeactivatedEvent struct {
	CourtID   uint64            `json:"court_id"`
	CourtName string            `json:"court_name"`
	At        string            `json:"at"`
	Bookings  []AffectedBooking `json:"bookings"`
}
