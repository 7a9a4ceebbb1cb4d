package model

import "time"

// MaintenancePeriod blocks all booking on a court for an inclusive
// calendar-date range.  Overlapping periods are treated as a union.
// Periods never auto-expire; callers compare against the date they are
// resolving.
//
// Fields:
//  ID        – primary key identifier.
//  CourtID   – court under maintenance.
//  StartDate – first blocked date (inclusive).
//  EndDate   – last blocked date (inclusive).
//  Comment   – optional admin note (reason).
//  CreatedAt – creation timestamp.
type MaintenancePeriod struct {
	ID        uint64    `json:"id"`         // court_maintenance.id
	CourtID   uint64    `json:"court_id"`   // court_maintenance.court_id
	StartDate time.Time `json:"start_date"` // court_maintenance.start_date
	EndDate   time.Time `json:"end_date"`   // court_maintenance.end_date
	Comment   *string   `json:"comment"`    // court_maintenance.comment (nullable)
	CreatedAt time.Time `json:"created_at"` // court_maintenance.created_at
}

// Covers reports whether the given calendar date falls inside the
// period.  Only the date components are compared.
func (m MaintenancePeriod) Covers(date time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(m.StartDate.Year(), m.StartDate.Month(), m.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(m.EndDate.Year(), m.EndDate.Month(), m.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(end)
}
