package model

import (
	"fmt"
	"time"

	"github.com/matchpoint/court-reservation/internal/timerange"
)

// TemplateSlot is one entry in a court's day-independent slot catalog.
// Start and end are wall-clock times ("HH:MM:SS", as MySQL TIME columns
// scan); the same template applies every day.  Slots for a court must
// satisfy start < end and must not overlap each other.
//
// Fields:
//  ID        – primary key identifier.
//  CourtID   – court this slot belongs to.
//  StartTime – wall-clock start, e.g. "09:00:00".
//  EndTime   – wall-clock end, e.g. "10:00:00".
type TemplateSlot struct {
	ID        uint64 `json:"id"`         // time_slots.id
	CourtID   uint64 `json:"court_id"`   // time_slots.court_id
	StartTime string `json:"start_time"` // time_slots.start_time
	EndTime   string `json:"end_time"`   // time_slots.end_time
}

// clockLayouts are accepted wall-clock formats.  MySQL TIME columns scan
// as "15:04:05"; API clients may send "15:04".
var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock parses a wall-clock string into hours and minutes.
func ParseClock(s string) (time.Duration, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid wall-clock time %q", s)
}

// Materialize combines the slot's wall-clock pair with a calendar day and
// returns the concrete range the slot occupies on that day.  The day's
// location is preserved.
func (s TemplateSlot) Materialize(day time.Time) (timerange.Range, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return timerange.Range{}, err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return timerange.Range{}, err
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	r := timerange.New(midnight.Add(start), midnight.Add(end))
	if !r.IsValid() {
		return timerange.Range{}, fmt.Errorf("slot %d has start >= end", s.ID)
	}
	return r, nil
}
