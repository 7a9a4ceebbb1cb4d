// Package timerange provides the half-open time interval used by all
// scheduling logic.  A Range covers [Start, End): the start instant is
// included, the end instant is not.  Two bookings may therefore touch
// (one ending at 11:00, the next starting at 11:00) without conflicting.
package timerange

import "time"

// Range is a half-open interval [Start, End) over absolute instants.
// Callers are expected to validate ranges with IsValid before using the
// predicates; Overlaps and Contains assume well-formed input.
type Range struct {
	Start time.Time
	End   time.Time
}

// New returns the range [start, end).
func New(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

// IsValid reports whether the range is well formed, i.e. Start strictly
// before End.  Zero-length and inverted ranges are invalid.
func (r Range) IsValid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether r and other share at least one instant.
// With half-open semantics: r.Start < other.End && other.Start < r.End.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the instant t falls inside the range.
// The start is inclusive, the end exclusive.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns End - Start.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// OverlapsAny reports whether r overlaps any range in the given slice.
func (r Range) OverlapsAny(others []Range) bool {
	for _, o := range others {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// Day returns the calendar day containing t as a half-open range
// [midnight, midnight+24h) in t's location.  Bookings intersecting a
// date are those whose range overlaps Day(date).
func Day(t time.Time) Range {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.Add(24 * time.Hour)}
}
