package timerange

import (
	"testing"
	"time"
)

func mustRange(t *testing.T, startHour, endHour int) Range {
	t.Helper()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return New(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Range
		want bool
	}{
		{"identical", mustRange(t, 9, 10), mustRange(t, 9, 10), true},
		{"contained", mustRange(t, 9, 12), mustRange(t, 10, 11), true},
		{"partial left", mustRange(t, 9, 11), mustRange(t, 10, 12), true},
		{"partial right", mustRange(t, 10, 12), mustRange(t, 9, 11), true},
		{"disjoint", mustRange(t, 9, 10), mustRange(t, 11, 12), false},
		{"adjacent half-open", mustRange(t, 9, 10), mustRange(t, 10, 11), false},
		{"adjacent reversed", mustRange(t, 10, 11), mustRange(t, 9, 10), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// overlap is symmetric
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !mustRange(t, 9, 10).IsValid() {
		t.Fatal("expected 09:00-10:00 to be valid")
	}
	zero := mustRange(t, 9, 9)
	if zero.IsValid() {
		t.Fatal("zero-length range must be invalid")
	}
	inverted := Range{Start: zero.Start.Add(time.Hour), End: zero.Start}
	if inverted.IsValid() {
		t.Fatal("inverted range must be invalid")
	}
}

func TestContains(t *testing.T) {
	r := mustRange(t, 9, 10)
	if !r.Contains(r.Start) {
		t.Fatal("start must be included")
	}
	if r.Contains(r.End) {
		t.Fatal("end must be excluded")
	}
	if !r.Contains(r.Start.Add(30 * time.Minute)) {
		t.Fatal("midpoint must be included")
	}
}

func TestOverlapsAny(t *testing.T) {
	busy := []Range{mustRange(t, 9, 10), mustRange(t, 12, 13)}
	if !mustRange(t, 9, 10).OverlapsAny(busy) {
		t.Fatal("expected overlap with first busy range")
	}
	if mustRange(t, 10, 11).OverlapsAny(busy) {
		t.Fatal("10:00-11:00 touches but must not overlap")
	}
	if mustRange(t, 10, 11).OverlapsAny(nil) {
		t.Fatal("empty busy list can never overlap")
	}
}

func TestDay(t *testing.T) {
	d := Day(time.Date(2024, 6, 1, 14, 35, 0, 0, time.UTC))
	wantStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !d.Start.Equal(wantStart) {
		t.Fatalf("day start = %v, want %v", d.Start, wantStart)
	}
	if !d.End.Equal(wantStart.Add(24 * time.Hour)) {
		t.Fatalf("day end = %v, want next midnight", d.End)
	}
	// a booking ending exactly at midnight belongs to the previous day only
	late := New(wantStart.Add(23*time.Hour), wantStart.Add(24*time.Hour))
	if !late.Overlaps(d) {
		t.Fatal("23:00-24:00 must intersect its own day")
	}
	next := Day(wantStart.Add(24 * time.Hour))
	if late.Overlaps(next) {
		t.Fatal("23:00-24:00 must not leak into the next day")
	}
}
