package model

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusPending, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDisplayStatus(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	b := Booking{Status: StatusConfirmed, StartTime: start, EndTime: start.Add(time.Hour)}

	if got := b.DisplayStatus(start.Add(30 * time.Minute)); got != StatusConfirmed {
		t.Fatalf("in-progress confirmed booking reads %s, want CONFIRMED", got)
	}
	if got := b.DisplayStatus(start.Add(2 * time.Hour)); got != StatusCompleted {
		t.Fatalf("past confirmed booking reads %s, want COMPLETED", got)
	}
	// exactly at the end instant the booking is over (half-open range)
	if got := b.DisplayStatus(b.EndTime); got != StatusCompleted {
		t.Fatalf("booking at end instant reads %s, want COMPLETED", got)
	}

	// pending bookings never complete; they stay pending until resolved
	b.Status = StatusPending
	if got := b.DisplayStatus(start.Add(2 * time.Hour)); got != StatusPending {
		t.Fatalf("past pending booking reads %s, want PENDING", got)
	}
	b.Status = StatusCancelled
	if got := b.DisplayStatus(start.Add(2 * time.Hour)); got != StatusCancelled {
		t.Fatalf("cancelled booking reads %s, want CANCELLED", got)
	}
}

func TestTemplateSlotMaterialize(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	slot := TemplateSlot{ID: 1, CourtID: 1, StartTime: "09:00:00", EndTime: "10:00:00"}

	r, err := slot.Materialize(day)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if !r.Start.Equal(day.Add(9 * time.Hour)) {
		t.Fatalf("start = %v, want 09:00", r.Start)
	}
	if !r.End.Equal(day.Add(10 * time.Hour)) {
		t.Fatalf("end = %v, want 10:00", r.End)
	}

	// short "HH:MM" form is accepted too
	slot.StartTime, slot.EndTime = "09:00", "10:30"
	if _, err := slot.Materialize(day); err != nil {
		t.Fatalf("materialize short form: %v", err)
	}

	// inverted slots are rejected
	slot.StartTime, slot.EndTime = "11:00:00", "10:00:00"
	if _, err := slot.Materialize(day); err == nil {
		t.Fatal("expected error for inverted slot")
	}
	slot.StartTime, slot.EndTime = "bogus", "10:00:00"
	if _, err := slot.Materialize(day); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestMaintenanceCovers(t *testing.T) {
	p := MaintenancePeriod{
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	}
	if !p.Covers(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)) {
		t.Fatal("start date must be covered")
	}
	if !p.Covers(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("end date is inclusive")
	}
	if p.Covers(time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day after end must not be covered")
	}
	if p.Covers(time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("day before start must not be covered")
	}
}
