package queue

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustEnvelope(t *testing.T, typ string, payload any) Envelope {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return Envelope{Type: typ, Payload: body}
}

func TestRenderBookingEvent(t *testing.T) {
	ev := BookingEvent{
		Reference: "ref-1",
		BookingID: 7,
		UserID:    3,
		UserEmail: "ana@example.com",
		CourtID:   1,
		CourtName: "Centre Court",
		StartsAt:  "2024-06-01T09:00:00Z",
		EndsAt:    "2024-06-01T10:00:00Z",
		Status:    "CONFIRMED",
		At:        "2024-05-30T12:00:00Z",
	}
	lines, err := renderLines(mustEnvelope(t, TypeBookingConfirmed, ev))
	if err != nil {
		t.Fatalf("renderLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("want 1 line, got %d", len(lines))
	}
	for _, want := range []string{"CONFIRMED", "ref-1", "ana@example.com", "Centre Court"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q missing %q", lines[0], want)
		}
	}
}

func TestRenderCourtDeactivatedOneLinePerBooking(t *testing.T) {
	ev := CourtDeactivatedEvent{
		CourtID:   2,
		CourtName: "Court 2",
		At:        "2024-05-30T12:00:00Z",
		Bookings: []AffectedBooking{
			{Reference: "a", UserID: 1, UserEmail: "one@example.com"},
			{Reference: "b", UserID: 2, UserEmail: "two@example.com"},
		},
	}
	lines, err := renderLines(mustEnvelope(t, TypeCourtDeactivated, ev))
	if err != nil {
		t.Fatalf("renderLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "one@example.com") || !strings.Contains(lines[1], "two@example.com") {
		t.Errorf("recipients not rendered per line: %v", lines)
	}
}

func TestRenderUnknownTypeFails(t *testing.T) {
	if _, err := renderLines(Envelope{Type: "booking.exploded", Payload: []byte("{}")}); err == nil {
		t.Fatal("want error for unknown event type")
	}
}
