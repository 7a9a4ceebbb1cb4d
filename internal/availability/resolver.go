// Package availability implements the court availability resolver: the
// single place where the slot catalog, maintenance registry and booking
// ledger are composed to decide which slots are free and whether a
// booking request may commit.  Collaborators are injected as narrow
// interfaces so the resolver can be tested deterministically without a
// live database.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/timerange"
)

// CourtStore supplies court records; only the is_active flag and
// existence matter to resolution.
type CourtStore interface {
	GetByID(ctx context.Context, id uint64) (model.Court, error)
}

// SlotCatalog supplies a court's day-independent template slots,
// ordered by start time.  The catalog is treated as immutable for the
// duration of one resolution pass.
type SlotCatalog interface {
	ListByCourt(ctx context.Context, courtID uint64) ([]model.TemplateSlot, error)
}

// MaintenanceRegistry answers whether a court is blocked on a date.
type MaintenanceRegistry interface {
	IsUnderMaintenance(ctx context.Context, courtID uint64, date time.Time) (bool, error)
}

// BookingLedger is the authoritative reservation store.  CreateIfFree
// must provide at-most-one-winner semantics for overlapping ranges on
// the same court; the resolver relies on it as the final arbiter and
// never assumes its own read was still current at commit time.
type BookingLedger interface {
	ListForCourtOnDate(ctx context.Context, courtID uint64, date time.Time) ([]model.Booking, error)
	CreateIfFree(ctx context.Context, userID, courtID uint64, start, end time.Time) (model.Booking, error)
}

// Resolver composes the collaborators.  It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	courts      CourtStore
	catalog     SlotCatalog
	maintenance MaintenanceRegistry
	ledger      BookingLedger
}

// NewResolver constructs a Resolver.  All dependencies must be non-nil.
func NewResolver(courts CourtStore, catalog SlotCatalog, maintenance MaintenanceRegistry, ledger BookingLedger) *Resolver {
	if courts == nil || catalog == nil || maintenance == nil || ledger == nil {
		panic("nil collaborator passed to NewResolver")
	}
	return &Resolver{courts: courts, catalog: catalog, maintenance: maintenance, ledger: ledger}
}

// unavailable tags a collaborator failure so callers can tell a storage
// outage apart from a genuinely booked-out court.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// AvailableSlots returns the template slots of the court that are free
// on the given date, preserving catalog order.  A deactivated court or
// a date under maintenance yields an empty slice.  The result is a
// lock-free snapshot: a slot reported free here may still lose the race
// at booking time.
func (r *Resolver) AvailableSlots(ctx context.Context, courtID uint64, date time.Time) ([]model.TemplateSlot, error) {
	court, err := r.courts.GetByID(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !court.IsActive {
		return []model.TemplateSlot{}, nil
	}

	blocked, err := r.maintenance.IsUnderMaintenance(ctx, courtID, date)
	if err != nil {
		return nil, unavailable("maintenance check", err)
	}
	if blocked {
		return []model.TemplateSlot{}, nil
	}

	slots, err := r.catalog.ListByCourt(ctx, courtID)
	if err != nil {
		return nil, unavailable("slot catalog", err)
	}
	existing, err := r.ledger.ListForCourtOnDate(ctx, courtID, date)
	if err != nil {
		return nil, unavailable("booking ledger", err)
	}
	busy := make([]timerange.Range, 0, len(existing))
	for _, b := range existing {
		busy = append(busy, b.Range())
	}

	free := make([]model.TemplateSlot, 0, len(slots))
	for _, s := range slots {
		rg, err := s.Materialize(date)
		if err != nil {
			// A malformed catalog entry is a data fault, not "booked".
			return nil, unavailable("slot catalog", err)
		}
		if !rg.OverlapsAny(busy) {
			free = append(free, s)
		}
	}
	return free, nil
}

// CreateBooking validates a booking request and, if it passes, commits
// it through the ledger's atomic check-then-insert.  This is the only
// sanctioned write entry point: user-facing flows must never call the
// ledger directly, or they would skip the activation and maintenance
// precedence checks.
//
// Possible failures: ErrInvalidRange, ErrCourtInactive,
// ErrUnderMaintenance, the ledger's conflict error (the race-losing
// case) and ErrUnavailable for collaborator outages.
func (r *Resolver) CreateBooking(ctx context.Context, userID, courtID uint64, start, end time.Time) (model.Booking, error) {
	rg := timerange.New(start, end)
	if !rg.IsValid() {
		return model.Booking{}, ErrInvalidRange
	}

	court, err := r.courts.GetByID(ctx, courtID)
	if err != nil {
		return model.Booking{}, err
	}
	if !court.IsActive {
		return model.Booking{}, ErrCourtInactive
	}

	// Maintenance precedence covers every calendar day the range
	// touches, so a booking running past midnight into a blocked day is
	// rejected too.
	for day := timerange.Day(start).Start; day.Before(end); day = day.Add(24 * time.Hour) {
		blocked, err := r.maintenance.IsUnderMaintenance(ctx, courtID, day)
		if err != nil {
			return model.Booking{}, unavailable("maintenance check", err)
		}
		if blocked {
			return model.Booking{}, ErrUnderMaintenance
		}
	}

	// The ledger re-checks overlap under its own lock at commit time,
	// closing the window between the client's availability read and
	// this write.  Conflict errors pass through untranslated.
	return r.ledger.CreateIfFree(ctx, userID, courtID, start, end)
}
