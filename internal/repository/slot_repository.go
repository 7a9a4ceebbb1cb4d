package repository

import (
	"context"
	"database/sql"

	"github.com/matchpoint/court-reservation/internal/model"
)

// SlotRepo manages a court's template slot catalog.  The catalog is the
// day-independent partition of the operating day into bookable ranges.
// It is administrator-defined and treated as immutable during a single
// availability resolution pass.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// ListByCourt returns the court's template slots ordered by start time.
// An empty slice means nothing is bookable on that court.
func (r *SlotRepo) ListByCourt(ctx context.Context, courtID uint64) ([]model.TemplateSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, court_id, start_time, end_time FROM time_slots WHERE court_id = ? ORDER BY start_time",
		courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.TemplateSlot, 0)
	for rows.Next() {
		var s model.TemplateSlot
		if err := rows.Scan(&s.ID, &s.CourtID, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// Create inserts a template slot after verifying the catalog invariant:
// the new wall-clock range must not overlap any existing slot on the
// court.  Returns ErrSlotOverlap when the invariant would be violated.
// The check and insert run in one transaction so concurrent admin edits
// cannot interleave.
func (r *SlotRepo) Create(ctx context.Context, s *model.TemplateSlot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// TIME columns compare lexicographically in HH:MM:SS form, so the
	// half-open overlap predicate works directly in SQL.
	var clash uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM time_slots
		 WHERE court_id = ? AND start_time < ? AND end_time > ?
		 LIMIT 1 FOR UPDATE`,
		s.CourtID, s.EndTime, s.StartTime).Scan(&clash)
	if err == nil {
		return ErrSlotOverlap
	}
	if err != sql.ErrNoRows {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO time_slots (court_id, start_time, end_time) VALUES (?,?,?)",
		s.CourtID, s.StartTime, s.EndTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a template slot from the catalog.  Existing bookings
// are unaffected: bookings are keyed by raw timestamps, not slot IDs.
func (r *SlotRepo) Delete(ctx context.Context, courtID, slotID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM time_slots WHERE id = ? AND court_id = ?", slotID, courtID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}
