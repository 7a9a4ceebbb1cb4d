package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/timerange"
)

// BookingRepo is the authoritative ledger of reservations per court.
// Conflict detection happens here: CreateIfFree is the single
// serialization point for concurrent booking attempts, implemented as a
// transactional check-then-insert under row locking so the guarantee
// holds across multiple server instances sharing one database.  All
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for cross-repository transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = "id, reference, user_id, court_id, start_time, end_time, status, created_at, updated_at"

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.CourtID,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateIfFree atomically inserts a booking if no PENDING or CONFIRMED
// booking on the same court overlaps [start, end).  The overlap
// re-check runs with FOR UPDATE inside the transaction, so of two
// concurrent attempts for overlapping ranges at most one commits; the
// loser observes the winner's row and receives ErrConflict.  New
// bookings start in PENDING, which blocks the range exactly like
// CONFIRMED.
func (r *BookingRepo) CreateIfFree(ctx context.Context, userID, courtID uint64, start, end time.Time) (model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock any row that would overlap.  Half-open semantics: an existing
	// booking ending exactly at `start` does not block.
	var clash uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings
		 WHERE court_id = ? AND status IN ('PENDING','CONFIRMED')
		   AND start_time < ? AND end_time > ?
		 LIMIT 1 FOR UPDATE`,
		courtID, end.UTC(), start.UTC()).Scan(&clash)
	if err == nil {
		return model.Booking{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return model.Booking{}, err
	}

	ref := uuid.NewString()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, court_id, start_time, end_time, status)
		 VALUES (?,?,?,?,?,'PENDING')`,
		ref, userID, courtID, start.UTC(), end.UTC())
	if err != nil {
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}
	// Read the row back inside the transaction to pick up DB defaults.
	b, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true
	return b, nil
}

// ListForCourtOnDate returns the PENDING and CONFIRMED bookings whose
// range intersects the calendar day of `date`, ascending by start time.
// This is the read input to availability resolution; it runs without
// locks and is allowed to be a stale snapshot.
func (r *BookingRepo) ListForCourtOnDate(ctx context.Context, courtID uint64, date time.Time) ([]model.Booking, error) {
	day := timerange.Day(date.UTC())
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE court_id = ? AND status IN ('PENDING','CONFIRMED')
		   AND start_time < ? AND end_time > ?
		 ORDER BY start_time ASC`,
		courtID, day.End, day.Start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetByID fetches a booking.  Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// Cancel sets a booking to CANCELLED, immediately freeing its range for
// future CreateIfFree calls.  Cancelling an already-cancelled booking
// is a no-op, not an error.  Returns ErrBookingNotFound when absent.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
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
	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id = ? FOR UPDATE", id).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if status != model.StatusCancelled {
		if _, err := tx.ExecContext(ctx,
			"UPDATE bookings SET status = 'CANCELLED' WHERE id = ?", id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus applies a status transition after validating it against
// the state machine.  Invalid transitions return ErrInvalidTransition
// and leave the row untouched.  The current status is read under FOR
// UPDATE so concurrent transitions serialize.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, newStatus string) (model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id = ? FOR UPDATE", id).Scan(&current)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	if !model.CanTransition(current, newStatus) {
		return model.Booking{}, ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ?", newStatus, id); err != nil {
		return model.Booking{}, err
	}
	b, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true
	return b, nil
}

// BookingDetail pairs a booking with the court name for listings.
type BookingDetail struct {
	model.Booking
	CourtName string `json:"court_name"`
}

// ListByUser returns all of a member's bookings with court names,
// newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.reference, b.user_id, b.court_id, b.start_time, b.end_time,
		        b.status, b.created_at, b.updated_at, c.name
		 FROM bookings b
		 JOIN courts c ON c.id = b.court_id
		 WHERE b.user_id = ?
		 ORDER BY b.start_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.Reference, &d.UserID, &d.CourtID, &d.StartTime,
			&d.EndTime, &d.Status, &d.CreatedAt, &d.UpdatedAt, &d.CourtName); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListByCourt returns all bookings on a court within [from, to),
// regardless of status, ascending by start time.  Admin listing view.
func (r *BookingRepo) ListByCourt(ctx context.Context, courtID uint64, from, to time.Time) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE court_id = ? AND start_time < ? AND end_time > ?
		 ORDER BY start_time ASC`,
		courtID, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// AffectedBooking describes a future active booking on a court along
// with the holder's contact email.  Used when a court is deactivated so
// the notifier can reach the members involved.
type AffectedBooking struct {
	Reference string    `json:"reference"`
	UserID    uint64    `json:"user_id"`
	Email     string    `json:"email"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ListFutureActiveWithEmails returns PENDING and CONFIRMED bookings on
// the court starting at or after `from`, joined with user emails.
func (r *BookingRepo) ListFutureActiveWithEmails(ctx context.Context, courtID uint64, from time.Time) ([]AffectedBooking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.reference, b.user_id, u.email, b.start_time, b.end_time
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.court_id = ? AND b.status IN ('PENDING','CONFIRMED') AND b.start_time >= ?
		 ORDER BY b.start_time ASC`,
		courtID, from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	affected := make([]AffectedBooking, 0)
	for rows.Next() {
		var a AffectedBooking
		if err := rows.Scan(&a.Reference, &a.UserID, &a.Email, &a.StartTime, &a.EndTime); err != nil {
			return nil, err
		}
		affected = append(affected, a)
	}
	return affected, rows.Err()
}
