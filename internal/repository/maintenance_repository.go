package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/matchpoint/court-reservation/internal/model"
)

// MaintenanceRepo manages per-court maintenance windows.  A window is an
// inclusive calendar-date range during which no slot on the court is
// bookable.  Overlapping windows act as a union; they are not an error.
type MaintenanceRepo struct {
	db *sql.DB
}

// NewMaintenanceRepo returns a new MaintenanceRepo bound to the given database.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

// dateFormat is how DATE parameters are passed to MySQL.
const dateFormat = "2006-01-02"

// Create inserts a maintenance window and populates the generated ID.
// The caller must have validated start_date <= end_date.
func (r *MaintenanceRepo) Create(ctx context.Context, p *model.MaintenancePeriod) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO court_maintenance (court_id, start_date, end_date, comment) VALUES (?,?,?,?)",
		p.CourtID, p.StartDate.Format(dateFormat), p.EndDate.Format(dateFormat), p.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// IsUnderMaintenance reports whether any maintenance window of the
// court covers the given calendar date.
func (r *MaintenanceRepo) IsUnderMaintenance(ctx context.Context, courtID uint64, date time.Time) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM court_maintenance WHERE court_id = ? AND ? BETWEEN start_date AND end_date LIMIT 1",
		courtID, date.Format(dateFormat)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByCourt returns all maintenance windows for a court, most recent
// first.  Used for display and history; the hot availability path goes
// through IsUnderMaintenance instead.
func (r *MaintenanceRepo) ListByCourt(ctx context.Context, courtID uint64) ([]model.MaintenancePeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, court_id, start_date, end_date, comment, created_at
		 FROM court_maintenance WHERE court_id = ? ORDER BY start_date DESC`,
		courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	periods := make([]model.MaintenancePeriod, 0)
	for rows.Next() {
		var p model.MaintenancePeriod
		var comment sql.NullString
		if err := rows.Scan(&p.ID, &p.CourtID, &p.StartDate, &p.EndDate, &comment, &p.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			c := comment.String
			p.Comment = &c
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
