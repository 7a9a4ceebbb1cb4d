package repository

import (
	"context"
	"database/sql"

	"github.com/matchpoint/court-reservation/internal/model"
)

// CourtRepo provides CRUD operations for courts.  Courts are
// administrator-managed and read-mostly: booking traffic only reads the
// is_active flag, so no write synchronization is required here.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo returns a new CourtRepo bound to the given database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *CourtRepo) DB() *sql.DB { return r.db }

const courtColumns = "id, name, description, surface, indoor, is_active, created_at, updated_at"

func scanCourt(row interface{ Scan(...any) error }) (model.Court, error) {
	var c model.Court
	var desc sql.NullString
	err := row.Scan(&c.ID, &c.Name, &desc, &c.Surface, &c.Indoor, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Court{}, err
	}
	if desc.Valid {
		d := desc.String
		c.Description = &d
	}
	return c, nil
}

// Create inserts a court and populates the generated ID and timestamps.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO courts (name, description, surface, indoor, is_active) VALUES (?,?,?,?,?)",
		c.Name, c.Description, c.Surface, c.Indoor, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	created, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = created
	return nil
}

// GetByID fetches a single court.  Returns ErrCourtNotFound when the
// court does not exist.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (model.Court, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+courtColumns+" FROM courts WHERE id = ?", id)
	c, err := scanCourt(row)
	if err == sql.ErrNoRows {
		return model.Court{}, ErrCourtNotFound
	}
	return c, err
}

// List returns all courts ordered by name.  When activeOnly is true,
// deactivated courts are filtered out.
func (r *CourtRepo) List(ctx context.Context, activeOnly bool) ([]model.Court, error) {
	q := "SELECT " + courtColumns + " FROM courts"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courts := make([]model.Court, 0)
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

// Update modifies a court's display metadata.  Returns ErrCourtNotFound
// when no row matches.
func (r *CourtRepo) Update(ctx context.Context, c model.Court) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE courts SET name = ?, description = ?, surface = ?, indoor = ? WHERE id = ?",
		c.Name, c.Description, c.Surface, c.Indoor, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero affected rows for no-op updates too, so
		// confirm existence before reporting not found.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// SetActive flips the global activation flag.  Deactivation takes
// effect immediately for availability resolution; notification of
// affected members is the caller's concern.
func (r *CourtRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE courts SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CourtStats aggregates booking usage for one court.  PopularHours maps
// the hour of day (0-23) to the number of active or completed bookings
// starting in that hour.
type CourtStats struct {
	CourtID       uint64        `json:"court_id"`
	TotalBookings int64         `json:"total_bookings"`
	Cancelled     int64         `json:"cancelled"`
	PopularHours  map[int]int64 `json:"popular_hours"`
}

// Stats computes usage statistics for a court over its whole history.
func (r *CourtRepo) Stats(ctx context.Context, courtID uint64) (CourtStats, error) {
	stats := CourtStats{CourtID: courtID, PopularHours: make(map[int]int64)}
	err := r.db.QueryRowContext(ctx,
		`SELECT
		    COUNT(*),
		    COALESCE(SUM(status = 'CANCELLED'), 0)
		 FROM bookings WHERE court_id = ?`, courtID).
		Scan(&stats.TotalBookings, &stats.Cancelled)
	if err != nil {
		return CourtStats{}, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT HOUR(start_time), COUNT(*)
		 FROM bookings
		 WHERE court_id = ? AND status != 'CANCELLED'
		 GROUP BY HOUR(start_time)
		 ORDER BY COUNT(*) DESC`, courtID)
	if err != nil {
		return CourtStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var hour int
		var count int64
		if err := rows.Scan(&hour, &count); err != nil {
			return CourtStats{}, err
		}
		stats.PopularHours[hour] = count
	}
	return stats, rows.Err()
}
