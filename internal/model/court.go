package model

import "time"

// Court surface types as stored in the `surface` enum column.
const (
	SurfaceClay      = "CLAY"
	SurfaceHard      = "HARD"
	SurfaceGrass     = "GRASS"
	SurfaceSynthetic = "SYNTHETIC"
)

// Court represents a bookable tennis court.  The IsActive flag globally
// disables booking regardless of template slots or maintenance windows;
// it is flipped by administrators independently of any booking.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique display name.
//  Description – optional free-text description.
//  Surface     – playing surface (CLAY, HARD, GRASS, SYNTHETIC).
//  Indoor      – whether the court is covered.
//  IsActive    – false disables all booking on the court.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Court struct {
	ID          uint64    `json:"id"`          // courts.id
	Name        string    `json:"name"`        // courts.name
	Description *string   `json:"description"` // courts.description (nullable)
	Surface     string    `json:"surface"`     // courts.surface
	Indoor      bool      `json:"indoor"`      // courts.indoor
	IsActive    bool      `json:"is_active"`   // courts.is_active
	CreatedAt   time.Time `json:"created_at"`  // courts.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // courts.updated_at
}
