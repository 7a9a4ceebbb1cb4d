package model

import "time"

// CourtComment is an administrative note attached to a court, e.g. the
// outcome of an inspection.  Comments are display-only and have no
// effect on availability.
type CourtComment struct {
	ID        uint64    `json:"id"`         // court_comments.id
	CourtID   uint64    `json:"court_id"`   // court_comments.court_id
	AuthorID  uint64    `json:"author_id"`  // court_comments.author_id
	Comment   string    `json:"comment"`    // court_comments.comment
	CreatedAt time.Time `json:"created_at"` // court_comments.created_at
}
