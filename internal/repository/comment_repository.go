package repository

import (
	"context"
	"database/sql"

	"github.com/matchpoint/court-reservation/internal/model"
)

// CommentRepo stores administrative notes attached to courts.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo returns a new CommentRepo bound to the given database.
func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

// Create inserts a comment and populates the generated ID.
func (r *CommentRepo) Create(ctx context.Context, c *model.CourtComment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO court_comments (court_id, author_id, comment) VALUES (?,?,?)",
		c.CourtID, c.AuthorID, c.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// ListByCourt returns a court's comments, newest first.
func (r *CommentRepo) ListByCourt(ctx context.Context, courtID uint64) ([]model.CourtComment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, court_id, author_id, comment, created_at
		 FROM court_comments WHERE court_id = ? ORDER BY created_at DESC`, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]model.CourtComment, 0)
	for rows.Next() {
		var c model.CourtComment
		if err := rows.Scan(&c.ID, &c.CourtID, &c.AuthorID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
