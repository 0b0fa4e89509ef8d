package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const commentSelect = `SELECT cm.id, cm.text, cm.author_id, cm.post_id, cm.created_at, u.username AS author_username
FROM comments cm
JOIN users u ON u.id = cm.author_id`

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateComment inserts a comment and sets its ID.
func (r *CommentRepository) CreateComment(ctx context.Context, comment *Comment) error {
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO comments (text, author_id, post_id, created_at)
		VALUES (:text, :author_id, :post_id, :created_at)`, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentByID retrieves a comment with its author's username.
func (r *CommentRepository) GetCommentByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	if err := r.db.GetContext(ctx, &comment, commentSelect+` WHERE cm.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}
	return &comment, nil
}

// ListCommentsByPost returns a post's comments, oldest first.
func (r *CommentRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	comments := []*Comment{}
	query := commentSelect + ` WHERE cm.post_id = ? ORDER BY cm.created_at ASC, cm.id ASC`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment rewrites a comment's text.
func (r *CommentRepository) UpdateComment(ctx context.Context, comment *Comment) error {
	result, err := r.db.NamedExecContext(ctx, `UPDATE comments SET text = :text WHERE id = :id`, comment)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectAffected(result, "comment", comment.ID)
}

// DeleteComment removes a comment.
func (r *CommentRepository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectAffected(result, "comment", id)
}
