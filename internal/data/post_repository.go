package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostFilter narrows a post listing. The zero value matches every post.
type PostFilter struct {
	// AuthorID restricts the listing to one author.
	AuthorID *int64
	// CategorySlug restricts the listing to one category.
	CategorySlug string
	// PublicAt keeps only posts that are publicly visible at that instant:
	// published, due, and not filed under a hidden category.
	PublicAt *time.Time
}

func (f PostFilter) where() (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if f.AuthorID != nil {
		clauses = append(clauses, "p.author_id = ?")
		args = append(args, *f.AuthorID)
	}
	if f.CategorySlug != "" {
		clauses = append(clauses, "c.slug = ?")
		args = append(args, f.CategorySlug)
	}
	if f.PublicAt != nil {
		clauses = append(clauses, "p.is_published = ?", "p.pub_date <= ?", "(p.category_id IS NULL OR c.is_published = ?)")
		// pub_date is stored in UTC; sqlite3 binds times as text in their own zone.
		args = append(args, true, f.PublicAt.UTC(), true)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const postSelect = `SELECT p.id, p.title, p.text, p.pub_date, p.image, p.is_published, p.created_at,
	p.author_id, p.location_id, p.category_id,
	u.username AS author_username,
	l.name AS location_name, l.is_published AS location_is_published,
	c.title AS category_title, c.slug AS category_slug, c.is_published AS category_is_published,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comment_count
FROM posts p
JOIN users u ON u.id = p.author_id
LEFT JOIN locations l ON l.id = p.location_id
LEFT JOIN categories c ON c.id = p.category_id`

// SQLPostRepository stores posts with sqlx.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// CreatePost inserts a new post and sets its ID.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (title, text, pub_date, image, is_published, created_at, author_id, location_id, category_id)
		VALUES (:title, :text, :pub_date, :image, :is_published, :created_at, :author_id, :location_id, :category_id)`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a single post with its joined display fields.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := r.db.GetContext(ctx, &post, postSelect+` WHERE p.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// UpdatePost writes the editable fields of an existing post.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET title = :title, text = :text, pub_date = :pub_date, image = :image,
		is_published = :is_published, location_id = :location_id, category_id = :category_id
		WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectAffected(result, "post", post.ID)
}

// DeletePost removes a post and, through the schema, its comments.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectAffected(result, "post", id)
}

// ListPosts returns posts matching filter, newest publication first. Ties
// keep insertion order. A limit of zero returns every match.
func (r *SQLPostRepository) ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]*Post, error) {
	where, args := filter.where()
	query := postSelect + where + ` ORDER BY p.pub_date DESC, p.id ASC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	posts := []*Post{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CountPosts returns how many posts match filter.
func (r *SQLPostRepository) CountPosts(ctx context.Context, filter PostFilter) (int, error) {
	where, args := filter.where()
	query := `SELECT COUNT(*) FROM posts p LEFT JOIN categories c ON c.id = p.category_id` + where
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
