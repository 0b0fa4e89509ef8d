// Package testutil holds fixtures shared by the integration tests.
package testutil

import (
	"blogicum/internal/config"
	"blogicum/internal/data"
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

var dbCounter atomic.Int64

// NewDB opens a private in-memory SQLite database with every migration
// applied. It is closed when the test ends.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbCounter.Add(1))
	db, err := data.NewDB(config.DBConfig{Driver: "sqlite3", DSN: dsn})
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and avoids
	// shared-cache table locks.
	db.SetMaxOpenConns(1)

	if err := data.ApplyMigrations(db, "sqlite3"); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// CreateUser inserts a user with the given username.
func CreateUser(t *testing.T, db *sqlx.DB, username string) *data.User {
	t.Helper()
	user := &data.User{Username: username, DateJoined: time.Now().UTC().Truncate(time.Second)}
	if err := data.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

// CreateCategory inserts a category with the given slug and state.
func CreateCategory(t *testing.T, db *sqlx.DB, slug string, published bool) *data.Category {
	t.Helper()
	category := &data.Category{
		Title:       strings.ToUpper(slug[:1]) + slug[1:],
		Description: "About " + slug,
		Slug:        slug,
		IsPublished: published,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if _, err := data.NewCategoryRepository(db).Save(context.Background(), category); err != nil {
		t.Fatalf("failed to create category %q: %v", slug, err)
	}
	return category
}

// PostOption adjusts a post before CreatePost stores it.
type PostOption func(*data.Post)

// Unpublished marks the post as hidden by its author.
func Unpublished() PostOption {
	return func(p *data.Post) { p.IsPublished = false }
}

// PubDate sets the publication date.
func PubDate(at time.Time) PostOption {
	return func(p *data.Post) { p.PubDate = at.UTC().Truncate(time.Second) }
}

// InCategory files the post under category.
func InCategory(category *data.Category) PostOption {
	return func(p *data.Post) { p.CategoryID = &category.ID }
}

// AtLocation ties the post to location.
func AtLocation(location *data.Location) PostOption {
	return func(p *data.Post) { p.LocationID = &location.ID }
}

// CreatePost inserts a published, already due post by author.
func CreatePost(t *testing.T, db *sqlx.DB, author *data.User, title string, opts ...PostOption) *data.Post {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	post := &data.Post{
		Title:       title,
		Text:        "Text of " + title,
		PubDate:     now.Add(-time.Hour),
		IsPublished: true,
		CreatedAt:   now,
		AuthorID:    author.ID,
	}
	for _, opt := range opts {
		opt(post)
	}
	if err := data.NewSQLPostRepository(db).CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create post %q: %v", title, err)
	}
	return post
}

// CreateComment inserts a comment by author on post.
func CreateComment(t *testing.T, db *sqlx.DB, author *data.User, post *data.Post, text string) *data.Comment {
	t.Helper()
	comment := &data.Comment{
		Text:      text,
		AuthorID:  author.ID,
		PostID:    post.ID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := data.NewCommentRepository(db).CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return comment
}
