package data

import (
	"html/template"
	"strings"
	"time"
)

// User is a registered account.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	DateJoined   time.Time `db:"date_joined"`
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Location is a named place a post can be tied to.
type Location struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
}

// Category groups posts under a slug.
type Category struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Slug        string    `db:"slug"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
}

// Post is a single blog entry. The fields after CategoryID are filled from
// joins by the post queries and are never written back.
type Post struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Text        string    `db:"text"`
	PubDate     time.Time `db:"pub_date"`
	Image       string    `db:"image"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
	AuthorID    int64     `db:"author_id"`
	LocationID  *int64    `db:"location_id"`
	CategoryID  *int64    `db:"category_id"`

	AuthorUsername      string  `db:"author_username"`
	LocationName        *string `db:"location_name"`
	LocationIsPublished *bool   `db:"location_is_published"`
	CategoryTitle       *string `db:"category_title"`
	CategorySlug        *string `db:"category_slug"`
	CategoryIsPublished *bool   `db:"category_is_published"`
	CommentCount        int     `db:"comment_count"`

	HTMLText template.HTML `db:"-"`
}

// HasPublishedCategory reports whether the post's category, if any, is
// published. A post without a category has no category to hide it.
func (p *Post) HasPublishedCategory() bool {
	if p.CategoryID == nil {
		return true
	}
	return p.CategoryIsPublished != nil && *p.CategoryIsPublished
}

// PublishedLocationName is the location name shown to readers, empty when
// the post has no location or it is hidden.
func (p *Post) PublishedLocationName() string {
	if p.LocationName == nil || p.LocationIsPublished == nil || !*p.LocationIsPublished {
		return ""
	}
	return *p.LocationName
}

// Comment is a reader's reply to a post.
type Comment struct {
	ID        int64     `db:"id"`
	Text      string    `db:"text"`
	AuthorID  int64     `db:"author_id"`
	PostID    int64     `db:"post_id"`
	CreatedAt time.Time `db:"created_at"`

	AuthorUsername string `db:"author_username"`

	HTMLText template.HTML `db:"-"`
}
