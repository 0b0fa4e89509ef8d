package service

import (
	"blogicum/internal/data"
	"context"
	"time"
)

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *data.Post) error
	GetPostByID(ctx context.Context, id int64) (*data.Post, error)
	UpdatePost(ctx context.Context, post *data.Post) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, filter data.PostFilter, limit, offset int) ([]*data.Post, error)
	CountPosts(ctx context.Context, filter data.PostFilter) (int, error)
}

// CommentRepository defines the interface for database operations on comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *data.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*data.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]*data.Comment, error)
	UpdateComment(ctx context.Context, comment *data.Comment) error
	DeleteComment(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	GetBySlug(ctx context.Context, slug string) (*data.Category, error)
	GetByID(ctx context.Context, id int64) (*data.Category, error)
	GetAll(ctx context.Context) ([]*data.Category, error)
	ListPublished(ctx context.Context) ([]*data.Category, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	Delete(ctx context.Context, id int64) error
}

// LocationRepository defines the interface for database operations on locations.
type LocationRepository interface {
	Save(ctx context.Context, location *data.Location) (int64, error)
	GetByID(ctx context.Context, id int64) (*data.Location, error)
	ListPublished(ctx context.Context) ([]*data.Location, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *data.User) error
	GetByID(ctx context.Context, id int64) (*data.User, error)
	GetByUsername(ctx context.Context, username string) (*data.User, error)
	UpdateProfile(ctx context.Context, user *data.User) error
	Delete(ctx context.Context, id int64) error
}

// Cache is the key/value store used for hot lookups.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
