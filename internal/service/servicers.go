package service

import (
	"blogicum/internal/data"
	"blogicum/internal/pagination"
	"context"
)

// PostServicer defines the interface for interacting with posts.
type PostServicer interface {
	ListPublished(ctx context.Context, requested string) (pagination.Page[*data.Post], error)
	ListCategory(ctx context.Context, slug, requested string) (*data.Category, pagination.Page[*data.Post], error)
	ListProfile(ctx context.Context, viewerID int64, username, requested string) (*data.User, pagination.Page[*data.Post], error)
	PublicPosts(ctx context.Context) ([]*data.Post, error)
	GetVisible(ctx context.Context, viewerID, id int64) (*data.Post, error)
	GetOwned(ctx context.Context, actorID, id int64) (*data.Post, error)
	CreatePost(ctx context.Context, authorID int64, in PostInput) (*data.Post, error)
	UpdatePost(ctx context.Context, actorID, id int64, in PostInput) (*data.Post, error)
	DeletePost(ctx context.Context, actorID, id int64) error
}

// CommentServicer defines the interface for interacting with comments.
type CommentServicer interface {
	ListForPost(ctx context.Context, postID int64) ([]*data.Comment, error)
	Create(ctx context.Context, actorID, postID int64, text string) (*data.Comment, error)
	GetOwned(ctx context.Context, actorID, postID, commentID int64) (*data.Comment, error)
	Update(ctx context.Context, actorID, postID, commentID int64, text string) (*data.Comment, error)
	Delete(ctx context.Context, actorID, postID, commentID int64) error
}

// UserServicer defines the interface for interacting with accounts.
type UserServicer interface {
	Register(ctx context.Context, username, email, password string) (*data.User, error)
	Authenticate(ctx context.Context, username, password string) (*data.User, error)
	FindOrCreateExternal(ctx context.Context, username, email string) (*data.User, error)
	GetByID(ctx context.Context, id int64) (*data.User, error)
	ProfileForEdit(ctx context.Context, actorID int64, username string) (*data.User, error)
	UpdateProfile(ctx context.Context, actorID int64, username string, in ProfileInput) (*data.User, error)
}

// CatalogServicer defines the interface for the reference data offered on
// the post form.
type CatalogServicer interface {
	Categories(ctx context.Context) ([]*data.Category, error)
	Locations(ctx context.Context) ([]*data.Location, error)
}

var (
	_ PostServicer    = (*PostService)(nil)
	_ CommentServicer = (*CommentService)(nil)
	_ UserServicer    = (*UserService)(nil)
	_ CatalogServicer = (*CatalogService)(nil)
)
