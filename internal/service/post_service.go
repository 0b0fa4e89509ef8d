package service

import (
	"blogicum/internal/data"
	"blogicum/internal/logger"
	"blogicum/internal/media"
	"blogicum/internal/pagination"
	"blogicum/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTitleLength = 256

// PostInput is the editable part of a post as submitted by its author.
type PostInput struct {
	Title       string
	Text        string
	PubDate     time.Time
	IsPublished bool
	CategoryID  *int64
	LocationID  *int64
	// Image holds a new upload, nil when none was sent.
	Image      []byte
	ClearImage bool
}

// PostService provides business logic for posts.
type PostService struct {
	posts      PostRepository
	users      UserRepository
	categories CategoryRepository
	locations  LocationRepository
	catalog    *CatalogService
	store      storage.Storage
	limits     media.Limits
	renderer   *Renderer
	log        logger.Logger
	pageSize   int
	now        Clock
}

// PostServiceConfig bundles the collaborators of a PostService.
type PostServiceConfig struct {
	Posts      PostRepository
	Users      UserRepository
	Categories CategoryRepository
	Locations  LocationRepository
	Catalog    *CatalogService
	Storage    storage.Storage
	Limits     media.Limits
	Renderer   *Renderer
	Logger     logger.Logger
	PageSize   int
	Clock      Clock
}

// NewPostService creates a new PostService.
func NewPostService(cfg PostServiceConfig) *PostService {
	if cfg.Renderer == nil {
		cfg.Renderer = NewRenderer()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = pagination.DefaultPageSize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &PostService{
		posts:      cfg.Posts,
		users:      cfg.Users,
		categories: cfg.Categories,
		locations:  cfg.Locations,
		catalog:    cfg.Catalog,
		store:      cfg.Storage,
		limits:     cfg.Limits,
		renderer:   cfg.Renderer,
		log:        cfg.Logger,
		pageSize:   cfg.PageSize,
		now:        cfg.Clock,
	}
}

func (s *PostService) listPage(ctx context.Context, filter data.PostFilter, requested string) (pagination.Page[*data.Post], error) {
	total, err := s.posts.CountPosts(ctx, filter)
	if err != nil {
		return pagination.Page[*data.Post]{}, err
	}
	window := pagination.NewWindow(total, s.pageSize, requested)
	posts, err := s.posts.ListPosts(ctx, filter, window.Limit(), window.Offset())
	if err != nil {
		return pagination.Page[*data.Post]{}, err
	}
	return pagination.FromWindow(window, posts), nil
}

// ListPublished returns a page of the public feed.
func (s *PostService) ListPublished(ctx context.Context, requested string) (pagination.Page[*data.Post], error) {
	return s.listPage(ctx, publicFilter(s.now()), requested)
}

// ListCategory returns a page of the public posts in a published category.
func (s *PostService) ListCategory(ctx context.Context, slug, requested string) (*data.Category, pagination.Page[*data.Post], error) {
	category, err := s.catalog.PublishedCategory(ctx, slug)
	if err != nil {
		return nil, pagination.Page[*data.Post]{}, err
	}
	filter := publicFilter(s.now())
	filter.CategorySlug = category.Slug
	page, err := s.listPage(ctx, filter, requested)
	return category, page, err
}

// ListProfile returns a page of username's posts. The owner sees all of
// them, everyone else only the public ones.
func (s *PostService) ListProfile(ctx context.Context, viewerID int64, username, requested string) (*data.User, pagination.Page[*data.Post], error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, pagination.Page[*data.Post]{}, err
	}
	filter := data.PostFilter{AuthorID: &user.ID}
	if viewerID == Anonymous || viewerID != user.ID {
		filter = publicFilter(s.now())
		filter.AuthorID = &user.ID
	}
	page, err := s.listPage(ctx, filter, requested)
	return user, page, err
}

// PublicPosts returns every publicly visible post, newest first.
func (s *PostService) PublicPosts(ctx context.Context) ([]*data.Post, error) {
	return s.posts.ListPosts(ctx, publicFilter(s.now()), 0, 0)
}

// GetVisible returns the post with its rendered body if viewerID may see it.
func (s *PostService) GetVisible(ctx context.Context, viewerID, id int64) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !VisibleTo(viewerID, post, s.now()) {
		return nil, ErrNotFound
	}
	post.HTMLText = s.renderer.Post(post.Text)
	return post, nil
}

// GetOwned returns the post if actorID wrote it.
func (s *PostService) GetOwned(ctx context.Context, actorID, id int64) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(actorID, post.AuthorID); err != nil {
		return nil, err
	}
	post.HTMLText = s.renderer.Post(post.Text)
	return post, nil
}

// CreatePost validates in and stores a new post written by authorID.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, in PostInput) (*data.Post, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	post := &data.Post{
		AuthorID:  authorID,
		CreatedAt: stamp(s.now()),
	}
	apply(post, in)

	if in.Image != nil {
		url, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.removeImage(ctx, post.Image)
		return nil, err
	}
	return post, nil
}

// UpdatePost applies in to post id on behalf of actorID.
func (s *PostService) UpdatePost(ctx context.Context, actorID, id int64, in PostInput) (*data.Post, error) {
	post, err := s.GetOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return post, err
	}

	oldImage := post.Image
	apply(post, in)
	switch {
	case in.Image != nil:
		url, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return post, err
		}
		post.Image = url
	case in.ClearImage:
		post.Image = ""
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if post.Image != oldImage {
			s.removeImage(ctx, post.Image)
		}
		return nil, err
	}
	if post.Image != oldImage {
		s.removeImage(ctx, oldImage)
	}
	post.HTMLText = s.renderer.Post(post.Text)
	return post, nil
}

// DeletePost removes post id, its comments and its image.
func (s *PostService) DeletePost(ctx context.Context, actorID, id int64) error {
	post, err := s.GetOwned(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, post.Image)
	return nil
}

func apply(post *data.Post, in PostInput) {
	post.Title = strings.TrimSpace(in.Title)
	post.Text = strings.TrimSpace(in.Text)
	post.PubDate = stamp(in.PubDate)
	post.IsPublished = in.IsPublished
	post.CategoryID = in.CategoryID
	post.LocationID = in.LocationID
}

func (s *PostService) validate(ctx context.Context, in PostInput) error {
	verr := &ValidationError{}
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.Add("title", "This field is required.")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", "Ensure this value has at most 256 characters.")
	}
	if strings.TrimSpace(in.Text) == "" {
		verr.Add("text", "This field is required.")
	}
	if in.PubDate.IsZero() {
		verr.Add("pub_date", "Enter a valid date and time.")
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if !errors.Is(err, data.ErrNotFound) {
				return err
			}
			verr.Add("category", "Select a valid choice.")
		}
	}
	if in.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, *in.LocationID); err != nil {
			if !errors.Is(err, data.ErrNotFound) {
				return err
			}
			verr.Add("location", "Select a valid choice.")
		}
	}
	return verr.OrNil()
}

func (s *PostService) saveImage(ctx context.Context, raw []byte) (string, error) {
	if s.store == nil {
		return "", &ValidationError{Fields: map[string]string{"image": "Image uploads are disabled."}}
	}
	img, err := media.Process(raw, s.limits)
	if err != nil {
		if errors.Is(err, media.ErrEmpty) || errors.Is(err, media.ErrTooLarge) ||
			errors.Is(err, media.ErrUnsupported) || errors.Is(err, media.ErrDimensions) {
			return "", &ValidationError{Fields: map[string]string{"image": err.Error()}}
		}
		return "", err
	}
	return s.store.Save(ctx, img.Name, img.Data, img.ContentType)
}

func (s *PostService) removeImage(ctx context.Context, url string) {
	if url == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		s.log.With(map[string]interface{}{"url": url}).Error(err, "failed to remove stored image")
	}
}
