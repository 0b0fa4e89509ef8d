package service

import (
	"blogicum/internal/data"
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCommentLength = 256

// CommentService provides business logic for comments.
type CommentService struct {
	comments CommentRepository
	posts    PostRepository
	renderer *Renderer
	now      Clock
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments CommentRepository, posts PostRepository, renderer *Renderer, clock Clock) *CommentService {
	if renderer == nil {
		renderer = NewRenderer()
	}
	if clock == nil {
		clock = time.Now
	}
	return &CommentService{comments: comments, posts: posts, renderer: renderer, now: clock}
}

// ListForPost returns a post's comments, oldest first, ready to display.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]*data.Comment, error) {
	comments, err := s.comments.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.HTMLText = s.renderer.Comment(c.Text)
	}
	return comments, nil
}

// Create adds a comment by actorID to post postID. The post only has to
// exist.
func (s *CommentService) Create(ctx context.Context, actorID, postID int64, text string) (*data.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	text, err := validateComment(text)
	if err != nil {
		return nil, err
	}
	comment := &data.Comment{
		Text:      text,
		AuthorID:  actorID,
		PostID:    postID,
		CreatedAt: stamp(s.now()),
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetOwned returns comment commentID of post postID if actorID wrote it.
func (s *CommentService) GetOwned(ctx context.Context, actorID, postID, commentID int64) (*data.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, ErrNotFound
	}
	if err := checkOwner(actorID, comment.AuthorID); err != nil {
		return nil, err
	}
	comment.HTMLText = s.renderer.Comment(comment.Text)
	return comment, nil
}

// Update replaces the text of a comment owned by actorID.
func (s *CommentService) Update(ctx context.Context, actorID, postID, commentID int64, text string) (*data.Comment, error) {
	comment, err := s.GetOwned(ctx, actorID, postID, commentID)
	if err != nil {
		return nil, err
	}
	text, err = validateComment(text)
	if err != nil {
		return comment, err
	}
	comment.Text = text
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.HTMLText = s.renderer.Comment(comment.Text)
	return comment, nil
}

// Delete removes a comment owned by actorID.
func (s *CommentService) Delete(ctx context.Context, actorID, postID, commentID int64) error {
	if _, err := s.GetOwned(ctx, actorID, postID, commentID); err != nil {
		return err
	}
	return s.comments.DeleteComment(ctx, commentID)
}

func validateComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", &ValidationError{Fields: map[string]string{"text": "This field is required."}}
	case utf8.RuneCountInString(text) > maxCommentLength:
		return "", &ValidationError{Fields: map[string]string{"text": "Ensure this value has at most 256 characters."}}
	}
	return text, nil
}
