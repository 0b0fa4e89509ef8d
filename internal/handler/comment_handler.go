package handler

import (
	"blogicum/internal/data"
	"blogicum/internal/logger"
	"blogicum/internal/middleware"
	"blogicum/internal/service"
	"blogicum/internal/view"
	"errors"
	"net/http"
)

// CommentHandler holds the dependencies for the comment endpoints.
type CommentHandler struct {
	comments service.CommentServicer
	posts    *PostHandler
	view     *view.View
	log      logger.Logger
}

// NewCommentHandler creates a new CommentHandler. Invalid new comments are
// shown on the post page, which ph renders.
func NewCommentHandler(cs service.CommentServicer, ph *PostHandler, v *view.View, log logger.Logger) *CommentHandler {
	return &CommentHandler{comments: cs, posts: ph, view: v, log: log}
}

// createHandler adds a comment to a post.
func (h *CommentHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	user := middleware.GetUserInfo(r.Context())
	text := r.PostFormValue("text")

	if _, err := h.comments.Create(r.Context(), user.ID, id, text); err != nil {
		if errs, ok := service.FieldErrors(err); ok {
			if appErr := h.posts.renderDetail(w, r, id, text, errs); appErr != nil {
				if appErr.Code != http.StatusNotFound {
					return appErr
				}
				// The post exists but is hidden from this user.
				http.Redirect(w, r, postURL(id), http.StatusFound)
			}
			return nil
		}
		return serviceError(err, "Failed to add comment")
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
	return nil
}

// ownedComment loads a comment for its author. It reports false after
// writing a redirect for anyone else.
func (h *CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request) (*data.Comment, *middleware.AppError) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return nil, appErr
	}
	commentID, appErr := idParam(r, "commentID")
	if appErr != nil {
		return nil, appErr
	}
	user := middleware.GetUserInfo(r.Context())

	comment, err := h.comments.GetOwned(r.Context(), user.ID, id, commentID)
	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, service.ErrNotOwner):
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return nil, nil
	default:
		return nil, serviceError(err, "Failed to load comment")
	}
}

// editFormHandler shows the comment form.
func (h *CommentHandler) editFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	comment, appErr := h.ownedComment(w, r)
	if comment == nil {
		return appErr
	}
	return render(w, r, h.view, "comment.html", map[string]interface{}{
		"Comment": comment,
		"Text":    comment.Text,
	})
}

// editHandler saves the new comment text.
func (h *CommentHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	comment, appErr := h.ownedComment(w, r)
	if comment == nil {
		return appErr
	}
	user := middleware.GetUserInfo(r.Context())
	text := r.PostFormValue("text")

	if _, err := h.comments.Update(r.Context(), user.ID, comment.PostID, comment.ID, text); err != nil {
		if errs, ok := service.FieldErrors(err); ok {
			return render(w, r, h.view, "comment.html", map[string]interface{}{
				"Comment": comment,
				"Text":    text,
				"Errors":  errs,
			})
		}
		return serviceError(err, "Failed to update comment")
	}

	http.Redirect(w, r, postURL(comment.PostID), http.StatusFound)
	return nil
}

// deleteFormHandler asks the author to confirm the deletion.
func (h *CommentHandler) deleteFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	comment, appErr := h.ownedComment(w, r)
	if comment == nil {
		return appErr
	}
	return render(w, r, h.view, "comment.html", map[string]interface{}{
		"Comment":  comment,
		"IsDelete": true,
	})
}

// deleteHandler removes the comment.
func (h *CommentHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	comment, appErr := h.ownedComment(w, r)
	if comment == nil {
		return appErr
	}
	user := middleware.GetUserInfo(r.Context())
	if err := h.comments.Delete(r.Context(), user.ID, comment.PostID, comment.ID); err != nil {
		return serviceError(err, "Failed to delete comment")
	}
	http.Redirect(w, r, postURL(comment.PostID), http.StatusFound)
	return nil
}
