package handler

import (
	"blogicum/internal/logger"
	"blogicum/internal/middleware"
	"blogicum/internal/service"
	"blogicum/internal/view"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// PostHandler holds the dependencies for the post pages.
type PostHandler struct {
	posts     service.PostServicer
	comments  service.CommentServicer
	catalog   service.CatalogServicer
	view      *view.View
	log       logger.Logger
	maxUpload int64
	now       func() time.Time
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(ps service.PostServicer, cs service.CommentServicer, catalog service.CatalogServicer, v *view.View, log logger.Logger, maxUpload int64) *PostHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &PostHandler{
		posts:     ps,
		comments:  cs,
		catalog:   catalog,
		view:      v,
		log:       log,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

// indexHandler lists the public feed.
func (h *PostHandler) indexHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.posts.ListPublished(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		return middleware.Internal(err, "Failed to load posts")
	}
	return render(w, r, h.view, "index.html", map[string]interface{}{"Page": page})
}

// categoryHandler lists the public posts of one published category.
func (h *PostHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category, page, err := h.posts.ListCategory(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("page"))
	if err != nil {
		return serviceError(err, "Failed to load category")
	}
	return render(w, r, h.view, "category.html", map[string]interface{}{
		"Category": category,
		"Page":     page,
	})
}

// profileHandler lists a user's posts. The owner also sees unpublished ones.
func (h *PostHandler) profileHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	viewer := middleware.GetUserInfo(r.Context())
	profile, page, err := h.posts.ListProfile(r.Context(), viewer.ID, chi.URLParam(r, "username"), r.URL.Query().Get("page"))
	if err != nil {
		return serviceError(err, "Failed to load profile")
	}
	return render(w, r, h.view, "profile.html", map[string]interface{}{
		"Profile": profile,
		"IsOwner": viewer.ID == profile.ID,
		"Page":    page,
	})
}

// detailHandler shows one post with its comments and a comment form.
func (h *PostHandler) detailHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	return h.renderDetail(w, r, id, "", nil)
}

func (h *PostHandler) renderDetail(w http.ResponseWriter, r *http.Request, id int64, commentText string, errs map[string]string) *middleware.AppError {
	viewer := middleware.GetUserInfo(r.Context())
	post, err := h.posts.GetVisible(r.Context(), viewer.ID, id)
	if err != nil {
		return serviceError(err, "Failed to load post")
	}
	comments, err := h.comments.ListForPost(r.Context(), id)
	if err != nil {
		return middleware.Internal(err, "Failed to load comments")
	}
	return render(w, r, h.view, "detail.html", map[string]interface{}{
		"Post":        post,
		"Comments":    comments,
		"IsAuthor":    viewer.ID == post.AuthorID,
		"CommentText": commentText,
		"Errors":      errs,
	})
}

func (h *PostHandler) renderForm(w http.ResponseWriter, r *http.Request, data map[string]interface{}) *middleware.AppError {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load categories")
	}
	locations, err := h.catalog.Locations(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load locations")
	}
	data["Categories"] = categories
	data["Locations"] = locations
	return render(w, r, h.view, "create.html", data)
}

// createFormHandler shows an empty post form.
func (h *PostHandler) createFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderForm(w, r, map[string]interface{}{"Form": newPostForm(h.now())})
}

// createHandler stores a new post by the current user.
func (h *PostHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	in, form, err := parsePostForm(r, h.maxUpload)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form submission", Code: http.StatusBadRequest}
	}

	if _, err := h.posts.CreatePost(r.Context(), user.ID, in); err != nil {
		if errs, ok := service.FieldErrors(err); ok {
			return h.renderForm(w, r, map[string]interface{}{"Form": form, "Errors": errs})
		}
		return middleware.Internal(err, "Failed to create post")
	}

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
	return nil
}

// ownedPost loads a post for its author. It reports false after writing a
// redirect for anyone else.
func (h *PostHandler) ownedPost(w http.ResponseWriter, r *http.Request, id int64, load func(ctx context.Context, actorID, id int64) error) (bool, *middleware.AppError) {
	user := middleware.GetUserInfo(r.Context())
	err := load(r.Context(), user.ID, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, service.ErrNotOwner):
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return false, nil
	default:
		return false, serviceError(err, "Failed to load post")
	}
}

// editFormHandler shows the post form filled with the post's values.
func (h *PostHandler) editFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	var form postForm
	ok, appErr := h.ownedPost(w, r, id, func(ctx context.Context, actorID, id int64) error {
		post, err := h.posts.GetOwned(ctx, actorID, id)
		if err == nil {
			form = postFormFrom(post)
		}
		return err
	})
	if !ok {
		return appErr
	}
	return h.renderForm(w, r, map[string]interface{}{"Form": form, "PostID": id, "IsEdit": true})
}

// editHandler applies the submitted form to the post.
func (h *PostHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	in, form, err := parsePostForm(r, h.maxUpload)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form submission", Code: http.StatusBadRequest}
	}

	var errs map[string]string
	ok, appErr := h.ownedPost(w, r, id, func(ctx context.Context, actorID, id int64) error {
		post, err := h.posts.UpdatePost(ctx, actorID, id, in)
		if fieldErrs, isValidation := service.FieldErrors(err); isValidation {
			errs = fieldErrs
			if post != nil {
				form.Image = post.Image
			}
			return nil
		}
		return err
	})
	if !ok {
		return appErr
	}
	if errs != nil {
		return h.renderForm(w, r, map[string]interface{}{"Form": form, "Errors": errs, "PostID": id, "IsEdit": true})
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
	return nil
}

// deleteFormHandler asks the author to confirm the deletion.
func (h *PostHandler) deleteFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	var form postForm
	ok, appErr := h.ownedPost(w, r, id, func(ctx context.Context, actorID, id int64) error {
		post, err := h.posts.GetOwned(ctx, actorID, id)
		if err == nil {
			form = postFormFrom(post)
		}
		return err
	})
	if !ok {
		return appErr
	}
	return render(w, r, h.view, "create.html", map[string]interface{}{"Form": form, "PostID": id, "IsDelete": true})
}

// deleteHandler removes the post.
func (h *PostHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	ok, appErr := h.ownedPost(w, r, id, h.posts.DeletePost)
	if !ok {
		return appErr
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}
