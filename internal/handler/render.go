package handler

import (
	"blogicum/internal/middleware"
	"blogicum/internal/service"
	"blogicum/internal/view"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// render writes the named page with the per-request template data added.
func render(w http.ResponseWriter, r *http.Request, v *view.View, name string, data map[string]interface{}) *middleware.AppError {
	data = middleware.TemplateData(r.Context(), data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := v.Render(w, name, data); err != nil {
		return middleware.Internal(err, "Failed to render page")
	}
	return nil
}

// serviceError maps a service error to an error page.
func serviceError(err error, message string) *middleware.AppError {
	if errors.Is(err, service.ErrNotFound) {
		return middleware.NotFound(err)
	}
	return middleware.Internal(err, message)
}

// idParam reads a numeric URL parameter. The routes only match digits, so
// the only failure left is overflow, which is as good as not found.
func idParam(r *http.Request, name string) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NotFound(err)
	}
	return id, nil
}

func postURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
