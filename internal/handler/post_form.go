package handler

import (
	"blogicum/internal/data"
	"blogicum/internal/service"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var pubDateLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04"}

// postForm holds the submitted or current values of the post form.
type postForm struct {
	Title       string
	Text        string
	PubDate     string
	IsPublished bool
	CategoryID  *int64
	LocationID  *int64
	Image       string
}

func newPostForm(now time.Time) postForm {
	return postForm{PubDate: now.UTC().Format(pubDateLayouts[0]), IsPublished: true}
}

func postFormFrom(post *data.Post) postForm {
	return postForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate.UTC().Format(pubDateLayouts[0]),
		IsPublished: post.IsPublished,
		CategoryID:  post.CategoryID,
		LocationID:  post.LocationID,
		Image:       post.Image,
	}
}

// parsePostForm reads the post form from a multipart or urlencoded body.
func parsePostForm(r *http.Request, maxUpload int64) (service.PostInput, postForm, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return service.PostInput{}, postForm{}, fmt.Errorf("failed to parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return service.PostInput{}, postForm{}, fmt.Errorf("failed to parse form: %w", err)
	}

	form := postForm{
		Title:       r.PostFormValue("title"),
		Text:        r.PostFormValue("text"),
		PubDate:     r.PostFormValue("pub_date"),
		IsPublished: checkbox(r.PostFormValue("is_published")),
		CategoryID:  optionalID(r.PostFormValue("category")),
		LocationID:  optionalID(r.PostFormValue("location")),
	}
	in := service.PostInput{
		Title:       form.Title,
		Text:        form.Text,
		PubDate:     parsePubDate(form.PubDate),
		IsPublished: form.IsPublished,
		CategoryID:  form.CategoryID,
		LocationID:  form.LocationID,
		ClearImage:  checkbox(r.PostFormValue("clear_image")),
	}

	file, _, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		raw, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
		if err != nil {
			return in, form, fmt.Errorf("failed to read upload: %w", err)
		}
		if len(raw) > 0 {
			in.Image = raw
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return in, form, fmt.Errorf("failed to read upload: %w", err)
	}
	return in, form, nil
}

func parsePubDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func checkbox(value string) bool {
	switch strings.ToLower(value) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func optionalID(value string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
