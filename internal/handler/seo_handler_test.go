//go:build unit

package handler

import (
	"blogicum/internal/data"
	"blogicum/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubPostServicer struct {
	service.PostServicer
	public []*data.Post
}

func (s *stubPostServicer) PublicPosts(ctx context.Context) ([]*data.Post, error) {
	return s.public, nil
}

func TestSitemapHandler(t *testing.T) {
	posts := &stubPostServicer{public: []*data.Post{
		{ID: 3, Title: "Third", PubDate: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)},
		{ID: 1, Title: "First", PubDate: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)},
	}}
	h := NewSeoHandler(posts, "https://blog.example/")

	rr := httptest.NewRecorder()
	if appErr := h.sitemapHandler(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr.Error)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("want content type application/xml; got %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"<loc>https://blog.example/</loc>",
		"<loc>https://blog.example/posts/3/</loc>",
		"<lastmod>2024-03-09</lastmod>",
		"<loc>https://blog.example/posts/1/</loc>",
		"<lastmod>2023-12-31</lastmod>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap does not contain %q:\n%s", want, body)
		}
	}
}

func TestRobotsHandler(t *testing.T) {
	h := NewSeoHandler(&stubPostServicer{}, "https://blog.example")

	rr := httptest.NewRecorder()
	if appErr := h.robotsHandler(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil)); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr.Error)
	}
	if !strings.Contains(rr.Body.String(), "Sitemap: https://blog.example/sitemap.xml") {
		t.Errorf("robots.txt does not point at the sitemap:\n%s", rr.Body.String())
	}
}
