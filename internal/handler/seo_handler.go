package handler

import (
	"blogicum/internal/middleware"
	"blogicum/internal/service"
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	posts   service.PostServicer
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. Links are made absolute with
// baseURL.
func NewSeoHandler(ps service.PostServicer, baseURL string) *SeoHandler {
	return &SeoHandler{posts: ps, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// robotsHandler serves robots.txt pointing crawlers at the sitemap.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /auth/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
	return nil
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates a sitemap of the home page and every public post.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.posts.PublicPosts(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to retrieve posts for sitemap")
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(posts)+1),
	}
	sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + "/"})
	for _, post := range posts {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc:     h.baseURL + postURL(post.ID),
			LastMod: post.PubDate.UTC().Format(sitemapDateFormat),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		return middleware.Internal(err, "Failed to generate sitemap XML")
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = buf.WriteTo(w)
	return nil
}
