package service

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns user text into HTML that is safe to embed in a page.
type Renderer struct {
	markdown goldmark.Markdown
	ugc      *bluemonday.Policy
	strict   *bluemonday.Policy
}

// NewRenderer builds a Renderer. Post bodies are markdown sanitised with the
// user-generated-content policy; comments keep no markup at all.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Renderer{
		markdown: md,
		ugc:      bluemonday.UGCPolicy(),
		strict:   bluemonday.StrictPolicy(),
	}
}

// Post renders a post body.
func (r *Renderer) Post(text string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML(r.strict.Sanitize(text))
	}
	return template.HTML(r.ugc.SanitizeBytes(buf.Bytes()))
}

// Comment renders comment text with every tag stripped.
func (r *Renderer) Comment(text string) template.HTML {
	return template.HTML(r.strict.Sanitize(text))
}
